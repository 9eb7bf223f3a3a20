package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/ecosim/components"
)

// Offspring holds the components of a newborn agent.
type Offspring struct {
	Pos    components.Position
	Traits components.Traits
	Vitals components.Vitals
}

// Reproduce attempts one asexual birth. The parent must have energy strictly
// above the species threshold; it then pays ReproCost. Offspring speed and
// vision are sampled from normal distributions centred on the parent's birth
// traits and are used as drawn, so either may come out negative. Lifespan is
// drawn from a normal centred on the species lifespan and floored at
// MinLifespan. The child spawns on a copy of the parent's position.
func Reproduce(rng *rand.Rand, pos *components.Position, traits *components.Traits, vitals *components.Vitals, sp Species) (Offspring, bool) {
	if vitals.Energy <= sp.ReproThreshold {
		return Offspring{}, false
	}
	vitals.Energy -= sp.ReproCost

	speed := rng.NormFloat64()*sp.TraitSigma + traits.BaseSpeed
	vision := rng.NormFloat64()*sp.TraitSigma + traits.BaseVision
	lifespan := math.Max(rng.NormFloat64()*sp.LifespanSigma+sp.Lifespan, sp.MinLifespan)

	return Offspring{
		Pos:    components.Position{Vec: pos.Vec},
		Traits: components.NewTraits(speed, vision, lifespan),
		Vitals: components.Vitals{Energy: sp.Energy, Alive: true},
	}, true
}

// Founder samples a founder agent at p with uniform speed and vision.
func Founder(rng *rand.Rand, p components.Position, sp Species) Offspring {
	speed := sp.SpeedMin + rng.Float64()*(sp.SpeedMax-sp.SpeedMin)
	vision := sp.VisionMin + rng.Float64()*(sp.VisionMax-sp.VisionMin)
	return Offspring{
		Pos:    p,
		Traits: components.NewTraits(speed, vision, sp.Lifespan),
		Vitals: components.Vitals{Energy: sp.Energy, Alive: true},
	}
}
