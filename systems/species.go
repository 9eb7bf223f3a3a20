package systems

import (
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// Species is the behaviour table for one Kind.
type Species struct {
	Kind components.Kind

	// Founders
	SpeedMin, SpeedMax   float64
	VisionMin, VisionMax float64

	// Offspring
	Energy        float64
	Lifespan      float64
	LifespanSigma float64
	MinLifespan   float64
	TraitSigma    float64

	ReproThreshold   float64
	ReproCost        float64
	MaxReproAttempts int
}

// SpeciesFromConfig builds the behaviour table for kind.
func SpeciesFromConfig(kind components.Kind, cfg *config.SpeciesConfig) Species {
	return Species{
		Kind:             kind,
		SpeedMin:         cfg.SpeedMin,
		SpeedMax:         cfg.SpeedMax,
		VisionMin:        cfg.VisionMin,
		VisionMax:        cfg.VisionMax,
		Energy:           cfg.Energy,
		Lifespan:         cfg.Lifespan,
		LifespanSigma:    cfg.LifespanSigma,
		MinLifespan:      cfg.MinLifespan,
		TraitSigma:       cfg.TraitSigma,
		ReproThreshold:   cfg.ReproThreshold,
		ReproCost:        cfg.ReproCost,
		MaxReproAttempts: cfg.MaxReproAttempts,
	}
}
