package systems

import "github.com/pthm-cable/ecosim/components"

// HuntingRule holds predator pursuit parameters.
type HuntingRule struct {
	Gain     float64 // energy per kill, independent of the prey's energy
	MissCost float64 // energy lost when no prey is visible
}

// PursuitResult summarises one predator's pursuit for a generation.
type PursuitResult struct {
	Attempts int // attempts actually made
	Kills    int
	Starved  bool // an attempt found no visible prey
}

// Hunt kills prey if hunter and prey share the exact same position and the
// prey is still alive. Hunting a dead prey is a no-op.
func Hunt(hunter *components.Position, hunterVitals *components.Vitals, prey *components.Position, preyVitals *components.Vitals, gain float64) bool {
	if hunter.Vec != prey.Vec || !preyVitals.Alive {
		return false
	}
	preyVitals.Alive = false
	hunterVitals.Energy += gain
	return true
}

// Pursue runs up to attempts pursuit attempts. Each attempt re-scans for the
// nearest visible living prey, moves toward it and tries to hunt it. The
// first attempt that sees no prey costs MissCost and ends the pursuit.
// Aging is not applied here.
func Pursue(pos *components.Position, traits *components.Traits, vitals *components.Vitals, targets []Target, attempts int, rule HuntingRule) PursuitResult {
	var res PursuitResult
	for i := 0; i < attempts; i++ {
		res.Attempts++
		idx, ok := FindPrey(pos.Vec, traits.Vision, targets)
		if !ok {
			vitals.Energy -= rule.MissCost
			res.Starved = true
			break
		}
		t := targets[idx]
		MoveTowards(pos, traits.Speed, t.Pos.Vec)
		if Hunt(pos, vitals, t.Pos, t.Vitals, rule.Gain) {
			res.Kills++
		}
	}
	return res
}
