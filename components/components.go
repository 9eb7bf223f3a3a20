// Package components defines ECS components for the simulation.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Kind tags which species behaviour table an agent uses.
type Kind uint8

const (
	KindPrey Kind = iota
	KindPredator
)

// String returns the display name for a Kind.
func (k Kind) String() string {
	switch k {
	case KindPrey:
		return "prey"
	case KindPredator:
		return "predator"
	default:
		return "unknown"
	}
}

// Position represents an agent's location on the plane.
// It is not clamped to the world bounds.
type Position struct {
	r2.Vec
}

// Traits holds an agent's movement and perception capabilities.
// Speed and Vision decay with age; the Base values are fixed at birth
// and are the means offspring traits are sampled around.
type Traits struct {
	Speed      float64 // max displacement per move
	Vision     float64 // perception radius
	BaseSpeed  float64
	BaseVision float64
	Lifespan   float64 // generations
}

// NewTraits returns traits whose current values equal their birth values.
func NewTraits(speed, vision, lifespan float64) Traits {
	return Traits{
		Speed:      speed,
		Vision:     vision,
		BaseSpeed:  speed,
		BaseVision: vision,
		Lifespan:   lifespan,
	}
}

// Vitals tracks an agent's metabolic state.
type Vitals struct {
	Energy float64
	Age    int // generations survived
	Alive  bool
}

// Organism bundles identity and lineage.
type Organism struct {
	ID              uint32
	Kind            Kind
	ParentID        uint32 // 0 for founders
	BirthGeneration int
}
