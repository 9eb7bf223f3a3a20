package ecosystem

import (
	"cmp"
	"slices"

	"github.com/pthm-cable/ecosim/components"
)

// AgentState is a read-only copy of one agent.
type AgentState struct {
	ID              uint32          `json:"id" csv:"id"`
	Kind            components.Kind `json:"kind" csv:"-"`
	ParentID        uint32          `json:"parent_id" csv:"parent_id"`
	BirthGeneration int             `json:"birth_generation" csv:"birth_generation"`
	X               float64         `json:"x" csv:"x"`
	Y               float64         `json:"y" csv:"y"`
	Speed           float64         `json:"speed" csv:"speed"`
	Vision          float64         `json:"vision" csv:"vision"`
	Age             int             `json:"age" csv:"age"`
	Energy          float64         `json:"energy" csv:"energy"`
	Lifespan        float64         `json:"lifespan" csv:"lifespan"`
}

// Snapshot holds the living populations after a generation.
// Agents are ordered by ID.
type Snapshot struct {
	Generation    int
	Prey          []AgentState
	Predators     []AgentState
	FoodRemaining int
}

// Snapshot copies the current living agents.
func (e *Environment) Snapshot() Snapshot {
	s := Snapshot{
		Generation:    e.generation,
		Prey:          make([]AgentState, 0, e.numPrey),
		Predators:     make([]AgentState, 0, e.numPred),
		FoodRemaining: e.food.Remaining(),
	}

	query := e.agentFilter.Query()
	for query.Next() {
		pos, traits, vitals, org := query.Get()
		if !vitals.Alive {
			continue
		}
		a := AgentState{
			ID:              org.ID,
			Kind:            org.Kind,
			ParentID:        org.ParentID,
			BirthGeneration: org.BirthGeneration,
			X:               pos.X,
			Y:               pos.Y,
			Speed:           traits.Speed,
			Vision:          traits.Vision,
			Age:             vitals.Age,
			Energy:          vitals.Energy,
			Lifespan:        traits.Lifespan,
		}
		if org.Kind == components.KindPrey {
			s.Prey = append(s.Prey, a)
		} else {
			s.Predators = append(s.Predators, a)
		}
	}

	byID := func(a, b AgentState) int { return cmp.Compare(a.ID, b.ID) }
	slices.SortFunc(s.Prey, byID)
	slices.SortFunc(s.Predators, byID)
	return s
}
