package ecosystem

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
)

// birth is a queued offspring, spawned once its phase completes.
type birth struct {
	child    systems.Offspring
	parentID uint32
}

// spawnFounders creates n founder agents of the given species at random positions.
func (e *Environment) spawnFounders(sp systems.Species, n int) {
	for i := 0; i < n; i++ {
		e.spawn(sp.Kind, systems.Founder(e.rng, e.randomPosition(), sp), 0)
	}
}

// Spawn adds an agent to the world and returns its ID.
// Drivers and tests use it to seed hand-placed agents.
func (e *Environment) Spawn(kind components.Kind, a systems.Offspring) uint32 {
	return e.spawn(kind, a, 0)
}

func (e *Environment) spawn(kind components.Kind, a systems.Offspring, parentID uint32) uint32 {
	id := e.nextID
	e.nextID++

	pos := a.Pos
	traits := a.Traits
	vitals := a.Vitals
	org := components.Organism{
		ID:              id,
		Kind:            kind,
		ParentID:        parentID,
		BirthGeneration: e.generation,
	}
	e.agentMapper.NewEntity(&pos, &traits, &vitals, &org)

	if kind == components.KindPrey {
		e.numPrey++
	} else {
		e.numPred++
	}
	return id
}

// breed runs the survivor's reproduction attempts and queues any offspring.
// The attempt count is uniform in [0, MaxReproAttempts].
func (e *Environment) breed(pos *components.Position, traits *components.Traits, vitals *components.Vitals, org *components.Organism, sp *systems.Species) int {
	n := e.rng.Intn(sp.MaxReproAttempts + 1)
	born := 0
	for i := 0; i < n; i++ {
		child, ok := systems.Reproduce(e.rng, pos, traits, vitals, *sp)
		if !ok {
			continue
		}
		e.births = append(e.births, birth{child: child, parentID: org.ID})
		born++
	}
	return born
}

// flushBirths spawns every queued offspring. Called between phases so
// newborns never act in the generation they are born.
func (e *Environment) flushBirths(kind components.Kind) {
	for _, b := range e.births {
		e.spawn(kind, b.child, b.parentID)
	}
	e.births = e.births[:0]
}

// cullDead removes every agent marked dead.
func (e *Environment) cullDead(rep *StepReport) {
	// First pass: collect dead entities (must complete before modifying)
	type deadInfo struct {
		entity ecs.Entity
		kind   components.Kind
	}
	var toRemove []deadInfo

	query := e.agentFilter.Query()
	for query.Next() {
		_, _, vitals, org := query.Get()
		if !vitals.Alive {
			toRemove = append(toRemove, deadInfo{entity: query.Entity(), kind: org.Kind})
		}
	}

	// Second pass: remove entities (query iteration complete)
	for _, dead := range toRemove {
		e.world.RemoveEntity(dead.entity)
		if dead.kind == components.KindPrey {
			e.numPrey--
			rep.Prey.Deaths++
		} else {
			e.numPred--
			rep.Predators.Deaths++
		}
	}
}

// collectTargets gathers every prey as a pursuit target.
// The returned slice aliases ECS storage and is valid until the next
// structural change.
func (e *Environment) collectTargets() []systems.Target {
	e.targets = e.targets[:0]
	query := e.agentFilter.Query()
	for query.Next() {
		pos, _, vitals, org := query.Get()
		if org.Kind != components.KindPrey {
			continue
		}
		e.targets = append(e.targets, systems.Target{Pos: pos, Vitals: vitals})
	}
	return e.targets
}
