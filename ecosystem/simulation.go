package ecosystem

import (
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
)

// SpeciesReport counts one population's events during a generation.
type SpeciesReport struct {
	Births  int
	Deaths  int
	Starved int // agents that found nothing to eat or hunt
}

// StepReport summarises one generation.
type StepReport struct {
	Generation      int
	FoodSpawned     int
	FoodEaten       int
	PursuitAttempts int // pursuit attempts made across all predators
	Kills           int
	Prey            SpeciesReport
	Predators       SpeciesReport
}

// Step advances the environment by one generation:
// food regeneration, predator phase, prey phase, cull.
// Predators act before prey; the order is part of the model.
func (e *Environment) Step(generation int) StepReport {
	rep := StepReport{Generation: generation}

	// 1. Replace all food
	e.startPhase(PhaseFood)
	e.food.Regenerate(e.rng, e.cfg.FoodCount(generation), e.cfg.World.Width, e.cfg.World.Height)
	rep.FoodSpawned = e.food.Len()

	// 2. Predators hunt, age and breed
	e.startPhase(PhasePredators)
	e.updatePredators(&rep)

	// 3. Prey forage, age and breed
	e.startPhase(PhasePrey)
	e.updatePrey(&rep)

	// 4. Remove the dead
	e.startPhase(PhaseCull)
	e.cullDead(&rep)

	e.generation++
	e.checkExtinction()
	return rep
}

// updatePredators runs every living predator's pursuit, aging and breeding.
func (e *Environment) updatePredators(rep *StepReport) {
	targets := e.collectTargets()

	query := e.agentFilter.Query()
	for query.Next() {
		pos, traits, vitals, org := query.Get()
		if org.Kind != components.KindPredator || !vitals.Alive {
			continue
		}

		attempts := e.rng.Intn(e.maxPursuit) + 1
		res := systems.Pursue(pos, traits, vitals, targets, attempts, e.hunting)
		rep.PursuitAttempts += res.Attempts
		rep.Kills += res.Kills
		if res.Starved {
			rep.Predators.Starved++
		}

		systems.Age(traits, vitals, e.aging)
		if vitals.Alive {
			rep.Predators.Births += e.breed(pos, traits, vitals, org, &e.predator)
		}
	}

	e.flushBirths(components.KindPredator)
}

// updatePrey runs every living prey's foraging, aging and breeding.
func (e *Environment) updatePrey(rep *StepReport) {
	query := e.agentFilter.Query()
	for query.Next() {
		pos, traits, vitals, org := query.Get()
		if org.Kind != components.KindPrey || !vitals.Alive {
			continue
		}

		switch systems.Forage(pos, traits, vitals, e.food, e.feeding) {
		case systems.ForageAte:
			rep.FoodEaten++
		case systems.ForageStarved:
			rep.Prey.Starved++
		}

		systems.Age(traits, vitals, e.aging)
		if vitals.Alive {
			rep.Prey.Births += e.breed(pos, traits, vitals, org, &e.prey)
		}
	}

	e.flushBirths(components.KindPrey)
}

// checkExtinction logs the generation each population first dies out.
func (e *Environment) checkExtinction() {
	if e.numPrey == 0 && !e.preyGone {
		e.preyGone = true
		e.logger.Info("population extinct", "kind", components.KindPrey.String(), "generation", e.generation)
	}
	if e.numPred == 0 && !e.predGone {
		e.predGone = true
		e.logger.Info("population extinct", "kind", components.KindPredator.String(), "generation", e.generation)
	}
}
