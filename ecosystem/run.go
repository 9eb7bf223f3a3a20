package ecosystem

import (
	"context"
	"fmt"
)

// Observer receives each generation's report and snapshot.
// Returning an error stops the run.
type Observer func(rep StepReport, snap Snapshot) error

// Run steps the environment for the given number of generations, passing
// every result to observe (which may be nil). It stops early when ctx is
// cancelled, when observe fails, or, if the config asks for it, once both
// populations are extinct. It returns the number of generations stepped.
func (e *Environment) Run(ctx context.Context, generations int, observe Observer) (int, error) {
	for i := 0; i < generations; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		rep := e.Step(e.generation)
		if observe != nil {
			if err := observe(rep, e.Snapshot()); err != nil {
				return i + 1, fmt.Errorf("generation %d: %w", rep.Generation, err)
			}
		}

		if e.cfg.Simulation.StopOnExtinction && e.Extinct() {
			e.logger.Info("stopping on extinction", "generation", e.generation)
			return i + 1, nil
		}
	}
	return generations, nil
}
