package main

import (
	"context"
	"log/slog"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/ecosystem"
	"github.com/pthm-cable/ecosim/telemetry"
)

// SeedSummary is one row of sweep.csv.
type SeedSummary struct {
	Seed          int64 `csv:"seed"`
	Generations   int   `csv:"generations"`
	PeakPrey      int   `csv:"peak_prey"`
	PeakPred      int   `csv:"peak_pred"`
	FinalPrey     int   `csv:"final_prey"`
	FinalPred     int   `csv:"final_pred"`
	PreyExtinctAt int   `csv:"prey_extinct_at"` // -1 = survived
	PredExtinctAt int   `csv:"pred_extinct_at"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s SeedSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("seed", s.Seed),
		slog.Int("generations", s.Generations),
		slog.Int("peak_prey", s.PeakPrey),
		slog.Int("peak_pred", s.PeakPred),
		slog.Int("prey_extinct_at", s.PreyExtinctAt),
		slog.Int("pred_extinct_at", s.PredExtinctAt),
	)
}

// runSeed runs one independent environment to completion.
func runSeed(ctx context.Context, base *config.Config, seed int64, generations int, logger *slog.Logger) (SeedSummary, error) {
	cfg := *base
	cfg.Simulation.Seed = seed

	env, err := ecosystem.New(&cfg, rand.New(rand.NewSource(seed)),
		ecosystem.WithLogger(logger.With("seed", seed)),
	)
	if err != nil {
		return SeedSummary{}, err
	}

	history := telemetry.NewHistory(1)
	n, err := env.Run(ctx, generations, func(rep ecosystem.StepReport, snap ecosystem.Snapshot) error {
		history.Record(telemetry.Compute(rep, snap))
		return nil
	})
	if err != nil {
		return SeedSummary{}, err
	}

	prey, pred := env.Counts()
	s := SeedSummary{
		Seed:          seed,
		Generations:   n,
		PeakPrey:      history.Peak(components.KindPrey),
		PeakPred:      history.Peak(components.KindPredator),
		FinalPrey:     prey,
		FinalPred:     pred,
		PreyExtinctAt: -1,
		PredExtinctAt: -1,
	}
	if g, ok := history.ExtinctionGeneration(components.KindPrey); ok {
		s.PreyExtinctAt = g
	}
	if g, ok := history.ExtinctionGeneration(components.KindPredator); ok {
		s.PredExtinctAt = g
	}
	return s, nil
}

// sweep runs one environment per seed, at most workers at a time.
// Results are returned in seed order.
func sweep(ctx context.Context, cfg *config.Config, seeds []int64, generations, workers int, logger *slog.Logger) ([]SeedSummary, error) {
	results := make([]SeedSummary, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, seed := range seeds {
		g.Go(func() error {
			s, err := runSeed(ctx, cfg, seed, generations, logger)
			if err != nil {
				return err
			}
			results[i] = s
			logger.Info("seed finished", "summary", s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
