package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/ecosystem"
	"github.com/pthm-cable/ecosim/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot (a run ID sub-directory is created)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, then time-based)")
	generations := flag.Int("generations", 0, "Generations to run (0 = use config)")
	logEvery := flag.Int("log-every", -1, "Log stats every N generations (-1 = use config, 0 = never)")
	writeAgents := flag.Bool("write-agents", false, "Also write per-agent rows to agents.csv")
	logPerf := flag.Bool("log-perf", false, "Log step timing alongside stats")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	}
	if *generations > 0 {
		cfg.Simulation.Generations = *generations
	}
	if *logEvery >= 0 {
		cfg.Telemetry.LogEvery = *logEvery
	}
	if *writeAgents {
		cfg.Telemetry.WriteAgents = true
	}

	runID := uuid.NewString()
	logger = logger.With("run", runID)

	if err := run(runID, cfg, *outputDir, *logPerf, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(runID string, cfg *config.Config, outputDir string, logPerf bool, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var dir string
	if outputDir != "" {
		dir = filepath.Join(outputDir, runID)
	}
	out, err := telemetry.NewOutputManager(dir, cfg.Telemetry.WriteAgents)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.LogEvery)
	env, err := ecosystem.New(cfg, rand.New(rand.NewSource(cfg.Simulation.Seed)),
		ecosystem.WithLogger(logger),
		ecosystem.WithPhaseTimer(perf),
	)
	if err != nil {
		return err
	}

	prey, pred := env.Counts()
	logger.Info("starting simulation",
		"seed", cfg.Simulation.Seed,
		"generations", cfg.Simulation.Generations,
		"prey", prey,
		"pred", pred,
		"output_dir", out.Dir(),
	)

	history := telemetry.NewHistory(cfg.Telemetry.HistoryLimit)
	every := cfg.Telemetry.LogEvery

	// Generation timing brackets the observer of the previous generation; close
	// enough for a per-window average.
	perf.StartGeneration()
	n, err := env.Run(ctx, cfg.Simulation.Generations, func(rep ecosystem.StepReport, snap ecosystem.Snapshot) error {
		perf.EndGeneration(len(snap.Prey) + len(snap.Predators))
		defer perf.StartGeneration()

		stats := telemetry.Compute(rep, snap)
		history.Record(stats)

		if every > 0 && rep.Generation%every == 0 {
			stats.LogStats(logger)
			if logPerf {
				logger.Info("perf", "gen", rep.Generation, "perf", perf.Stats())
			}
		}

		if err := out.WriteGeneration(stats); err != nil {
			return err
		}
		return out.WriteAgents(snap)
	})
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted", "generation", env.Generation())
	} else if err != nil {
		return err
	}

	attrs := []any{
		"generations", n,
		"peak_prey", history.Peak(components.KindPrey),
		"peak_pred", history.Peak(components.KindPredator),
	}
	if g, ok := history.ExtinctionGeneration(components.KindPrey); ok {
		attrs = append(attrs, "prey_extinct_at", g)
	}
	if g, ok := history.ExtinctionGeneration(components.KindPredator); ok {
		attrs = append(attrs, "pred_extinct_at", g)
	}
	logger.Info("simulation finished", attrs...)
	return nil
}
