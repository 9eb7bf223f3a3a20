// Package main runs the same configuration across many seeds in parallel
// and reports per-seed population outcomes.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/ecosim/config"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	numSeeds := flag.Int("seeds", 8, "Number of seeds to run")
	firstSeed := flag.Int64("first-seed", 1, "First seed; seeds are consecutive")
	generations := flag.Int("generations", 0, "Generations per run (0 = use config)")
	workers := flag.Int("workers", runtime.NumCPU(), "Concurrent runs")
	output := flag.String("output", "", "Write per-seed summaries to this CSV file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *generations > 0 {
		cfg.Simulation.Generations = *generations
	}

	seeds := make([]int64, *numSeeds)
	for i := range seeds {
		seeds[i] = *firstSeed + int64(i)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting sweep", "seeds", len(seeds), "generations", cfg.Simulation.Generations, "workers", *workers)
	results, err := sweep(ctx, cfg, seeds, cfg.Simulation.Generations, *workers, logger)
	if err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(1)
	}

	coexisting := 0
	for _, r := range results {
		if r.PreyExtinctAt < 0 && r.PredExtinctAt < 0 {
			coexisting++
		}
	}
	slog.Info("sweep finished", "seeds", len(results), "coexisting", coexisting)

	if *output != "" {
		if err := writeSummaries(*output, results); err != nil {
			slog.Error("failed to write summaries", "error", err)
			os.Exit(1)
		}
	}
}

func writeSummaries(path string, rows []SeedSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}
