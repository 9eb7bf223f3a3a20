// Package main searches food, energy and reproduction constants with CMA-ES
// for settings under which predators and prey keep coexisting.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/telemetry"
)

var discardLogger = slog.New(slog.DiscardHandler)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxGenerations := flag.Int("max-generations", 500, "Generation cap per run")
	seeds := flag.Int("seeds", 3, "Seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *outputDir == "" {
		slog.Error("--output is required")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	baseCfg := config.Cfg()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, *maxGenerations, evalSeeds, baseCfg)
	s := newSearch(params, evaluator, *maxEvals, logger)

	slog.Info("starting search",
		"params", params.Dim(),
		"seeds", len(evalSeeds),
		"max_generations", *maxGenerations,
		"max_evals", *maxEvals,
	)
	err := s.run(params.ExtractFromConfig(baseCfg), &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   *population,
	})
	if err != nil {
		slog.Warn("search ended early", "error", err)
	}

	if err := s.writeEvaluations(filepath.Join(*outputDir, "evaluations.csv")); err != nil {
		slog.Error("failed to write evaluations", "error", err)
	}

	bestCfg := s.bestConfig()
	if bestCfg == nil {
		slog.Warn("no evaluations completed")
		return
	}
	slog.Info("search finished",
		"evals", len(s.records),
		"survived", s.best.Survival,
		"quality", s.best.Quality,
		"params", params.Format(s.bestParams),
	)

	if err := bestCfg.WriteYAML(filepath.Join(*outputDir, "best_config.yaml")); err != nil {
		slog.Error("failed to write best config", "error", err)
	}
	if h := evaluator.BestHistory(); h != nil {
		if err := writeHistory(filepath.Join(*outputDir, "best_generations.csv"), h); err != nil {
			slog.Error("failed to write best run history", "error", err)
		}
	}
}

// writeHistory saves a run's generation stats as CSV.
func writeHistory(path string, h *telemetry.History) error {
	rows := make([]telemetry.GenerationStatsCSV, 0, h.Len())
	for _, s := range h.Records() {
		rows = append(rows, s.ToCSV())
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}
