package main

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/ecosystem"
	"github.com/pthm-cable/ecosim/telemetry"
)

// FitnessEvaluator runs simulations and computes fitness.
type FitnessEvaluator struct {
	params         *ParamVector
	maxGenerations int
	seeds          []int64
	baseConfig     *config.Config

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestHistory *telemetry.History
}

// Evaluation is the outcome of one parameter vector, averaged over seeds.
type Evaluation struct {
	Fitness  float64 // lower is better
	Survival float64 // generations of coexistence
	Quality  float64 // History quality in [0, 1]
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxGenerations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:         params,
		maxGenerations: maxGenerations,
		seeds:          seeds,
		baseConfig:     baseCfg,
		bestFitness:    math.Inf(1),
	}
}

// BestHistory returns the generation history of the best evaluation.
func (fe *FitnessEvaluator) BestHistory() *telemetry.History {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHistory
}

// Minimum viable population: if either species stays below this for
// extinctionGrace consecutive generations, it counts as functionally extinct.
const (
	minViablePop    = 3
	extinctionGrace = 5
	warmup          = 3 // generations before extinction checks start
)

var errExtinct = errors.New("functional extinction")

// runResult holds the results from a single simulation run.
type runResult struct {
	survival int // generations before functional extinction (or maxGenerations)
	history  *telemetry.History
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness  float64
	survival int
	quality  float64
	history  *telemetry.History
}

// Evaluate runs every seed with the parameter vector x applied.
// Fitness is negative survival weighted by quality, so longer and healthier
// coexistence is lower (better).
func (fe *FitnessEvaluator) Evaluate(x []float64) Evaluation {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel; environments share nothing
	results := make([]seedResult, len(fe.seeds))
	g, ctx := errgroup.WithContext(context.Background())
	for i, seed := range fe.seeds {
		g.Go(func() error {
			result, err := fe.runSimulation(ctx, cfg, seed)
			if err != nil {
				return err
			}
			quality := computeQuality(result.history)
			results[i] = seedResult{
				fitness:  computeFitness(result.survival, quality),
				survival: result.survival,
				quality:  quality,
				history:  result.history,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Parameters the config rejects are as bad as immediate extinction.
		return Evaluation{}
	}

	// Aggregate results
	var totalFitness, totalSurvival, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHistory *telemetry.History
	for _, r := range results {
		totalFitness += r.fitness
		totalSurvival += float64(r.survival)
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHistory = r.history
		}
	}

	n := float64(len(fe.seeds))
	ev := Evaluation{
		Fitness:  totalFitness / n,
		Survival: totalSurvival / n,
		Quality:  totalQuality / n,
	}

	fe.mu.Lock()
	if ev.Fitness < fe.bestFitness {
		fe.bestFitness = ev.Fitness
		fe.bestHistory = bestSeedHistory
	}
	fe.mu.Unlock()

	return ev
}

// runSimulation executes a single run until functional extinction or
// maxGenerations, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(ctx context.Context, base *config.Config, seed int64) (*runResult, error) {
	cfg := *base
	cfg.Simulation.Seed = seed

	env, err := ecosystem.New(&cfg, rand.New(rand.NewSource(seed)), ecosystem.WithLogger(discardLogger))
	if err != nil {
		return nil, err
	}

	result := &runResult{history: telemetry.NewHistory(0)}
	var preyBelow, predBelow int

	n, err := env.Run(ctx, fe.maxGenerations, func(rep ecosystem.StepReport, snap ecosystem.Snapshot) error {
		stats := telemetry.Compute(rep, snap)
		result.history.Record(stats)
		if rep.Generation < warmup {
			return nil
		}

		// Hard extinction: either species completely gone
		if stats.PreyCount == 0 || stats.PredCount == 0 {
			return errExtinct
		}

		// Functional extinction: species below minimum viable population too long
		preyBelow = belowCount(preyBelow, stats.PreyCount)
		predBelow = belowCount(predBelow, stats.PredCount)
		if preyBelow >= extinctionGrace || predBelow >= extinctionGrace {
			return errExtinct
		}
		return nil
	})
	if err != nil && !errors.Is(err, errExtinct) {
		return nil, err
	}

	result.survival = n
	return result, nil
}

func belowCount(run, pop int) int {
	if pop < minViablePop {
		return run + 1
	}
	return 0
}

// copyConfig returns a copy of the base config. Config holds only values,
// so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survival × (1.0 + 0.2 × quality))
func computeFitness(survival int, quality float64) float64 {
	return -(float64(survival) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.40
	qualityWeightStability = 0.35
	qualityWeightHunting   = 0.25

	qualityMinPop = 3 // exclude generations where either species < this
)

// computeQuality computes ecosystem quality ∈ [0, 1] from a run's history.
func computeQuality(h *telemetry.History) float64 {
	records := h.Records()
	if len(records) <= warmup {
		return 0
	}

	var ratioSum, huntSum float64
	var ratioCount, huntCount int
	preyCounts := make([]float64, 0, len(records))
	predCounts := make([]float64, 0, len(records))

	for _, r := range records[warmup:] {
		if r.PreyCount < qualityMinPop || r.PredCount < qualityMinPop {
			continue
		}
		preyCounts = append(preyCounts, float64(r.PreyCount))
		predCounts = append(predCounts, float64(r.PredCount))

		// 1. Population ratio score, peaked at 10 prey per predator
		logErr := math.Log(float64(r.PreyCount) / float64(r.PredCount) / 10.0)
		ratioSum += math.Exp(-logErr * logErr)
		ratioCount++

		// 3. Hunting activity: kills per predator
		killsPerPred := float64(r.Kills) / float64(r.PredCount)
		huntSum += 1.0 - math.Exp(-killsPerPred)
		huntCount++
	}

	if ratioCount == 0 {
		return 0
	}
	ratioScore := ratioSum / float64(ratioCount)

	// 2. Population stability (coefficient of variation)
	stabilityScore := 0.0
	if len(preyCounts) >= 2 {
		cvPrey, cvPred := cv(preyCounts), cv(predCounts)
		stabilityScore = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}

	huntScore := huntSum / float64(huntCount)

	quality := qualityWeightRatio*ratioScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*huntScore
	return min(max(quality, 0), 1)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
