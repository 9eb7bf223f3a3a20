package main

import (
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/ecosim/config"
)

// EvalRecord is one row of evaluations.csv.
type EvalRecord struct {
	Eval     int     `csv:"eval"`
	Survival float64 `csv:"survival"`
	Quality  float64 `csv:"quality"`
	Fitness  float64 `csv:"fitness"`
	Params   string  `csv:"params"` // name=value pairs, space separated
}

// search drives CMA-ES over a parameter vector and keeps every evaluation.
// The objective is called sequentially.
type search struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	maxEvals  int
	logger    *slog.Logger

	records    []EvalRecord
	best       Evaluation
	bestParams []float64
}

func newSearch(params *ParamVector, evaluator *FitnessEvaluator, maxEvals int, logger *slog.Logger) *search {
	return &search{
		params:    params,
		evaluator: evaluator,
		maxEvals:  maxEvals,
		logger:    logger,
		best:      Evaluation{Fitness: math.Inf(1)},
	}
}

// objective evaluates a normalised point and records the result.
func (s *search) objective(x []float64) float64 {
	values := s.params.Clamp(s.params.Denormalize(x))
	ev := s.evaluator.Evaluate(values)

	s.records = append(s.records, EvalRecord{
		Eval:     len(s.records) + 1,
		Survival: ev.Survival,
		Quality:  ev.Quality,
		Fitness:  ev.Fitness,
		Params:   s.params.Format(values),
	})
	if ev.Fitness < s.best.Fitness {
		s.best = ev
		s.bestParams = values
	}

	s.logger.Info("evaluation",
		"eval", len(s.records),
		"max_evals", s.maxEvals,
		"survived", ev.Survival,
		"quality", ev.Quality,
		"best_survived", s.best.Survival,
		"best_quality", s.best.Quality,
	)
	return ev.Fitness
}

// run minimises from the raw parameter values in initial.
func (s *search) run(initial []float64, method optimize.Method) error {
	problem := optimize.Problem{Func: s.objective}
	settings := &optimize.Settings{FuncEvaluations: s.maxEvals}
	_, err := optimize.Minimize(problem, s.params.Normalize(initial), settings, method)
	return err
}

// bestConfig returns the base config with the best parameters applied, or
// nil if nothing was evaluated.
func (s *search) bestConfig() *config.Config {
	if s.bestParams == nil {
		return nil
	}
	cfg := s.evaluator.copyConfig()
	s.params.ApplyToConfig(cfg, s.bestParams)
	return cfg
}

// writeEvaluations saves every recorded evaluation as CSV.
func (s *search) writeEvaluations(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&s.records, f)
}

// Format renders values as space-separated name=value pairs.
func (pv *ParamVector) Format(values []float64) string {
	var b strings.Builder
	for i, spec := range pv.Specs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(spec.Name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(values[i], 'g', 6, 64))
	}
	return b.String()
}
