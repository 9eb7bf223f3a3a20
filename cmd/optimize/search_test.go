package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/ecosim/config"
)

func extinctSearch(t *testing.T) (*search, *config.Config) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Prey.Initial = 0
	cfg.Predator.Initial = 0

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 20, []int64{1}, cfg)
	return newSearch(pv, fe, 10, discardLogger), cfg
}

func TestSearch_ObjectiveRecords(t *testing.T) {
	s, cfg := extinctSearch(t)
	x := s.params.Normalize(s.params.ExtractFromConfig(cfg))

	for i := 0; i < 2; i++ {
		if got := s.objective(x); got != -float64(warmup+1) {
			t.Fatalf("objective = %v, want %v", got, -float64(warmup+1))
		}
	}

	if len(s.records) != 2 {
		t.Fatalf("records = %d, want 2", len(s.records))
	}
	r := s.records[1]
	if r.Eval != 2 || r.Survival != float64(warmup+1) || r.Quality != 0 {
		t.Errorf("record = %+v", r)
	}
	if !strings.HasPrefix(r.Params, "food_count=300 ") {
		t.Errorf("params = %q", r.Params)
	}
	if s.best.Survival != float64(warmup+1) {
		t.Errorf("best survival = %v", s.best.Survival)
	}
}

func TestSearch_BestConfigAppliesParams(t *testing.T) {
	s, _ := extinctSearch(t)
	if s.bestConfig() != nil {
		t.Fatal("best config before any evaluation")
	}

	raw := s.params.DefaultVector()
	raw[0] = 50 // food_count lower bound
	s.objective(s.params.Normalize(raw))

	best := s.bestConfig()
	if best == nil {
		t.Fatal("no best config after an evaluation")
	}
	if best.Food.Count != 50 {
		t.Errorf("food count = %d, want 50", best.Food.Count)
	}
	if s.evaluator.baseConfig.Food.Count != 300 {
		t.Error("best config aliases the base config")
	}
}

func TestSearch_WriteEvaluations(t *testing.T) {
	s, cfg := extinctSearch(t)
	s.objective(s.params.Normalize(s.params.ExtractFromConfig(cfg)))

	path := filepath.Join(t.TempDir(), "evaluations.csv")
	if err := s.writeEvaluations(path); err != nil {
		t.Fatalf("writeEvaluations: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var rows []EvalRecord
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 1 || rows[0].Eval != 1 || rows[0].Params != s.records[0].Params {
		t.Errorf("rows = %+v", rows)
	}
}

func TestParamVector_Format(t *testing.T) {
	pv := &ParamVector{Specs: []ParamSpec{{Name: "a"}, {Name: "b"}}}
	if got := pv.Format([]float64{1.5, 20}); got != "a=1.5 b=20" {
		t.Errorf("Format = %q", got)
	}
}
