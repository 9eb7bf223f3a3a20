package main

import (
	"testing"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/telemetry"
)

func TestComputeQuality_Bounds(t *testing.T) {
	if q := computeQuality(telemetry.NewHistory(0)); q != 0 {
		t.Errorf("empty history quality = %v, want 0", q)
	}

	h := telemetry.NewHistory(0)
	for i := 0; i < 20; i++ {
		h.Record(telemetry.GenerationStats{Generation: i, PreyCount: 100, PredCount: 10, Kills: 50})
	}
	q := computeQuality(h)
	if q <= 0.9 || q > 1 {
		t.Errorf("steady 10:1 coexistence quality = %v, want close to 1", q)
	}
}

func TestBelowCount(t *testing.T) {
	run := 0
	for _, pop := range []int{1, 2, 0} {
		run = belowCount(run, pop)
	}
	if run != 3 {
		t.Errorf("run = %d, want 3", run)
	}
	if belowCount(run, minViablePop) != 0 {
		t.Error("a viable population should reset the run")
	}
}

func TestEvaluate_ExtinctConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Prey.Initial = 0
	cfg.Predator.Initial = 0

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 50, []int64{1, 2}, cfg)
	ev := fe.Evaluate(pv.ExtractFromConfig(cfg))

	// Both populations are gone once warmup ends.
	if ev.Survival != float64(warmup+1) || ev.Quality != 0 {
		t.Errorf("survival=%v quality=%v, want %v/0", ev.Survival, ev.Quality, warmup+1)
	}
	if ev.Fitness != -float64(warmup+1) {
		t.Errorf("fitness = %v, want %v", ev.Fitness, -float64(warmup+1))
	}
	if fe.BestHistory() == nil {
		t.Error("best history not recorded")
	}
}
