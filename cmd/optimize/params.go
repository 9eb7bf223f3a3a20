// Package main provides CMA-ES optimization for ecosim parameters.
package main

import (
	"github.com/pthm-cable/ecosim/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// floatParam binds a spec to a float64 config field.
func floatParam(name, path string, min, max, def float64, field func(*config.Config) *float64) ParamSpec {
	return ParamSpec{
		Name: name, Path: path, Min: min, Max: max, Default: def,
		get: func(c *config.Config) float64 { return *field(c) },
		set: func(c *config.Config, v float64) { *field(c) = v },
	}
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Food
			{
				Name: "food_count", Path: "food.count", Min: 50, Max: 800, Default: 300,
				get: func(c *config.Config) float64 { return float64(c.Food.Count) },
				set: func(c *config.Config, v float64) { c.Food.Count = int(v) },
			},
			floatParam("food_gain", "food.gain", 2, 30, 10, func(c *config.Config) *float64 { return &c.Food.Gain }),
			floatParam("forage_cost", "food.forage_cost", 2, 20, 10, func(c *config.Config) *float64 { return &c.Food.ForageCost }),
			// Hunting
			floatParam("hunt_gain", "predator.hunt_gain", 2, 30, 10, func(c *config.Config) *float64 { return &c.Predator.HuntGain }),
			floatParam("miss_cost", "pursuit.miss_cost", 2, 20, 10, func(c *config.Config) *float64 { return &c.Pursuit.MissCost }),
			// Reproduction
			floatParam("prey_repro_thresh", "prey.repro_threshold", 20, 80, 40, func(c *config.Config) *float64 { return &c.Prey.ReproThreshold }),
			floatParam("pred_repro_thresh", "predator.repro_threshold", 15, 80, 30, func(c *config.Config) *float64 { return &c.Predator.ReproThreshold }),
			floatParam("prey_repro_cost", "prey.repro_cost", 5, 40, 20, func(c *config.Config) *float64 { return &c.Prey.ReproCost }),
			floatParam("pred_repro_cost", "predator.repro_cost", 5, 40, 20, func(c *config.Config) *float64 { return &c.Predator.ReproCost }),
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies clamped parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}
