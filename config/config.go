// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Food       FoodConfig       `yaml:"food"`
	Prey       SpeciesConfig    `yaml:"prey"`
	Predator   SpeciesConfig    `yaml:"predator"`
	Aging      AgingConfig      `yaml:"aging"`
	Pursuit    PursuitConfig    `yaml:"pursuit"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// WorldConfig holds the plane dimensions.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// FoodConfig holds food regeneration parameters.
// The per-generation count is Count - SeasonAmplitude*cos(pi*gen/SeasonPeriod).
type FoodConfig struct {
	Count           int     `yaml:"count"`
	Gain            float64 `yaml:"gain"`        // energy per food item eaten
	ForageCost      float64 `yaml:"forage_cost"` // energy lost when no food is visible
	SeasonAmplitude float64 `yaml:"season_amplitude"`
	SeasonPeriod    float64 `yaml:"season_period"` // generations per half cycle
}

// SpeciesConfig holds per-species founder and reproduction parameters.
type SpeciesConfig struct {
	Initial   int     `yaml:"initial"`
	SpeedMin  float64 `yaml:"speed_min"` // founder speed ~ U(SpeedMin, SpeedMax)
	SpeedMax  float64 `yaml:"speed_max"`
	VisionMin float64 `yaml:"vision_min"`
	VisionMax float64 `yaml:"vision_max"`

	Energy   float64 `yaml:"energy"`   // founder and offspring energy
	Lifespan float64 `yaml:"lifespan"` // founder lifespan and offspring lifespan mean

	ReproThreshold   float64 `yaml:"repro_threshold"` // strict: energy must exceed this
	ReproCost        float64 `yaml:"repro_cost"`
	MaxReproAttempts int     `yaml:"max_repro_attempts"` // attempts ~ U{0..Max}
	TraitSigma       float64 `yaml:"trait_sigma"`
	LifespanSigma    float64 `yaml:"lifespan_sigma"`
	MinLifespan      float64 `yaml:"min_lifespan"`

	// Predators only: energy gained per successful hunt.
	HuntGain float64 `yaml:"hunt_gain"`
}

// AgingConfig holds speed/vision decay parameters.
type AgingConfig struct {
	DecayOnset  float64 `yaml:"decay_onset"` // decay once age/lifespan exceeds this
	DecayFactor float64 `yaml:"decay_factor"`
}

// PursuitConfig holds predator hunting parameters.
type PursuitConfig struct {
	MaxAttempts int     `yaml:"max_attempts"` // attempts ~ U{1..MaxAttempts}
	MissCost    float64 `yaml:"miss_cost"`    // energy lost when no prey is visible
}

// SimulationConfig holds run parameters.
type SimulationConfig struct {
	Generations      int   `yaml:"generations"`
	Seed             int64 `yaml:"seed"` // 0 = time-based
	StopOnExtinction bool  `yaml:"stop_on_extinction"`
}

// TelemetryConfig holds output parameters.
type TelemetryConfig struct {
	LogEvery     int  `yaml:"log_every"` // generations between stats log lines (0 = never)
	WriteAgents  bool `yaml:"write_agents"`
	HistoryLimit int  `yaml:"history_limit"` // 0 = unbounded
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every out-of-range parameter. Values are never clamped.
// Comparisons are written so that NaN fails them.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if !(c.World.Width > 0) {
		bad("world.width must be positive, got %v", c.World.Width)
	}
	if !(c.World.Height > 0) {
		bad("world.height must be positive, got %v", c.World.Height)
	}
	if c.Food.Count < 0 {
		bad("food.count must not be negative, got %d", c.Food.Count)
	}
	if c.Food.SeasonAmplitude != 0 && !(c.Food.SeasonPeriod > 0) {
		bad("food.season_period must be positive when season_amplitude is set, got %v", c.Food.SeasonPeriod)
	}

	c.Prey.validate("prey", bad)
	c.Predator.validate("predator", bad)

	if !(c.Aging.DecayFactor > 0 && c.Aging.DecayFactor <= 1) {
		bad("aging.decay_factor must be in (0, 1], got %v", c.Aging.DecayFactor)
	}
	if !(c.Aging.DecayOnset >= 0) {
		bad("aging.decay_onset must not be negative, got %v", c.Aging.DecayOnset)
	}
	if c.Pursuit.MaxAttempts < 1 {
		bad("pursuit.max_attempts must be at least 1, got %d", c.Pursuit.MaxAttempts)
	}
	if c.Simulation.Generations < 0 {
		bad("simulation.generations must not be negative, got %d", c.Simulation.Generations)
	}
	if c.Telemetry.LogEvery < 0 {
		bad("telemetry.log_every must not be negative, got %d", c.Telemetry.LogEvery)
	}

	return errors.Join(errs...)
}

func (s *SpeciesConfig) validate(name string, bad func(string, ...any)) {
	if s.Initial < 0 {
		bad("%s.initial must not be negative, got %d", name, s.Initial)
	}
	if !(s.SpeedMin >= 0 && s.SpeedMax >= s.SpeedMin) {
		bad("%s speed range [%v, %v] is invalid", name, s.SpeedMin, s.SpeedMax)
	}
	if !(s.VisionMin >= 0 && s.VisionMax >= s.VisionMin) {
		bad("%s vision range [%v, %v] is invalid", name, s.VisionMin, s.VisionMax)
	}
	if !(s.Lifespan > 0) {
		bad("%s.lifespan must be positive, got %v", name, s.Lifespan)
	}
	if !(s.MinLifespan > 0) {
		bad("%s.min_lifespan must be positive, got %v", name, s.MinLifespan)
	}
	if s.ReproCost < 0 {
		bad("%s.repro_cost must not be negative, got %v", name, s.ReproCost)
	}
	if s.MaxReproAttempts < 0 {
		bad("%s.max_repro_attempts must not be negative, got %d", name, s.MaxReproAttempts)
	}
	if !(s.TraitSigma >= 0 && s.LifespanSigma >= 0) {
		bad("%s mutation sigmas must not be negative", name)
	}
}

// FoodCount returns the number of food items sampled for a generation.
func (c *Config) FoodCount(generation int) int {
	n := float64(c.Food.Count)
	if c.Food.SeasonAmplitude != 0 {
		n -= c.Food.SeasonAmplitude * math.Cos(math.Pi*float64(generation)/c.Food.SeasonPeriod)
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
