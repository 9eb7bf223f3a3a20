// Package ecosystem owns the agent populations and food, and advances them
// one generation at a time.
package ecosystem

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/systems"
)

// Environment holds the complete simulation state.
type Environment struct {
	cfg    *config.Config
	rng    *rand.Rand
	logger *slog.Logger
	timer  PhaseTimer

	world *ecs.World

	agentMapper *ecs.Map4[
		components.Position,
		components.Traits,
		components.Vitals,
		components.Organism,
	]
	agentFilter *ecs.Filter4[
		components.Position,
		components.Traits,
		components.Vitals,
		components.Organism,
	]

	food *systems.FoodField

	// Behaviour tables
	prey       systems.Species
	predator   systems.Species
	aging      systems.AgingRule
	feeding    systems.FeedingRule
	hunting    systems.HuntingRule
	maxPursuit int

	// State
	generation int // generations stepped so far
	nextID     uint32
	numPrey    int
	numPred    int
	preyGone   bool
	predGone   bool

	// Scratch buffers reused across generations
	targets []systems.Target
	births  []birth
}

// PhaseTimer is notified as each phase of a generation begins.
type PhaseTimer interface {
	StartPhase(name string)
}

// Phase names passed to a PhaseTimer.
const (
	PhaseFood      = "food"
	PhasePredators = "predators"
	PhasePrey      = "prey"
	PhaseCull      = "cull"
)

// Option configures an Environment.
type Option func(*Environment)

// WithLogger sets the logger used for population events.
func WithLogger(l *slog.Logger) Option {
	return func(e *Environment) {
		e.logger = l
	}
}

// WithPhaseTimer reports phase boundaries to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(e *Environment) {
		e.timer = t
	}
}

// New validates cfg and creates an environment with its initial food and
// founder populations. All randomness is drawn from rng; a nil rng is seeded
// from cfg.Simulation.Seed.
func New(cfg *config.Config, rng *rand.Rand, opts ...Option) (*Environment, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ecosystem: %w: nil config", config.ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ecosystem: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Simulation.Seed))
	}

	world := ecs.NewWorld()

	e := &Environment{
		cfg:    cfg,
		rng:    rng,
		logger: slog.Default(),
		world:  world,
		agentMapper: ecs.NewMap4[
			components.Position,
			components.Traits,
			components.Vitals,
			components.Organism,
		](world),
		agentFilter: ecs.NewFilter4[
			components.Position,
			components.Traits,
			components.Vitals,
			components.Organism,
		](world),
		food:     systems.NewFoodField(),
		prey:     systems.SpeciesFromConfig(components.KindPrey, &cfg.Prey),
		predator: systems.SpeciesFromConfig(components.KindPredator, &cfg.Predator),
		aging:    systems.AgingRuleFromConfig(&cfg.Aging),
		feeding: systems.FeedingRule{
			Gain:       cfg.Food.Gain,
			ForageCost: cfg.Food.ForageCost,
		},
		hunting: systems.HuntingRule{
			Gain:     cfg.Predator.HuntGain,
			MissCost: cfg.Pursuit.MissCost,
		},
		maxPursuit: cfg.Pursuit.MaxAttempts,
		nextID:     1,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.food.Regenerate(e.rng, cfg.Food.Count, cfg.World.Width, cfg.World.Height)
	e.spawnFounders(e.prey, cfg.Prey.Initial)
	e.spawnFounders(e.predator, cfg.Predator.Initial)

	return e, nil
}

// Generation returns the number of generations stepped so far.
func (e *Environment) Generation() int {
	return e.generation
}

// Counts returns the current prey and predator population sizes.
func (e *Environment) Counts() (prey, predators int) {
	return e.numPrey, e.numPred
}

// Food returns the current generation's food field.
func (e *Environment) Food() *systems.FoodField {
	return e.food
}

// Extinct reports whether both populations are empty.
func (e *Environment) Extinct() bool {
	return e.numPrey == 0 && e.numPred == 0
}

// randomPosition samples a point uniformly on the plane.
func (e *Environment) randomPosition() components.Position {
	var p components.Position
	p.X = e.rng.Float64() * e.cfg.World.Width
	p.Y = e.rng.Float64() * e.cfg.World.Height
	return p
}

func (e *Environment) startPhase(name string) {
	if e.timer != nil {
		e.timer.StartPhase(name)
	}
}
