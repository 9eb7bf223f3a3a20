package ecosystem

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/systems"
)

// emptyConfig returns defaults with no food and no founders.
func emptyConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Food.Count = 0
	cfg.Prey.Initial = 0
	cfg.Predator.Initial = 0
	return cfg
}

func newTestEnv(t *testing.T, cfg *config.Config, seed int64) *Environment {
	t.Helper()
	env, err := New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return env
}

func agent(x, y, speed, vision, lifespan, energy float64) systems.Offspring {
	return systems.Offspring{
		Pos:    components.Position{Vec: r2.Vec{X: x, Y: y}},
		Traits: components.NewTraits(speed, vision, lifespan),
		Vitals: components.Vitals{Energy: energy, Alive: true},
	}
}

// ---------- Construction ----------

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.World.Height = 0
	if _, err := New(cfg, nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("New error = %v, want ErrInvalid", err)
	}
	if _, err := New(nil, nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("New(nil) error = %v, want ErrInvalid", err)
	}
}

func TestNew_SpawnsFounders(t *testing.T) {
	cfg := config.Defaults()
	cfg.Prey.Initial = 25
	cfg.Predator.Initial = 4
	env := newTestEnv(t, cfg, 1)

	prey, pred := env.Counts()
	if prey != 25 || pred != 4 {
		t.Fatalf("counts = %d/%d, want 25/4", prey, pred)
	}
	if env.Food().Len() != cfg.Food.Count {
		t.Errorf("initial food = %d, want %d", env.Food().Len(), cfg.Food.Count)
	}

	snap := env.Snapshot()
	for _, a := range append(snap.Prey, snap.Predators...) {
		if a.Age != 0 || a.Energy != 50 {
			t.Errorf("founder %d: age=%d energy=%v", a.ID, a.Age, a.Energy)
		}
		if a.Speed < 3 || a.Speed > 5 || a.Vision < 3 || a.Vision > 5 {
			t.Errorf("founder %d: speed=%v vision=%v", a.ID, a.Speed, a.Vision)
		}
		if a.X < 0 || a.X > cfg.World.Width || a.Y < 0 || a.Y > cfg.World.Height {
			t.Errorf("founder %d outside plane: (%v,%v)", a.ID, a.X, a.Y)
		}
	}
	if snap.Prey[0].Lifespan != 3 || snap.Predators[0].Lifespan != 2 {
		t.Errorf("founder lifespans = %v/%v", snap.Prey[0].Lifespan, snap.Predators[0].Lifespan)
	}
}

// ---------- Step ----------

func TestStep_RegeneratesFood(t *testing.T) {
	cfg := emptyConfig()
	cfg.Food.Count = 40
	env := newTestEnv(t, cfg, 2)

	first := env.Food().Positions()
	rep := env.Step(0)
	if rep.FoodSpawned != 40 || env.Food().Remaining() != 40 {
		t.Fatalf("food spawned=%d remaining=%d, want 40/40", rep.FoodSpawned, env.Food().Remaining())
	}
	if reflect.DeepEqual(first, env.Food().Positions()) {
		t.Error("food should be resampled each generation")
	}
}

func TestStep_PredatorsDrainWithoutPrey(t *testing.T) {
	cfg := emptyConfig()
	cfg.Predator.MaxReproAttempts = 0
	env := newTestEnv(t, cfg, 3)
	for i := 0; i < 3; i++ {
		env.Spawn(components.KindPredator, agent(float64(i), 0, 4, 4, 100, 50))
	}

	for gen := 0; gen < 4; gen++ {
		env.Step(gen)
		snap := env.Snapshot()
		if len(snap.Predators) != 3 {
			t.Fatalf("gen %d: %d predators, want 3", gen, len(snap.Predators))
		}
		for _, p := range snap.Predators {
			want := 50 - 10*float64(gen+1)
			if p.Energy != want {
				t.Errorf("gen %d: predator energy = %v, want %v", gen, p.Energy, want)
			}
		}
	}

	rep := env.Step(4)
	if _, pred := env.Counts(); pred != 0 {
		t.Errorf("predators left = %d, want 0", pred)
	}
	if rep.Predators.Deaths != 3 || rep.Predators.Starved != 3 {
		t.Errorf("deaths=%d starved=%d, want 3/3", rep.Predators.Deaths, rep.Predators.Starved)
	}
}

func TestStep_ExtinctionIsPermanent(t *testing.T) {
	cfg := emptyConfig()
	cfg.Predator.Initial = 10
	env := newTestEnv(t, cfg, 4)

	for gen := 0; gen < 200; gen++ {
		rep := env.Step(gen)
		if prey, _ := env.Counts(); prey != 0 || rep.Prey.Births != 0 {
			t.Fatalf("gen %d: prey appeared from nothing", gen)
		}
		if rep.Kills != 0 || rep.FoodEaten != 0 {
			t.Fatalf("gen %d: kills=%d food=%d", gen, rep.Kills, rep.FoodEaten)
		}
	}
	if !env.Extinct() {
		_, pred := env.Counts()
		t.Errorf("expected total extinction, %d predators remain", pred)
	}
}

func TestStep_PredatorsActBeforePrey(t *testing.T) {
	cfg := emptyConfig()
	cfg.Predator.MaxReproAttempts = 0
	cfg.Prey.MaxReproAttempts = 0
	env := newTestEnv(t, cfg, 5)

	env.Spawn(components.KindPredator, agent(10, 10, 5, 5, 10, 50))
	env.Spawn(components.KindPrey, agent(12, 10, 5, 5, 10, 50))

	rep := env.Step(0)
	if rep.Kills != 1 {
		t.Fatalf("kills = %d, want 1", rep.Kills)
	}
	if rep.Prey.Deaths != 1 || rep.Prey.Starved != 0 {
		t.Errorf("prey deaths=%d starved=%d; a hunted prey must not act", rep.Prey.Deaths, rep.Prey.Starved)
	}

	snap := env.Snapshot()
	if len(snap.Prey) != 0 || len(snap.Predators) != 1 {
		t.Fatalf("populations = %d/%d, want 0/1", len(snap.Prey), len(snap.Predators))
	}
	pred := snap.Predators[0]
	if pred.X != 12 || pred.Y != 10 {
		t.Errorf("predator at (%v,%v), want (12,10)", pred.X, pred.Y)
	}
	// +10 for the kill; a second attempt finds nothing, costs 10 and ends the pursuit.
	switch rep.PursuitAttempts {
	case 1:
		if pred.Energy != 60 {
			t.Errorf("predator energy = %v after one attempt, want 60", pred.Energy)
		}
	case 2:
		if pred.Energy != 50 {
			t.Errorf("predator energy = %v after two attempts, want 50", pred.Energy)
		}
	default:
		t.Errorf("pursuit attempts = %d, want 1 or 2", rep.PursuitAttempts)
	}
}

func TestStep_NewbornsDoNotAct(t *testing.T) {
	cfg := emptyConfig()
	env := newTestEnv(t, cfg, 6)
	parent := env.Spawn(components.KindPrey, agent(5, 5, 3, 3, 1000, 100000))

	for gen := 0; gen < 50; gen++ {
		rep := env.Step(gen)
		if rep.Prey.Births == 0 {
			continue
		}

		newborns := 0
		for _, a := range env.Snapshot().Prey {
			if a.BirthGeneration != gen {
				continue
			}
			newborns++
			if a.Age != 0 || a.Energy != cfg.Prey.Energy {
				t.Errorf("newborn %d acted: age=%d energy=%v", a.ID, a.Age, a.Energy)
			}
			if a.X != 5 || a.Y != 5 {
				t.Errorf("newborn %d at (%v,%v), want parent position", a.ID, a.X, a.Y)
			}
		}
		if newborns != rep.Prey.Births {
			t.Errorf("newborns = %d, births = %d", newborns, rep.Prey.Births)
		}

		for _, a := range env.Snapshot().Prey {
			if a.ID == parent {
				return
			}
		}
		t.Fatal("parent disappeared")
	}
	t.Fatal("no births in 50 generations")
}

func TestStep_PopulationAccounting(t *testing.T) {
	env := newTestEnv(t, config.Defaults(), 7)

	prevPrey, prevPred := env.Counts()
	for gen := 0; gen < 30; gen++ {
		rep := env.Step(gen)
		prey, pred := env.Counts()
		if prey != prevPrey+rep.Prey.Births-rep.Prey.Deaths {
			t.Fatalf("gen %d: prey %d != %d + %d - %d", gen, prey, prevPrey, rep.Prey.Births, rep.Prey.Deaths)
		}
		if pred != prevPred+rep.Predators.Births-rep.Predators.Deaths {
			t.Fatalf("gen %d: predators %d != %d + %d - %d", gen, pred, prevPred, rep.Predators.Births, rep.Predators.Deaths)
		}

		snap := env.Snapshot()
		if len(snap.Prey) != prey || len(snap.Predators) != pred {
			t.Fatalf("gen %d: snapshot %d/%d vs counts %d/%d", gen, len(snap.Prey), len(snap.Predators), prey, pred)
		}
		if rep.FoodEaten+snap.FoodRemaining != rep.FoodSpawned {
			t.Fatalf("gen %d: food eaten %d + remaining %d != spawned %d", gen, rep.FoodEaten, snap.FoodRemaining, rep.FoodSpawned)
		}
		prevPrey, prevPred = prey, pred
	}
}

func TestStep_CullReleasesEntities(t *testing.T) {
	env := newTestEnv(t, emptyConfig(), 13)
	env.Spawn(components.KindPredator, agent(0, 0, 3, 3, 1, 50))
	env.Step(0)
	if used := env.world.Stats().Entities.Used; used != 0 {
		t.Fatalf("after culling the only agent, %d entities still in use", used)
	}

	env = newTestEnv(t, config.Defaults(), 7)
	for gen := 0; gen < 30; gen++ {
		env.Step(gen)
		prey, pred := env.Counts()
		if used := env.world.Stats().Entities.Used; used != prey+pred {
			t.Fatalf("gen %d: %d entities in use, want %d living agents", gen, used, prey+pred)
		}
	}
}

func TestStep_DeterministicPerSeed(t *testing.T) {
	run := func() []Snapshot {
		env := newTestEnv(t, config.Defaults(), 42)
		var out []Snapshot
		for gen := 0; gen < 15; gen++ {
			env.Step(gen)
			out = append(out, env.Snapshot())
		}
		return out
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different runs")
	}
}

// ---------- Snapshot ----------

func TestSnapshot_OrderedAndLiving(t *testing.T) {
	env := newTestEnv(t, config.Defaults(), 8)
	env.Step(0)
	env.Step(1)

	snap := env.Snapshot()
	if snap.Generation != 2 {
		t.Errorf("generation = %d, want 2", snap.Generation)
	}
	for _, group := range [][]AgentState{snap.Prey, snap.Predators} {
		for i := 1; i < len(group); i++ {
			if group[i-1].ID >= group[i].ID {
				t.Fatalf("agents not ordered by ID: %d then %d", group[i-1].ID, group[i].ID)
			}
		}
	}
	for _, a := range snap.Prey {
		if a.Kind != components.KindPrey {
			t.Fatalf("prey list holds %v", a.Kind)
		}
		if float64(a.Age) >= a.Lifespan || a.Energy <= 0 {
			t.Errorf("dead agent %d in snapshot", a.ID)
		}
	}
}

// ---------- Run ----------

func TestRun_StopsOnExtinction(t *testing.T) {
	cfg := emptyConfig()
	cfg.Simulation.StopOnExtinction = true
	env := newTestEnv(t, cfg, 9)

	n, err := env.Run(context.Background(), 100, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 {
		t.Errorf("stepped %d generations, want 1", n)
	}
}

func TestRun_ObserverAndCancel(t *testing.T) {
	env := newTestEnv(t, config.Defaults(), 10)
	ctx, cancel := context.WithCancel(context.Background())

	var seen []int
	n, err := env.Run(ctx, 100, func(rep StepReport, snap Snapshot) error {
		seen = append(seen, rep.Generation)
		if snap.Generation != rep.Generation+1 {
			t.Errorf("snapshot generation %d after step %d", snap.Generation, rep.Generation)
		}
		if len(seen) == 3 {
			cancel()
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if n != 3 || !reflect.DeepEqual(seen, []int{0, 1, 2}) {
		t.Errorf("n=%d seen=%v", n, seen)
	}
}

func TestRun_ObserverError(t *testing.T) {
	env := newTestEnv(t, config.Defaults(), 11)
	boom := errors.New("boom")

	_, err := env.Run(context.Background(), 10, func(StepReport, Snapshot) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want wrapped boom", err)
	}
}

// ---------- Phase timing ----------

type phaseRecorder struct{ phases []string }

func (r *phaseRecorder) StartPhase(name string) { r.phases = append(r.phases, name) }

func TestStep_PhaseOrder(t *testing.T) {
	rec := &phaseRecorder{}
	env, err := New(config.Defaults(), rand.New(rand.NewSource(12)), WithPhaseTimer(rec))
	if err != nil {
		t.Fatal(err)
	}
	env.Step(0)

	want := []string{PhaseFood, PhasePredators, PhasePrey, PhaseCull}
	if !reflect.DeepEqual(rec.phases, want) {
		t.Errorf("phases = %v, want %v", rec.phases, want)
	}
}
