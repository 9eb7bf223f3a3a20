package telemetry

import (
	"log/slog"
	"time"
)

// PhaseTiming is the time one phase took within a generation.
type PhaseTiming struct {
	Name     string
	Duration time.Duration
}

// GenerationTiming holds timing data for a single generation.
// Phases are in the order they ran.
type GenerationTiming struct {
	Total  time.Duration
	Agents int // living agents when the generation ended
	Phases []PhaseTiming
}

// PerfCollector times generations over a rolling window. Between
// StartGeneration and EndGeneration it receives the environment's phase
// boundaries as an ecosystem.PhaseTimer.
type PerfCollector struct {
	window  []GenerationTiming
	next    int
	filled  int
	current GenerationTiming
	started time.Time
	phaseAt time.Time
}

// NewPerfCollector creates a collector averaging over the last window
// generations.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 10
	}
	return &PerfCollector{window: make([]GenerationTiming, window)}
}

// StartGeneration begins timing a new generation.
func (p *PerfCollector) StartGeneration() {
	p.started = time.Now()
	p.current = GenerationTiming{}
}

// StartPhase closes the running phase, if any, and opens the named one.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.current.Phases = append(p.current.Phases, PhaseTiming{Name: name})
	p.phaseAt = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if n := len(p.current.Phases); n > 0 {
		p.current.Phases[n-1].Duration += now.Sub(p.phaseAt)
	}
}

// EndGeneration records the generation with the number of agents left alive.
func (p *PerfCollector) EndGeneration(agents int) {
	now := time.Now()
	p.closePhase(now)
	p.current.Total = now.Sub(p.started)
	p.current.Agents = agents

	p.window[p.next] = p.current
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
	p.current = GenerationTiming{}
}

// PhaseShare is a phase's average duration and share of generation time.
type PhaseShare struct {
	Name string
	Avg  time.Duration
	Pct  float64
}

// PerfStats aggregates the window.
type PerfStats struct {
	Generations int
	Avg         time.Duration
	Min         time.Duration
	Max         time.Duration
	AvgAgents   float64
	PerAgent    time.Duration // average generation time per living agent
	Phases      []PhaseShare  // first-run order
}

// GenerationsPerSecond is the throughput implied by the average.
func (s PerfStats) GenerationsPerSecond() float64 {
	if s.Avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.Avg)
}

// Phase returns the share for the named phase.
func (s PerfStats) Phase(name string) (PhaseShare, bool) {
	for _, ph := range s.Phases {
		if ph.Name == name {
			return ph, true
		}
	}
	return PhaseShare{}, false
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Generations: p.filled}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var agents int
	index := make(map[string]int)
	for i, g := range p.window[:p.filled] {
		total += g.Total
		agents += g.Agents
		if i == 0 || g.Total < s.Min {
			s.Min = g.Total
		}
		if g.Total > s.Max {
			s.Max = g.Total
		}
		for _, ph := range g.Phases {
			j, ok := index[ph.Name]
			if !ok {
				j = len(s.Phases)
				index[ph.Name] = j
				s.Phases = append(s.Phases, PhaseShare{Name: ph.Name})
			}
			s.Phases[j].Avg += ph.Duration
		}
	}

	n := time.Duration(p.filled)
	s.Avg = total / n
	s.AvgAgents = float64(agents) / float64(p.filled)
	if agents > 0 {
		s.PerAgent = total / time.Duration(agents)
	}
	for i := range s.Phases {
		s.Phases[i].Avg /= n
		if s.Avg > 0 {
			s.Phases[i].Pct = float64(s.Phases[i].Avg) / float64(s.Avg) * 100
		}
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("window", s.Generations),
		slog.Int64("avg_us", s.Avg.Microseconds()),
		slog.Int64("min_us", s.Min.Microseconds()),
		slog.Int64("max_us", s.Max.Microseconds()),
		slog.Float64("gens_per_sec", s.GenerationsPerSecond()),
		slog.Float64("avg_agents", s.AvgAgents),
		slog.Int64("per_agent_ns", s.PerAgent.Nanoseconds()),
	}
	for _, ph := range s.Phases {
		attrs = append(attrs, slog.Float64(ph.Name+"_pct", ph.Pct))
	}
	return slog.GroupValue(attrs...)
}
