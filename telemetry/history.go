package telemetry

import "github.com/pthm-cable/ecosim/components"

// History keeps the per-generation stats of a run.
// With a positive limit only the most recent entries are retained.
type History struct {
	limit   int
	records []GenerationStats

	peakPrey, peakPred int
	preyExtinct        int // generation index, -1 while alive
	predExtinct        int
}

// NewHistory creates a history. limit <= 0 means unbounded.
func NewHistory(limit int) *History {
	return &History{limit: limit, preyExtinct: -1, predExtinct: -1}
}

// Record appends a generation's stats.
func (h *History) Record(s GenerationStats) {
	if h.limit > 0 && len(h.records) == h.limit {
		copy(h.records, h.records[1:])
		h.records = h.records[:len(h.records)-1]
	}
	h.records = append(h.records, s)

	h.peakPrey = max(h.peakPrey, s.PreyCount)
	h.peakPred = max(h.peakPred, s.PredCount)
	if s.PreyCount == 0 && h.preyExtinct < 0 {
		h.preyExtinct = s.Generation
	}
	if s.PredCount == 0 && h.predExtinct < 0 {
		h.predExtinct = s.Generation
	}
}

// Len returns the number of retained records.
func (h *History) Len() int {
	return len(h.records)
}

// Records returns the retained records, oldest first.
func (h *History) Records() []GenerationStats {
	return h.records
}

// Last returns the most recent record.
func (h *History) Last() (GenerationStats, bool) {
	if len(h.records) == 0 {
		return GenerationStats{}, false
	}
	return h.records[len(h.records)-1], true
}

// Peak returns the largest population size seen for kind.
func (h *History) Peak(kind components.Kind) int {
	if kind == components.KindPredator {
		return h.peakPred
	}
	return h.peakPrey
}

// ExtinctionGeneration returns the first generation after which kind had no
// living members.
func (h *History) ExtinctionGeneration(kind components.Kind) (int, bool) {
	g := h.preyExtinct
	if kind == components.KindPredator {
		g = h.predExtinct
	}
	return g, g >= 0
}

// Populations returns the prey and predator count series.
func (h *History) Populations() (prey, pred []int) {
	prey = make([]int, len(h.records))
	pred = make([]int, len(h.records))
	for i, r := range h.records {
		prey[i] = r.PreyCount
		pred[i] = r.PredCount
	}
	return prey, pred
}
