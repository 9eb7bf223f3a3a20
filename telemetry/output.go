package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/ecosystem"
)

// AgentRecord is one agent row in agents.csv.
type AgentRecord struct {
	Generation int    `csv:"generation"`
	Kind       string `csv:"kind"`
	ecosystem.AgentState
}

// OutputManager handles structured run output with CSV logging.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir            string
	generationFile *os.File
	agentFile      *os.File

	// Track if headers have been written
	generationHeaderWritten bool
	agentHeaderWritten      bool
}

// NewOutputManager creates the output directory and opens generations.csv,
// plus agents.csv when writeAgents is set.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string, writeAgents bool) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "generations.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating generations.csv: %w", err)
	}
	om.generationFile = f

	if writeAgents {
		f, err = os.Create(filepath.Join(dir, "agents.csv"))
		if err != nil {
			om.generationFile.Close()
			return nil, fmt.Errorf("creating agents.csv: %w", err)
		}
		om.agentFile = f
	}

	return om, nil
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteGeneration writes a stats record to generations.csv.
func (om *OutputManager) WriteGeneration(stats GenerationStats) error {
	if om == nil {
		return nil
	}

	records := []GenerationStatsCSV{stats.ToCSV()}
	if err := writeRecords(om.generationFile, records, &om.generationHeaderWritten); err != nil {
		return fmt.Errorf("writing generation: %w", err)
	}
	return nil
}

// WriteAgents writes every agent of a snapshot to agents.csv.
// It is a no-op when agent output was not requested.
func (om *OutputManager) WriteAgents(snap ecosystem.Snapshot) error {
	if om == nil || om.agentFile == nil {
		return nil
	}

	records := make([]AgentRecord, 0, len(snap.Prey)+len(snap.Predators))
	for _, group := range [][]ecosystem.AgentState{snap.Prey, snap.Predators} {
		for _, a := range group {
			records = append(records, AgentRecord{
				Generation: snap.Generation,
				Kind:       a.Kind.String(),
				AgentState: a,
			})
		}
	}
	if len(records) == 0 {
		return nil
	}

	if err := writeRecords(om.agentFile, records, &om.agentHeaderWritten); err != nil {
		return fmt.Errorf("writing agents: %w", err)
	}
	return nil
}

// writeRecords appends records, writing the header only on the first call.
func writeRecords[T any](f *os.File, records []T, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.generationFile, om.agentFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
