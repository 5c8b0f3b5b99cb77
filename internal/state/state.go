// Package state carries run metadata across component executions through the
// data dir: the previous run's state arrives in {data}/in/state.json and the
// current run's state is left in {data}/out/state.json for the platform to
// feed into the next execution.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State is what one run leaves behind for the next.
type State struct {
	LastRunAt              time.Time `json:"last_run_at"`
	LastInterval           string    `json:"last_interval"`
	ConversationsExtracted int       `json:"conversations_extracted"`
}

// Load reads the previous run's state. A missing file is a first run, not an
// error.
func Load(dataDir string) (State, error) {
	raw, err := os.ReadFile(filepath.Join(dataDir, "in", "state.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, fmt.Errorf("parse state: %w", err)
	}
	return s, nil
}

// Save writes the state for the next run.
func (s State) Save(dataDir string) error {
	dir := filepath.Join(dataDir, "out")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "state.json"), data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
