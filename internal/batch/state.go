package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// stateFileName lives in the output directory and survives process
// restarts so an interrupted batch can resume.
const stateFileName = ".batch_state.json"

// State records which inputs have been fully processed. Completed paths
// are skipped on resume; failed paths are retried.
type State struct {
	Completed []string          `json:"completed"`
	Failed    map[string]string `json:"failed"`
}

func newState() State {
	return State{Failed: make(map[string]string)}
}

func loadState(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newState(), nil
		}
		return State{}, fmt.Errorf("read batch state: %w", err)
	}
	st := newState()
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parse batch state: %w", err)
	}
	if st.Failed == nil {
		st.Failed = make(map[string]string)
	}
	return st, nil
}

func (s State) save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write batch state: %w", err)
	}
	return nil
}

func clearState(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove batch state: %w", err)
	}
	return nil
}

func (s *State) markCompleted(path string) {
	s.Completed = append(s.Completed, path)
	delete(s.Failed, path) // a retried failure that now succeeded
}

func (s *State) markFailed(path, message string) {
	s.Failed[path] = message
}

func (s State) isCompleted(path string) bool {
	for _, p := range s.Completed {
		if p == path {
			return true
		}
	}
	return false
}
