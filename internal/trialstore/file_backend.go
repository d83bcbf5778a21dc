package trialstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"ideaforge/internal/types"
	"ideaforge/internal/util/jsonutil"
)

const (
	trialsFile = "trials.json"
	eventsFile = "behavior_events.json"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		if b, err := os.ReadFile(filepath.Join(s.dir, trialsFile)); err == nil {
			var rows []types.Trial
			if err := json.Unmarshal(b, &rows); err == nil {
				s.mu.Lock()
				s.trials = rows
				s.mu.Unlock()
			}
		}
		if b, err := os.ReadFile(filepath.Join(s.dir, eventsFile)); err == nil {
			var rows []types.BehaviorEvent
			if err := json.Unmarshal(b, &rows); err == nil {
				s.mu.Lock()
				s.events = rows
				s.mu.Unlock()
			}
		}
	})
}

// saveTrialsFile must be called without holding mu.
func (s *Store) saveTrialsFile() error {
	s.mu.RLock()
	rows := append([]types.Trial(nil), s.trials...)
	s.mu.RUnlock()
	return s.writeJSON(trialsFile, rows)
}

func (s *Store) saveEventsFile() error {
	s.mu.RLock()
	rows := append([]types.BehaviorEvent(nil), s.events...)
	s.mu.RUnlock()
	return s.writeJSON(eventsFile, rows)
}

// writeJSON keeps SVG payloads readable by skipping HTML escaping.
func (s *Store) writeJSON(name string, v any) error {
	b, err := jsonutil.MarshalNoEscapeIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), b, 0o644)
}

func (s *Store) appendTrialFile(trial types.Trial) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.trials = append(s.trials, trial)
	s.mu.Unlock()
	return s.saveTrialsFile()
}

func (s *Store) updateTrialFile(trial types.Trial) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	found := false
	for i := range s.trials {
		if s.trials[i].ID == trial.ID {
			s.trials[i] = trial
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrNotFound
	}
	return s.saveTrialsFile()
}

func (s *Store) listTrialsFile() ([]types.Trial, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Trial(nil), s.trials...), nil
}

func (s *Store) clearTrialsFile() error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.trials = nil
	s.mu.Unlock()
	return s.saveTrialsFile()
}

func (s *Store) appendEventFile(event types.BehaviorEvent) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	return s.saveEventsFile()
}

func (s *Store) listEventsFile() ([]types.BehaviorEvent, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.BehaviorEvent(nil), s.events...), nil
}

func (s *Store) clearEventsFile() error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
	return s.saveEventsFile()
}
