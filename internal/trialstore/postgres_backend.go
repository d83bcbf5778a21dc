package trialstore

import (
	"encoding/json"
	"time"

	"ideaforge/internal/types"
	"ideaforge/internal/util/jsonutil"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS trials (
  id TEXT PRIMARY KEY,
  position BIGSERIAL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS behavior_events (
  id BIGSERIAL PRIMARY KEY,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  event_type TEXT NOT NULL,
  payload JSONB
);
`)
	})
	return s.schemaErr
}

func (s *Store) appendTrialDB(trial types.Trial) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	payload, err := jsonutil.MarshalNoEscape(trial)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
INSERT INTO trials (id, payload) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`,
		trial.ID, payload)
	return err
}

func (s *Store) updateTrialDB(trial types.Trial) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	payload, err := jsonutil.MarshalNoEscape(trial)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE trials SET payload = $2 WHERE id = $1`, trial.ID, payload)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) listTrialsDB() ([]types.Trial, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT payload FROM trials ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.Trial
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			continue
		}
		var trial types.Trial
		if err := json.Unmarshal(payload, &trial); err != nil {
			continue
		}
		out = append(out, trial)
	}
	return out, rows.Err()
}

func (s *Store) clearTrialsDB() error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM trials`)
	return err
}

func (s *Store) appendEventDB(event types.BehaviorEvent) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_, err := s.db.Exec(`
INSERT INTO behavior_events (created_at, event_type, payload) VALUES ($1, $2, $3)`,
		event.Timestamp, event.Type, []byte(event.Payload))
	return err
}

func (s *Store) listEventsDB() ([]types.BehaviorEvent, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT created_at, event_type, payload FROM behavior_events ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.BehaviorEvent
	for rows.Next() {
		var e types.BehaviorEvent
		var payload []byte
		if err := rows.Scan(&e.Timestamp, &e.Type, &payload); err != nil {
			continue
		}
		e.Payload = payload
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) clearEventsDB() error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM behavior_events`)
	return err
}
