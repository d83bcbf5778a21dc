// Package trialstore persists ideation trials and behavior events. The
// backing store is a JSON file by default; setting TRIAL_STORE_PG_DSN
// switches to Postgres without touching the callers.
package trialstore

import (
	"database/sql"
	"errors"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	"ideaforge/internal/types"
)

// ErrNotFound is returned when a trial id does not exist.
var ErrNotFound = errors.New("trialstore: trial not found")

// Store keeps trials in insertion order and behavior events append-only.
type Store struct {
	dir string
	db  *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	trials   []types.Trial
	events   []types.BehaviorEvent

	schemaOnce sync.Once
	schemaErr  error
}

// New returns a file-backed store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// NewPostgres returns a Postgres-backed store.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewFromEnv picks the backend from TRIAL_STORE_PG_DSN, falling back to
// the file store when the DSN is unset or unreachable.
func NewFromEnv(dir string) *Store {
	dsn := strings.TrimSpace(os.Getenv("TRIAL_STORE_PG_DSN"))
	if dsn == "" {
		return New(dir)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(dir)
	}
	return s
}

func (s *Store) AppendTrial(trial types.Trial) error {
	if s.db != nil {
		return s.appendTrialDB(trial)
	}
	return s.appendTrialFile(trial)
}

func (s *Store) UpdateTrial(trial types.Trial) error {
	if s.db != nil {
		return s.updateTrialDB(trial)
	}
	return s.updateTrialFile(trial)
}

func (s *Store) ListTrials() ([]types.Trial, error) {
	if s.db != nil {
		return s.listTrialsDB()
	}
	return s.listTrialsFile()
}

func (s *Store) ClearTrials() error {
	if s.db != nil {
		return s.clearTrialsDB()
	}
	return s.clearTrialsFile()
}

func (s *Store) AppendEvent(event types.BehaviorEvent) error {
	if s.db != nil {
		return s.appendEventDB(event)
	}
	return s.appendEventFile(event)
}

func (s *Store) ListEvents() ([]types.BehaviorEvent, error) {
	if s.db != nil {
		return s.listEventsDB()
	}
	return s.listEventsFile()
}

func (s *Store) ClearEvents() error {
	if s.db != nil {
		return s.clearEventsDB()
	}
	return s.clearEventsFile()
}

// Close releases the database handle, if any.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
