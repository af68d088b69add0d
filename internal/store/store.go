package store

import (
	"database/sql"
	"fmt"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite connection holding run history.
type Store struct {
	conn *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It enables WAL mode, foreign keys, and runs migrations.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// NewRunID returns a fresh lexicographically sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// migrate creates or updates the database schema
func (s *Store) migrate() error {
	schema := `
-- Runs table: one row per interpreter verification run
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    interpreter     TEXT NOT NULL,
    trigger_kind    TEXT NOT NULL,
    suite           TEXT NOT NULL,
    status          TEXT NOT NULL,
    cache_hit       INTEGER NOT NULL DEFAULT 0,
    env_image       TEXT,
    started_at      DATETIME,
    completed_at    DATETIME,
    error           TEXT
);

-- Steps table: per-check results within a run
CREATE TABLE IF NOT EXISTS steps (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    family          TEXT NOT NULL,
    status          TEXT NOT NULL,
    log             TEXT,
    duration_ms     INTEGER NOT NULL DEFAULT 0,
    UNIQUE(run_id, name)
);

-- Events table: event log for replay and debugging
CREATE TABLE IF NOT EXISTS events (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    event_type      TEXT NOT NULL,
    step            TEXT,
    payload_json    TEXT,
    created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_steps_run_id ON steps(run_id);
CREATE INDEX IF NOT EXISTS idx_events_run_id ON events(run_id);
`

	_, err := s.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}
