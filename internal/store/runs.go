package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateRun inserts a new run into the database.
func (s *Store) CreateRun(run *Run) error {
	var startedAt *time.Time
	if run.Status == RunStatusRunning && run.StartedAt == nil {
		now := time.Now()
		startedAt = &now
	} else {
		startedAt = run.StartedAt
	}

	query := `
		INSERT INTO runs (
			id, interpreter, trigger_kind, suite, status,
			cache_hit, env_image, started_at, completed_at, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.conn.Exec(
		query,
		run.ID,
		run.Interpreter,
		run.TriggerKind,
		run.Suite,
		run.Status,
		run.CacheHit,
		run.EnvImage,
		startedAt,
		run.CompletedAt,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	if startedAt != nil && run.StartedAt == nil {
		run.StartedAt = startedAt
	}

	return nil
}

// GetRun retrieves a run by its ID.
// Returns nil, nil if the run does not exist.
func (s *Store) GetRun(id string) (*Run, error) {
	query := `
		SELECT id, interpreter, trigger_kind, suite, status,
		       cache_hit, env_image, started_at, completed_at, error
		FROM runs
		WHERE id = ?
	`

	run := &Run{}
	var envImage sql.NullString
	err := s.conn.QueryRow(query, id).Scan(
		&run.ID,
		&run.Interpreter,
		&run.TriggerKind,
		&run.Suite,
		&run.Status,
		&run.CacheHit,
		&envImage,
		&run.StartedAt,
		&run.CompletedAt,
		&run.Error,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.EnvImage = envImage.String
	return run, nil
}

// UpdateRunStatus updates the status of a run.
// Sets started_at when transitioning to running and completed_at when
// transitioning to a terminal status.
func (s *Store) UpdateRunStatus(id string, status RunStatus, runErr *string) error {
	now := time.Now()

	var query string
	var args []interface{}

	if status == RunStatusRunning {
		query = `UPDATE runs SET status = ?, error = ?, started_at = ? WHERE id = ?`
		args = []interface{}{status, runErr, now, id}
	} else if status.Terminal() {
		query = `UPDATE runs SET status = ?, error = ?, completed_at = ? WHERE id = ?`
		args = []interface{}{status, runErr, now, id}
	} else {
		query = `UPDATE runs SET status = ?, error = ? WHERE id = ?`
		args = []interface{}{status, runErr, id}
	}

	result, execErr := s.conn.Exec(query, args...)
	if execErr != nil {
		return fmt.Errorf("failed to update run status: %w", execErr)
	}

	rowsAffected, raErr := result.RowsAffected()
	if raErr != nil {
		return fmt.Errorf("failed to check rows affected: %w", raErr)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("run not found: %s", id)
	}

	return nil
}

// SetRunImage records the environment image a run executed in, together with
// whether the dependency layer came from cache.
func (s *Store) SetRunImage(id, envImage string, cacheHit bool) error {
	result, err := s.conn.Exec(
		`UPDATE runs SET env_image = ?, cache_hit = ? WHERE id = ?`,
		envImage, cacheHit, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set run image: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
// A limit of zero or less returns all runs.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	query := `
		SELECT id, interpreter, trigger_kind, suite, status,
		       cache_hit, env_image, started_at, completed_at, error
		FROM runs
		ORDER BY id DESC
	`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var envImage sql.NullString
		err := rows.Scan(
			&run.ID,
			&run.Interpreter,
			&run.TriggerKind,
			&run.Suite,
			&run.Status,
			&run.CacheHit,
			&envImage,
			&run.StartedAt,
			&run.CompletedAt,
			&run.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.EnvImage = envImage.String
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// DeleteRun removes a run and all associated steps/events (cascade).
func (s *Store) DeleteRun(id string) error {
	if _, err := s.conn.Exec(`DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}
