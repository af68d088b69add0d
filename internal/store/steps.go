package store

import "fmt"

// InsertStepResult persists one check result for a run.
func (s *Store) InsertStepResult(step *StepRecord) error {
	query := `
		INSERT INTO steps (run_id, name, family, status, log, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.conn.Exec(
		query,
		step.RunID,
		step.Name,
		step.Family,
		step.Status,
		step.Log,
		step.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to insert step result: %w", err)
	}

	return nil
}

// ListSteps returns the step results for a run in insertion order.
func (s *Store) ListSteps(runID string) ([]*StepRecord, error) {
	query := `
		SELECT run_id, name, family, status, log, duration_ms
		FROM steps
		WHERE run_id = ?
		ORDER BY id
	`

	rows, err := s.conn.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	var steps []*StepRecord
	for rows.Next() {
		step := &StepRecord{}
		err := rows.Scan(
			&step.RunID,
			&step.Name,
			&step.Family,
			&step.Status,
			&step.Log,
			&step.DurationMS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, step)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating steps: %w", err)
	}

	return steps, nil
}
