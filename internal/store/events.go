package store

import "fmt"

// AppendEvent persists one event for a run.
func (s *Store) AppendEvent(runID, eventType, step, payloadJSON string) error {
	query := `
		INSERT INTO events (run_id, event_type, step, payload_json)
		VALUES (?, ?, ?, ?)
	`

	if _, err := s.conn.Exec(query, runID, eventType, step, payloadJSON); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// ListEvents returns the events for a run in append order.
func (s *Store) ListEvents(runID string) ([]*EventRecord, error) {
	query := `
		SELECT id, run_id, event_type, step, payload_json, created_at
		FROM events
		WHERE run_id = ?
		ORDER BY id
	`

	rows, err := s.conn.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var records []*EventRecord
	for rows.Next() {
		record := &EventRecord{}
		err := rows.Scan(
			&record.ID,
			&record.RunID,
			&record.EventType,
			&record.Step,
			&record.PayloadJSON,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return records, nil
}
