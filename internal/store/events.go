package store

import (
	"context"
	"fmt"
	"time"

	"shuttle/internal/lifecycle"
)

// AppendEvent appends one execution event to a job's log and returns the
// stored record with its assigned sequence number. Events are never updated
// or deleted; this is the only write path into job_events.
func (s *Store) AppendEvent(ctx context.Context, event lifecycle.Event) (lifecycle.Event, error) {
	if event.JobID == "" {
		return lifecycle.Event{}, fmt.Errorf("append event: job id required")
	}
	if _, ok := lifecycle.ParseEventType(string(event.Type)); !ok {
		return lifecycle.Event{}, fmt.Errorf("append event: unknown event type %q", event.Type)
	}

	created := event.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO job_events (job_id, event_type, clip_index, detail, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		event.JobID,
		string(event.Type),
		event.ClipIndex,
		event.Detail,
		created.Format(time.RFC3339Nano),
	)
	if err != nil {
		return lifecycle.Event{}, fmt.Errorf("append event: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return lifecycle.Event{}, fmt.Errorf("append event: last insert id: %w", err)
	}

	event.Seq = seq
	event.CreatedAt = created
	return event, nil
}

// Events reads a job's full event log in insertion order.
func (s *Store) Events(ctx context.Context, jobID string) ([]lifecycle.Event, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT seq, job_id, event_type, clip_index, detail, created_at
         FROM job_events WHERE job_id = ? ORDER BY seq ASC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	var events []lifecycle.Event
	for rows.Next() {
		var event lifecycle.Event
		var eventType, created string
		if err := rows.Scan(&event.Seq, &event.JobID, &eventType, &event.ClipIndex, &event.Detail, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		parsed, ok := lifecycle.ParseEventType(eventType)
		if !ok {
			return nil, fmt.Errorf("read events: unknown stored event type %q", eventType)
		}
		event.Type = parsed
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			event.CreatedAt = ts
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// HasEvent reports whether the job's log contains at least one event of the
// given type. The adapter checks job_cancelled through this before each clip
// dispatch.
func (s *Store) HasEvent(ctx context.Context, jobID string, eventType lifecycle.EventType) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT EXISTS (SELECT 1 FROM job_events WHERE job_id = ? AND event_type = ?)`,
		jobID,
		string(eventType),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event: %w", err)
	}
	return exists, nil
}

// DeriveState folds a job's stored event log into its lifecycle state.
func (s *Store) DeriveState(ctx context.Context, jobID string) (lifecycle.Derivation, error) {
	events, err := s.Events(ctx, jobID)
	if err != nil {
		return lifecycle.Derivation{}, err
	}
	return lifecycle.Derive(events), nil
}
