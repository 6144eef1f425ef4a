package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shuttle/internal/execution"
)

// SaveResult persists a terminal job result. Exactly one result may exist
// per job; a second save is an error, never an overwrite.
func (s *Store) SaveResult(ctx context.Context, result *execution.JobResult) error {
	if result == nil || result.JobID == "" {
		return fmt.Errorf("save result: job id required")
	}
	data, err := result.Marshal()
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	created := result.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO job_results (job_id, outcome, engine, validation_stage, result_json, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		result.JobID,
		string(result.Outcome),
		string(result.Engine),
		result.ValidationStage,
		string(data),
		created.Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") || strings.Contains(err.Error(), "PRIMARY KEY") {
			return fmt.Errorf("save result: job %s already has a result", result.JobID)
		}
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// GetResult fetches the stored result for a job, or (nil, nil) when the job
// has not reached a terminal state.
func (s *Store) GetResult(ctx context.Context, jobID string) (*execution.JobResult, error) {
	var data string
	err := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT result_json FROM job_results WHERE job_id = ?`,
		jobID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return execution.UnmarshalJobResult([]byte(data))
}
