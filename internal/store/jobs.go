package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shuttle/internal/jobspec"
	"shuttle/internal/lifecycle"
)

// Job is one admitted JobSpec in the FIFO ledger. Position is the rowid
// assigned at admission and defines queue order; it is never rewritten.
type Job struct {
	Position           int64
	ID                 string
	Title              string
	SpecJSON           []byte
	ExecutionRequested bool
	CreatedAt          time.Time
}

// Spec reconstructs the admitted JobSpec from its stored snapshot.
func (j *Job) Spec() (*jobspec.JobSpec, error) {
	return jobspec.FromSnapshot(j.SpecJSON)
}

// Enqueue admits a JobSpec to the back of the queue. The spec snapshot taken
// here is what every later read sees; admission is the last moment the job
// description can be influenced.
func (s *Store) Enqueue(ctx context.Context, spec *jobspec.JobSpec) (*Job, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("enqueue: %w", err)
	}
	snapshot, err := spec.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("enqueue: %w", err)
	}

	timestamp := spec.CreatedAt
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO jobs (id, title, spec_json, execution_requested, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		spec.ID,
		spec.Title,
		string(snapshot),
		boolToInt(spec.ExecutionRequested),
		timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	return s.GetJob(ctx, spec.ID)
}

const jobColumns = `position, id, title, spec_json, execution_requested, created_at`

// GetJob fetches a job by identifier. A missing job returns (nil, nil).
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// ListJobs returns every admitted job in FIFO order.
func (s *Store) ListJobs(ctx context.Context) ([]*Job, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+jobColumns+` FROM jobs ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// NextPending returns the earliest admitted job that has not reached a
// terminal lifecycle state, or nil when the queue is drained. This is the
// only selection the dispatcher makes, so FIFO order is enforced here and
// nowhere else.
func (s *Store) NextPending(ctx context.Context) (*Job, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+jobColumns+` FROM jobs j
         WHERE NOT EXISTS (
             SELECT 1 FROM job_events e
             WHERE e.job_id = j.id AND e.event_type IN (?, ?, ?)
         )
         ORDER BY j.position ASC
         LIMIT 1`,
		string(lifecycle.EventJobCompleted),
		string(lifecycle.EventJobFailed),
		string(lifecycle.EventJobCancelled),
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next pending: %w", err)
	}
	return job, nil
}

// HealthSummary counts jobs per derived lifecycle bucket.
type HealthSummary struct {
	Total     int
	Pending   int
	Running   int
	Completed int
	Failed    int
	Cancelled int
}

// Health aggregates queue counts. Pending means no events at all; Running
// means events exist but none terminal.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT
             (SELECT e.event_type FROM job_events e
              WHERE e.job_id = j.id AND e.event_type IN (?, ?, ?)
              ORDER BY e.seq ASC LIMIT 1),
             EXISTS (SELECT 1 FROM job_events e WHERE e.job_id = j.id)
         FROM jobs j`,
		string(lifecycle.EventJobCompleted),
		string(lifecycle.EventJobFailed),
		string(lifecycle.EventJobCancelled),
	)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("queue health: %w", err)
	}
	defer rows.Close()

	var summary HealthSummary
	for rows.Next() {
		var terminal sql.NullString
		var hasEvents bool
		if err := rows.Scan(&terminal, &hasEvents); err != nil {
			return HealthSummary{}, fmt.Errorf("scan queue health: %w", err)
		}
		summary.Total++
		switch {
		case terminal.Valid && terminal.String == string(lifecycle.EventJobCompleted):
			summary.Completed++
		case terminal.Valid && terminal.String == string(lifecycle.EventJobFailed):
			summary.Failed++
		case terminal.Valid && terminal.String == string(lifecycle.EventJobCancelled):
			summary.Cancelled++
		case hasEvents:
			summary.Running++
		default:
			summary.Pending++
		}
	}
	return summary, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*Job, error) {
	var job Job
	var spec string
	var requested int
	var created string
	if err := row.Scan(&job.Position, &job.ID, &job.Title, &spec, &requested, &created); err != nil {
		return nil, err
	}
	job.SpecJSON = []byte(spec)
	job.ExecutionRequested = requested != 0
	if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
		job.CreatedAt = ts
	}
	return &job, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
