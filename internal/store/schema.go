package store

import (
	"context"
	"fmt"
)

// schemaVersion tracks the SQLite schema. Bump on any table change; the
// database is transient storage for in-flight jobs, so users clear it to
// adopt a new schema rather than migrating.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS jobs (
    position            INTEGER PRIMARY KEY AUTOINCREMENT,
    id                  TEXT NOT NULL UNIQUE,
    title               TEXT NOT NULL DEFAULT '',
    spec_json           TEXT NOT NULL,
    execution_requested INTEGER NOT NULL DEFAULT 0,
    created_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS job_events (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    job_id     TEXT NOT NULL REFERENCES jobs(id),
    event_type TEXT NOT NULL,
    clip_index INTEGER NOT NULL DEFAULT -1,
    detail     TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_job_events_job ON job_events(job_id, seq);

CREATE TABLE IF NOT EXISTS job_results (
    job_id           TEXT PRIMARY KEY REFERENCES jobs(id),
    outcome          TEXT NOT NULL,
    engine           TEXT NOT NULL DEFAULT '',
    validation_stage TEXT NOT NULL DEFAULT '',
    result_json      TEXT NOT NULL,
    created_at       TEXT NOT NULL
);
`

func (s *Store) initSchema(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if current != 0 && current != schemaVersion {
		return fmt.Errorf("queue database schema version %d is incompatible with %d; clear %s to continue", current, schemaVersion, s.path)
	}

	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}
