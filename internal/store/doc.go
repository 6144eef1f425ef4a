// Package store persists shuttle's queue in SQLite: the job admission
// ledger, the append-only execution event log, and the insert-only result
// records.
//
// The jobs table is the FIFO admission order (rowid position, never
// rewritten). job_events is the event sink: rows are only ever appended and
// read back in insertion order per job. job_results holds exactly one row
// per terminal job and rejects overwrites. Lifecycle state is never stored;
// readers derive it from the event log.
//
// Treat this package as the single source of truth for queue persistence;
// schema changes bump schemaVersion and users clear the database to adopt
// the new schema.
package store
