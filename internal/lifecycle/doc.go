// Package lifecycle derives job state from the append-only execution event
// log.
//
// State is never stored; it is always the result of folding the ordered
// event sequence for one job, so replaying the same log reproduces the same
// state and the log remains the single source of truth for audits and crash
// recovery. Events that arrive after a terminal state are recorded as
// anomalies and change nothing.
package lifecycle
