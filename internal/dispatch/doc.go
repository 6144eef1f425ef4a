// Package dispatch admits queued jobs to the execution adapter.
//
// The discipline is strict FIFO on a single execution slot: the earliest
// admitted non-terminal job runs to a terminal lifecycle state before the
// next one starts, and no job is skipped, duplicated, or reordered. Jobs
// share nothing but the slot itself; events and results stay private per
// job identifier.
package dispatch
