// Package execution dispatches one JobSpec's clips to their designated
// engines and aggregates the truthful job result.
//
// Every step is a hard gate: the execution flag, structural validation,
// engine determination, per-clip policy, dispatch, and output verification.
// A clip failure isolates to that clip; a job succeeds only when every clip
// produced a verified output. The adapter emits execution events for each
// step, never mutates the JobSpec, and never retries.
package execution
