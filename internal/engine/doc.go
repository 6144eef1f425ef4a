// Package engine invokes the external transcode engines as opaque units of
// work, one process per clip.
//
// The adapter hands a resolved (source, policy, output path) triple to the
// Invoker for the clip's engine and gets back a raw signal: whether the
// process started, how it exited, and the stderr tail. Interpreting that
// signal is the failure classifier's job, not this package's.
package engine
