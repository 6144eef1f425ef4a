// Package policy turns a JobSpec plus capability facts into concrete engine
// parameters, one policy per clip.
//
// Derivation is pure and read-only: no probing, no filesystem, no
// environment. The rule tables are versioned constants; two calls with the
// same JobSpec and the same facts produce field-for-field identical
// policies. ExecutionClass is reporting metadata only and never feeds back
// into routing.
package policy
