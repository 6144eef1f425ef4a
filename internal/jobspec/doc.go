// Package jobspec defines the immutable job description shuttle executes.
//
// A JobSpec is constructed once, at the ingestion boundary, and never mutated
// afterward; every downstream component receives it by value or reads it
// through accessors that copy. Changing anything about a job means writing a
// new document and enqueueing a new JobSpec with a new identifier.
package jobspec
