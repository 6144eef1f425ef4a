// Package failure maps raw engine signals onto the closed clip failure
// taxonomy and folds per-clip outcomes into a job outcome.
//
// Classification is total: every signal maps to exactly one kind, and
// anything the rules do not recognize becomes KindUnclassified rather than
// being dropped or mistaken for success. The package touches no filesystem
// and no engines; the adapter gathers the facts, this package only names
// them.
package failure
