package testsupport

import (
	"context"
	"testing"

	"shuttle/internal/config"
	"shuttle/internal/jobspec"
	"shuttle/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// Enqueue admits a JobSpec for tests using the provided store.
func Enqueue(t testing.TB, st *store.Store, spec *jobspec.JobSpec) *store.Job {
	t.Helper()

	job, err := st.Enqueue(context.Background(), spec)
	if err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
	return job
}
