package testsupport

import (
	"testing"

	"vodscribe/internal/config"
	"vodscribe/internal/runstore"
)

// MustOpenStore opens a runstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *runstore.Store {
	t.Helper()

	store, err := runstore.Open(cfg)
	if err != nil {
		t.Fatalf("open run store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
