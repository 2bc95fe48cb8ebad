package testsupport

import (
	"context"
	"testing"

	"mediamon/internal/config"
	"mediamon/internal/dedup"
)

// MustOpenStore opens the sqlite dedup store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) dedup.Store {
	t.Helper()

	store, err := dedup.Open(cfg)
	if err != nil {
		t.Fatalf("dedup.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MarkProcessed records a processed file for tests using the provided store.
func MarkProcessed(t testing.TB, store dedup.Store, path, status string, size int64) {
	t.Helper()

	if err := store.MarkProcessed(context.Background(), path, status, size); err != nil {
		t.Fatalf("store.MarkProcessed: %v", err)
	}
}
