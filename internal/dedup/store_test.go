package dedup_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"mediamon/internal/dedup"
)

func openStores(t *testing.T) map[string]dedup.Store {
	t.Helper()
	sqlite, err := dedup.OpenPath(filepath.Join(t.TempDir(), "processed.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]dedup.Store{
		"sqlite": sqlite,
		"memory": dedup.NewMemoryStore(),
	}
}

func TestMarkProcessedMakesIsProcessedTrue(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := "/watch/show/episode.mkv"

			processed, err := store.IsProcessed(ctx, path)
			if err != nil {
				t.Fatalf("IsProcessed failed: %v", err)
			}
			if processed {
				t.Fatal("fresh path should not be processed")
			}

			if err := store.MarkProcessed(ctx, path, "OK", 1024); err != nil {
				t.Fatalf("MarkProcessed failed: %v", err)
			}

			processed, err = store.IsProcessed(ctx, path)
			if err != nil {
				t.Fatalf("IsProcessed failed: %v", err)
			}
			if !processed {
				t.Fatal("expected path to be processed after MarkProcessed")
			}

			rec, err := store.Record(ctx, path)
			if err != nil {
				t.Fatalf("Record failed: %v", err)
			}
			if rec == nil || rec.Status != "OK" || rec.Size != 1024 {
				t.Fatalf("unexpected record: %+v", rec)
			}
			if rec.ProcessedAt.IsZero() {
				t.Fatal("expected processed_at to be set")
			}
		})
	}
}

func TestMarkProcessedOverwrites(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := "/watch/movie.mkv"

			if err := store.MarkProcessed(ctx, path, "OK", 100); err != nil {
				t.Fatalf("first MarkProcessed failed: %v", err)
			}
			if err := store.MarkProcessed(ctx, path, "RE-ENCODE", 200); err != nil {
				t.Fatalf("second MarkProcessed failed: %v", err)
			}

			rec, err := store.Record(ctx, path)
			if err != nil {
				t.Fatalf("Record failed: %v", err)
			}
			if rec.Status != "RE-ENCODE" || rec.Size != 200 {
				t.Fatalf("expected overwrite semantics, got %+v", rec)
			}

			stats, err := store.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats failed: %v", err)
			}
			if stats.Total != 1 {
				t.Fatalf("expected exactly one record, got %d", stats.Total)
			}
		})
	}
}

func TestClaimBlocksSecondWorker(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := "/watch/racing.mkv"

			claimed, err := store.Claim(ctx, path)
			if err != nil {
				t.Fatalf("Claim failed: %v", err)
			}
			if !claimed {
				t.Fatal("first claim should succeed")
			}

			again, err := store.Claim(ctx, path)
			if err != nil {
				t.Fatalf("second Claim failed: %v", err)
			}
			if again {
				t.Fatal("second claim should be rejected while first is held")
			}

			store.Release(path)
			claimed, err = store.Claim(ctx, path)
			if err != nil {
				t.Fatalf("Claim after release failed: %v", err)
			}
			if !claimed {
				t.Fatal("claim should succeed after release")
			}
		})
	}
}

func TestClaimRejectsProcessedPath(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := "/watch/done.mkv"

			if err := store.MarkProcessed(ctx, path, "OK", 1); err != nil {
				t.Fatalf("MarkProcessed failed: %v", err)
			}
			claimed, err := store.Claim(ctx, path)
			if err != nil {
				t.Fatalf("Claim failed: %v", err)
			}
			if claimed {
				t.Fatal("claim should be rejected for an already-processed path")
			}
		})
	}
}

func TestConcurrentClaimsSinglePathOneWinner(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := "/watch/contended.mkv"

			const workers = 16
			var winners atomic.Int32
			var wg sync.WaitGroup
			start := make(chan struct{})

			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					claimed, err := store.Claim(ctx, path)
					if err != nil {
						t.Errorf("Claim failed: %v", err)
						return
					}
					if claimed {
						winners.Add(1)
						if err := store.MarkProcessed(ctx, path, "OK", 42); err != nil {
							t.Errorf("MarkProcessed failed: %v", err)
						}
					}
				}()
			}
			close(start)
			wg.Wait()

			if winners.Load() != 1 {
				t.Fatalf("expected exactly one claim winner, got %d", winners.Load())
			}
		})
	}
}

func TestConcurrentClaimsDifferentPathsAllWin(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			const workers = 8
			var winners atomic.Int32
			var wg sync.WaitGroup

			for i := 0; i < workers; i++ {
				path := fmt.Sprintf("/watch/file-%d.mkv", i)
				wg.Add(1)
				go func() {
					defer wg.Done()
					claimed, err := store.Claim(ctx, path)
					if err != nil {
						t.Errorf("Claim failed: %v", err)
						return
					}
					if claimed {
						winners.Add(1)
					}
				}()
			}
			wg.Wait()

			if winners.Load() != workers {
				t.Fatalf("expected %d independent claims, got %d", workers, winners.Load())
			}
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "processed.db")

	store, err := dedup.OpenPath(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.MarkProcessed(ctx, "/watch/persisted.mkv", "REMUX", 9000); err != nil {
		t.Fatalf("MarkProcessed failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := dedup.OpenPath(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	processed, err := reopened.IsProcessed(ctx, "/watch/persisted.mkv")
	if err != nil {
		t.Fatalf("IsProcessed failed: %v", err)
	}
	if !processed {
		t.Fatal("expected record to survive reopen")
	}
}

func TestStatsGroupsByStatus(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seed := map[string]string{
				"/watch/a.mkv": "OK",
				"/watch/b.mkv": "OK",
				"/watch/c.mkv": "REMUX",
				"/watch/d.mkv": "RE-ENCODE | REMUX",
			}
			for path, status := range seed {
				if err := store.MarkProcessed(ctx, path, status, 1); err != nil {
					t.Fatalf("MarkProcessed failed: %v", err)
				}
			}

			stats, err := store.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats failed: %v", err)
			}
			if stats.Total != 4 {
				t.Fatalf("expected total 4, got %d", stats.Total)
			}
			if stats.ByStatus["OK"] != 2 {
				t.Fatalf("expected 2 OK records, got %d", stats.ByStatus["OK"])
			}
			if stats.ByStatus["RE-ENCODE | REMUX"] != 1 {
				t.Fatalf("expected joined status key, got %v", stats.ByStatus)
			}
		})
	}
}
