package dedup

import (
	"context"
	"sync"
	"time"
)

// Record is the durable outcome of one pipeline run for a path.
type Record struct {
	Path        string
	Status      string
	Size        int64
	ProcessedAt time.Time
}

// Stats aggregates processed-file counts for the stats surface.
type Stats struct {
	Total    int
	ByStatus map[string]int
}

// Store tracks processed files and serializes concurrent work on the same path.
//
// The required discipline for callers: Claim before any expensive work, then
// either MarkProcessed (commit) or Release (abandon). A Claim that returns
// false means another worker already owns the path or a record already exists;
// the caller must stop silently.
type Store interface {
	// IsProcessed reports whether a durable record exists for path.
	IsProcessed(ctx context.Context, path string) (bool, error)
	// Claim atomically takes the in-progress marker for path. It returns false
	// when the path is already recorded or already claimed.
	Claim(ctx context.Context, path string) (bool, error)
	// Release abandons a claim without writing a record.
	Release(path string)
	// MarkProcessed upserts the record for path and releases its claim.
	MarkProcessed(ctx context.Context, path, status string, size int64) error
	// Record returns the stored record for path, or nil when absent.
	Record(ctx context.Context, path string) (*Record, error)
	// Stats returns the total count and a count grouped by status string.
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// claimSet is the process-local in-progress marker shared by both Store
// implementations. The map is the only lock ever taken for a claim, so claims
// on different paths never block each other.
type claimSet struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func newClaimSet() *claimSet {
	return &claimSet{paths: make(map[string]struct{})}
}

func (c *claimSet) take(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.paths[path]; held {
		return false
	}
	c.paths[path] = struct{}{}
	return true
}

func (c *claimSet) release(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.paths, path)
}
