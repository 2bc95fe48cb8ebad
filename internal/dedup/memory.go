package dedup

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a concurrency-safe in-process Store used in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	claims  *claimSet
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		claims:  newClaimSet(),
	}
}

func (m *MemoryStore) IsProcessed(_ context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[path]
	return ok, nil
}

func (m *MemoryStore) Claim(ctx context.Context, path string) (bool, error) {
	if !m.claims.take(path) {
		return false, nil
	}
	processed, err := m.IsProcessed(ctx, path)
	if err != nil || processed {
		m.claims.release(path)
		return false, err
	}
	return true, nil
}

func (m *MemoryStore) Release(path string) {
	m.claims.release(path)
}

func (m *MemoryStore) MarkProcessed(_ context.Context, path, status string, size int64) error {
	m.mu.Lock()
	m.records[path] = Record{
		Path:        path,
		Status:      status,
		Size:        size,
		ProcessedAt: time.Now().UTC(),
	}
	m.mu.Unlock()
	m.claims.release(path)
	return nil
}

func (m *MemoryStore) Record(_ context.Context, path string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[path]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (m *MemoryStore) Stats(_ context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := Stats{ByStatus: make(map[string]int)}
	for _, rec := range m.records {
		stats.ByStatus[rec.Status]++
		stats.Total++
	}
	return stats, nil
}

func (m *MemoryStore) Close() error { return nil }
