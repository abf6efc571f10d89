package ratelimit

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	count    int64
	expireAt time.Time
}

// MemoryStore implements Store with an in-process map. Increments hold
// the lock, matching the atomicity the interface demands. For tests
// and single-node use.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter
}

// NewMemoryStore creates an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*counter)}
}

// Incr atomically increments the bucket counter. The window start is
// part of the key, so a new window is always a fresh bucket; buckets
// from older windows are garbage-collected against the caller's
// expireAt rather than any ambient clock.
func (m *MemoryStore) Incr(ctx context.Context, key string, expireAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, c := range m.counters {
		if c.expireAt.Before(expireAt) {
			delete(m.counters, k)
		}
	}

	c, ok := m.counters[key]
	if !ok {
		c = &counter{expireAt: expireAt}
		m.counters[key] = c
	}

	c.count++
	return c.count, nil
}

// Len returns the number of live buckets, for tests.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counters)
}
