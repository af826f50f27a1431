package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is a mutex-guarded in-process Store. Valid for a single instance
// only; distinct client keys grow the map without eviction beyond window
// pruning.
type Memory struct {
	mu   sync.Mutex
	seen map[string][]time.Time
	now  func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{seen: make(map[string][]time.Time), now: time.Now}
}

// NewMemoryWithClock returns a store using the given clock, for tests.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{seen: make(map[string][]time.Time), now: now}
}

func (m *Memory) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-window)
	kept := m.seen[key][:0]
	for _, ts := range m.seen[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= limit {
		m.seen[key] = kept
		return false, nil
	}
	m.seen[key] = append(kept, now)
	return true, nil
}
