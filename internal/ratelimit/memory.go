package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often expired counters are purged.
const sweepInterval = time.Minute

type memoryEntry struct {
	count   int
	expires time.Time
}

// memoryStore counts in process memory under a single mutex, suitable for
// a single-instance deployment.
type memoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	lastSweep time.Time
	now       func() time.Time
}

// NewMemory returns an in-process Store.
func NewMemory() Store {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *memoryStore) Incr(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now)
		m.lastSweep = now
	}

	e, ok := m.entries[key]
	if ok && now.After(e.expires) {
		e = memoryEntry{}
		ok = false
	}
	if e.count >= limit {
		return false, nil
	}

	if !ok {
		e.expires = now.Add(window)
	}
	e.count++
	m.entries[key] = e
	return true, nil
}

// sweep drops counters whose window has passed. Caller holds the mutex.
func (m *memoryStore) sweep(now time.Time) {
	for k, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, k)
		}
	}
}
