package ratelimit

import (
	"context"
	"sync"
	"time"
)

// CounterStore is the shared atomic counter abstraction the limiter runs
// on. Incr must increment the counter for key as a single operation, set
// the expiry to window when the counter is created, and report the
// post-increment count together with the time left until the window
// resets.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

type memoryWindow struct {
	count     int64
	expiresAt time.Time
}

// MemoryCounterStore is a process-local CounterStore. It is suitable for
// tests and single-instance deployments; multi-instance deployments need
// the Redis store so all instances share one set of counters.
type MemoryCounterStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
}

// NewMemoryCounterStore creates an in-process counter store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.After(w.expiresAt) {
		w = &memoryWindow{expiresAt: now.Add(window)}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.expiresAt.Sub(now), nil
}

// Evict drops windows that expired before now. Called from the maintenance
// scheduler; the store also self-heals on access, so eviction is purely a
// memory bound.
func (s *MemoryCounterStore) Evict() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, w := range s.windows {
		if now.After(w.expiresAt) {
			delete(s.windows, key)
		}
	}
}
