// Package counter provides CounterStore implementations for the throttle.
package counter

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

type entry struct {
	count     int64
	expiresAt time.Time
}

// InMemoryStore keeps counters in a concurrent map. It serves single-instance
// deployments and tests; expired entries are dropped lazily and by Sweep.
type InMemoryStore struct {
	counters *xsync.Map[string, entry]
	now      func() time.Time
}

type MemoryOption func(*InMemoryStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

func NewInMemory(opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		counters: xsync.NewMap[string, entry](),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Get(_ context.Context, key string) (int64, error) {
	e, ok := s.counters.Load(key)
	if !ok || !e.expiresAt.After(s.now()) {
		return 0, nil
	}
	return e.count, nil
}

func (s *InMemoryStore) Increment(_ context.Context, key string, ttl time.Duration, refreshTTL bool) (int64, error) {
	now := s.now()
	updated, _ := s.counters.Compute(key, func(old entry, loaded bool) (entry, xsync.ComputeOp) {
		if !loaded || !old.expiresAt.After(now) {
			return entry{count: 1, expiresAt: now.Add(ttl)}, xsync.UpdateOp
		}
		old.count++
		if refreshTTL {
			old.expiresAt = now.Add(ttl)
		}
		return old, xsync.UpdateOp
	})
	return updated.count, nil
}

// Sweep removes expired counters and reports how many were removed.
func (s *InMemoryStore) Sweep() int {
	now := s.now()
	removed := 0
	s.counters.Range(func(key string, _ entry) bool {
		s.counters.Compute(key, func(current entry, loaded bool) (entry, xsync.ComputeOp) {
			if loaded && !current.expiresAt.After(now) {
				removed++
				return current, xsync.DeleteOp
			}
			return current, xsync.CancelOp
		})
		return true
	})
	return removed
}

// Len returns the number of stored counters, expired or not.
func (s *InMemoryStore) Len() int {
	return s.counters.Size()
}
