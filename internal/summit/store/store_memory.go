package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sotadiploma/internal/summit"
	"sotadiploma/pkg/platform/sentinel"
)

// InMemoryStore keeps the summit list in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	summits map[string]summit.ListEntry
	updates []UpdateRecord
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		summits: make(map[string]summit.ListEntry),
	}
}

func (s *InMemoryStore) UpsertAll(_ context.Context, entries []summit.ListEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.summits[e.Code] = e
	}
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]summit.ListEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]summit.ListEntry, 0, len(s.summits))
	for _, e := range s.summits {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, code string) (*summit.ListEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.summits[code]
	if !ok {
		return nil, fmt.Errorf("summit %s: %w", code, sentinel.ErrNotFound)
	}
	return &e, nil
}

func (s *InMemoryStore) Update(_ context.Context, entry summit.ListEntry) (*summit.ListEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.summits[entry.Code]; !ok {
		return nil, fmt.Errorf("summit %s: %w", entry.Code, sentinel.ErrNotFound)
	}
	s.summits[entry.Code] = entry
	return &entry, nil
}

// Snapshot returns a validity index over the current list.
func (s *InMemoryStore) Snapshot(_ context.Context) (*summit.ValidityIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return summit.NewValidityIndex(s.summits), nil
}

func (s *InMemoryStore) RecordUpdate(_ context.Context, rec UpdateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, rec)
	return nil
}

// LastUpdate returns the latest run that fetched a list.
func (s *InMemoryStore) LastUpdate(_ context.Context) (*UpdateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last *UpdateRecord
	for i := range s.updates {
		u := s.updates[i]
		if u.NotModified {
			continue
		}
		if last == nil || u.RunAt.After(last.RunAt) {
			last = &u
		}
	}
	if last == nil {
		return nil, fmt.Errorf("summit list update: %w", sentinel.ErrNotFound)
	}
	return last, nil
}
