// Package store persists diploma log entries.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sotadiploma/internal/diplomalog/models"
	"sotadiploma/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*models.Entry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]*models.Entry)}
}

func (s *InMemoryStore) CreateNew(_ context.Context, entries []*models.Entry) ([]*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if _, exists := s.entries[e.ID]; exists {
			return nil, fmt.Errorf("diploma log entry %s: %w", e.ID, sentinel.ErrConflict)
		}
	}

	var stored []*models.Entry
	for _, e := range entries {
		if s.taken(e.DedupKey(), stored) {
			continue
		}
		stored = append(stored, e)
	}
	for _, e := range stored {
		clone := *e
		s.entries[e.ID] = &clone
	}
	return stored, nil
}

// taken reports whether key is occupied by a stored entry or one of pending.
// Callers hold s.mu.
func (s *InMemoryStore) taken(key models.DedupKey, pending []*models.Entry) bool {
	for _, e := range pending {
		if key.Matches(e) {
			return true
		}
	}
	for _, e := range s.entries {
		if key.Matches(e) {
			return true
		}
	}
	return false
}

func (s *InMemoryStore) Exists(_ context.Context, key models.DedupKey) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taken(key, nil), nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("diploma log entry %s: %w", id, sentinel.ErrNotFound)
	}
	clone := *e
	return &clone, nil
}

func (s *InMemoryStore) ListPending(_ context.Context) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Entry{}
	for _, e := range s.entries {
		if !e.ReviewMailSent {
			clone := *e
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedOn.Equal(out[j].CreatedOn) {
			return out[i].CreatedOn.Before(out[j].CreatedOn)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) SetReviewMailSent(_ context.Context, id string, sent bool) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("diploma log entry %s: %w", id, sentinel.ErrNotFound)
	}
	e.ReviewMailSent = sent
	clone := *e
	return &clone, nil
}
