// Package ports defines the interfaces of the diploma request log.
package ports

import (
	"context"

	"sotadiploma/internal/diplomalog/models"
)

// EntryStore persists diploma log entries.
type EntryStore interface {
	// CreateNew stores, in one atomic step, every entry whose dedup key is
	// still free and returns the stored ones. An entry whose key is taken,
	// by an earlier entry of the same call included, is skipped.
	CreateNew(ctx context.Context, entries []*models.Entry) ([]*models.Entry, error)

	// Exists reports whether any entry matches key.
	Exists(ctx context.Context, key models.DedupKey) (bool, error)

	Get(ctx context.Context, id string) (*models.Entry, error)

	// ListPending returns entries whose review mail has not been sent,
	// oldest first.
	ListPending(ctx context.Context) ([]*models.Entry, error)

	SetReviewMailSent(ctx context.Context, id string, sent bool) (*models.Entry, error)
}

// Publisher announces newly requested diplomas to downstream consumers.
type Publisher interface {
	PublishRequested(ctx context.Context, entry *models.Entry) error
}
