// Package ports defines the storage interface of the request throttle.
package ports

import (
	"context"
	"time"
)

// CounterStore keeps per-key request counters that expire on their own.
type CounterStore interface {
	// Get returns the current count for key, zero when absent or expired.
	Get(ctx context.Context, key string) (int64, error)

	// Increment adds one to the counter for key and returns the new count.
	// The expiry is set to ttl when the counter is created, and on every
	// call when refreshTTL is true. Increment and expiry form one atomic step.
	Increment(ctx context.Context, key string, ttl time.Duration, refreshTTL bool) (int64, error)
}
