// Package service implements per-minute admission control keyed by client
// identity.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"sotadiploma/internal/throttle/metrics"
	"sotadiploma/internal/throttle/models"
	"sotadiploma/internal/throttle/ports"
	"sotadiploma/pkg/platform/privacy"
	"sotadiploma/pkg/requestcontext"
)

// CounterStore is re-exported so callers need not import ports.
type CounterStore = ports.CounterStore

const (
	DefaultLimit = 5
	bucketTTL    = 60 * time.Second
)

type Service struct {
	store   CounterStore
	limit   int
	policy  models.WindowPolicy
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLimit sets the number of requests admitted per client and minute.
// Non-positive values are ignored.
func WithLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

func WithWindowPolicy(policy models.WindowPolicy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

func New(store CounterStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("counter store is required")
	}

	svc := &Service{
		store:  store,
		limit:  DefaultLimit,
		policy: models.WindowFixed,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Limit returns the configured per-minute budget.
func (s *Service) Limit() int {
	return s.limit
}

// ClientIdentity returns the throttle identity for a client address. Blank
// addresses share the global bucket.
func ClientIdentity(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return models.GlobalIdentity
	}
	return ip
}

// Admit charges one request to identity's bucket for the current minute.
// A rejected request returns the decision together with an
// *models.ExceededError. Store failures are returned unwrapped from the
// decision so that callers can choose to fail open.
func (s *Service) Admit(ctx context.Context, identity string) (*models.Decision, error) {
	identity = ClientIdentity(identity)
	if identity == models.GlobalIdentity {
		s.metrics.IncrementGlobalUsed()
	}

	now := requestcontext.Now(ctx)
	key := models.BucketKey(identity, now)
	retryAfter := models.RetryAfterSeconds(now)
	resetAt := now.Truncate(time.Minute).Add(time.Minute)

	current, err := s.store.Get(ctx, key)
	if err != nil {
		s.metrics.IncrementStoreErrors()
		return nil, fmt.Errorf("read throttle counter: %w", err)
	}
	if current >= int64(s.limit) {
		return s.reject(ctx, identity, current, resetAt, retryAfter)
	}

	count, err := s.store.Increment(ctx, key, bucketTTL, s.policy == models.WindowSliding)
	if err != nil {
		s.metrics.IncrementStoreErrors()
		return nil, fmt.Errorf("increment throttle counter: %w", err)
	}
	// A concurrent request may have taken the last slot between read and increment.
	if count > int64(s.limit) {
		return s.reject(ctx, identity, count, resetAt, retryAfter)
	}

	s.metrics.IncrementAdmitted()
	return &models.Decision{
		Allowed:   true,
		Limit:     s.limit,
		Count:     count,
		Remaining: s.limit - int(count),
		ResetAt:   resetAt,
	}, nil
}

func (s *Service) reject(ctx context.Context, identity string, count int64, resetAt time.Time, retryAfter int) (*models.Decision, error) {
	s.metrics.IncrementRejected()
	s.logger.WarnContext(ctx, "request throttled",
		"ip_prefix", anonymize(identity),
		"count", count,
		"limit", s.limit,
		"retry_after", retryAfter,
	)
	return &models.Decision{
			Allowed:    false,
			Limit:      s.limit,
			Count:      count,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfter,
		}, &models.ExceededError{
			Identity:   identity,
			RetryAfter: retryAfter,
		}
}

func anonymize(identity string) string {
	if identity == models.GlobalIdentity {
		return identity
	}
	return privacy.AnonymizeIP(identity)
}
