package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"sotadiploma/internal/throttle/models"
	"sotadiploma/pkg/platform/httputil"
	"sotadiploma/pkg/platform/privacy"
	"sotadiploma/pkg/requestcontext"
)

const HeaderRetryAfterSeconds = "X-Rate-Limit-Retry-After-Seconds"

type Admitter interface {
	Admit(ctx context.Context, identity string) (*models.Decision, error)
}

type Middleware struct {
	admitter Admitter
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns admission control off.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(admitter Admitter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		admitter: admitter,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("request throttling disabled")
	}
	return m
}

// Throttle rejects requests over the per-minute budget with 429. When the
// counter store fails the request is let through.
func (m *Middleware) Throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)

		decision, err := m.admitter.Admit(ctx, ip)
		var exceeded *models.ExceededError
		if errors.As(err, &exceeded) {
			addHeaders(w, decision)
			w.Header().Set("Retry-After", strconv.Itoa(exceeded.RetryAfter))
			w.Header().Set(HeaderRetryAfterSeconds, strconv.Itoa(exceeded.RetryAfter))
			httputil.WriteError(w, exceeded)
			return
		}
		if err != nil {
			m.logger.ErrorContext(ctx, "failed to check request throttle", "error", err, "ip_prefix", privacy.AnonymizeIP(ip))
			next.ServeHTTP(w, r)
			return
		}

		addHeaders(w, decision)
		next.ServeHTTP(w, r)
	})
}

func addHeaders(w http.ResponseWriter, d *models.Decision) {
	if d == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
}
