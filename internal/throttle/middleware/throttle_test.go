package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sotadiploma/internal/platform/logger"
	"sotadiploma/internal/throttle/models"
	throttleservice "sotadiploma/internal/throttle/service"
	"sotadiploma/internal/throttle/store/counter"
	"sotadiploma/pkg/platform/middleware/metadata"
	"sotadiploma/pkg/requestcontext"
)

type stubAdmitter struct {
	decision *models.Decision
	err      error
	identity string
}

func (s *stubAdmitter) Admit(_ context.Context, identity string) (*models.Decision, error) {
	s.identity = identity
	return s.decision, s.err
}

func serve(m *Middleware) (*httptest.ResponseRecorder, *bool) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/api/diploma/candidates", nil)
	req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), "203.0.113.9", "test"))
	rec := httptest.NewRecorder()
	m.Throttle(next).ServeHTTP(rec, req)
	return rec, &called
}

func TestThrottleAdmits(t *testing.T) {
	admitter := &stubAdmitter{decision: &models.Decision{Allowed: true, Limit: 5, Remaining: 4, ResetAt: time.Unix(1700000040, 0)}}
	rec, called := serve(New(admitter, logger.Discard()))

	assert.True(t, *called)
	assert.Equal(t, "203.0.113.9", admitter.identity)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1700000040", rec.Header().Get("X-RateLimit-Reset"))
}

func TestThrottleRejects(t *testing.T) {
	admitter := &stubAdmitter{
		decision: &models.Decision{Allowed: false, Limit: 5, RetryAfter: 23},
		err:      &models.ExceededError{Identity: "203.0.113.9", RetryAfter: 23},
	}
	rec, called := serve(New(admitter, logger.Discard()))

	require.False(t, *called)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "23", rec.Header().Get("Retry-After"))
	assert.Equal(t, "23", rec.Header().Get(HeaderRetryAfterSeconds))
	assert.Contains(t, rec.Body.String(), "rate_limited")
}

func TestThrottleFailsOpenOnStoreError(t *testing.T) {
	admitter := &stubAdmitter{err: errors.New("redis down")}
	rec, called := serve(New(admitter, logger.Discard()))

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestThrottleDisabled(t *testing.T) {
	admitter := &stubAdmitter{err: &models.ExceededError{RetryAfter: 1}}
	_, called := serve(New(admitter, logger.Discard(), WithDisabled(true)))

	assert.True(t, *called)
	assert.Empty(t, admitter.identity)
}

func TestThrottleIgnoresRotatingForwardedFor(t *testing.T) {
	admitter, err := throttleservice.New(counter.NewInMemory(), throttleservice.WithLimit(5))
	require.NoError(t, err)

	now := time.Date(2024, 6, 15, 12, 0, 10, 0, time.UTC)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	withClock := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), now)))
		})
	}
	chain := metadata.ClientMetadata(withClock(New(admitter, logger.Discard()).Throttle(next)))

	codes := make([]int, 0, 6)
	for i := 1; i <= 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/diploma/candidates", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{200, 200, 200, 200, 200, http.StatusTooManyRequests}, codes)
}
