// Package sotaapi is the client of the SOTA database API: participant rolls,
// per-user activator, chaser and summit-to-summit logs, and per-summit
// activation history.
package sotaapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maypok86/otter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"

	"sotadiploma/internal/platform/config"
	"sotadiploma/pkg/platform/circuit"
	"sotadiploma/pkg/platform/sentinel"
)

const (
	endpointActivatorRoll = "/admin/activator_roll"
	endpointChaserRoll    = "/admin/chaser_roll"
	endpointActivatorLog  = "/admin/activator_log_by_id"
	endpointChaserLog     = "/admin/chaser_log_by_id"
	endpointS2SLog        = "/admin/s2s_log_by_id"
	endpointActivations   = "/api/activations/"

	// maxConcurrentLogCalls bounds in-flight log requests per process.
	maxConcurrentLogCalls = 3
	activationsCacheSize  = 4096
)

var tracer = otel.Tracer("sotadiploma/internal/sotaapi")

type Client struct {
	baseURL        string
	activationsURL string
	http           *http.Client
	breaker        *circuit.Breaker
	bulkhead       *semaphore.Weighted
	rosters        otter.Cache[string, []RosterEntry]
	activations    otter.Cache[string, []SummitActivation]
	logger         *slog.Logger
	metrics        *Metrics
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithHTTPClient replaces the default client built from the configured timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithBreaker replaces the breaker guarding the log endpoints.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

func New(cfg config.SOTAConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("sota api base url is required")
	}

	ttl := cfg.RosterCacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	rosters, err := otter.MustBuilder[string, []RosterEntry](8).WithTTL(ttl).Build()
	if err != nil {
		return nil, fmt.Errorf("build roster cache: %w", err)
	}
	activations, err := otter.MustBuilder[string, []SummitActivation](activationsCacheSize).WithTTL(ttl).Build()
	if err != nil {
		return nil, fmt.Errorf("build activations cache: %w", err)
	}

	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		activationsURL: strings.TrimRight(cfg.ActivationsURL, "/"),
		http:           &http.Client{Timeout: cfg.Timeout},
		breaker: circuit.New("sota-logs",
			circuit.WithFailureThreshold(cfg.FailureThreshold),
			circuit.WithSuccessThreshold(cfg.SuccessThreshold),
			circuit.WithCooldown(cfg.BreakerCooldown),
		),
		bulkhead:    semaphore.NewWeighted(maxConcurrentLogCalls),
		rosters:     rosters,
		activations: activations,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClearCaches drops every cached roster and activation list.
func (c *Client) ClearCaches() {
	c.rosters.Clear()
	c.activations.Clear()
}

// Close releases the caches.
func (c *Client) Close() {
	c.rosters.Close()
	c.activations.Close()
}

// guardedGet runs a log request through the bulkhead and the breaker. An open
// breaker fails fast with sentinel.ErrUnavailable.
func (c *Client) guardedGet(ctx context.Context, endpoint string, query url.Values, out any) error {
	if !c.breaker.Allow() {
		return fmt.Errorf("%s: circuit %s open: %w", endpoint, c.breaker.Name(), sentinel.ErrUnavailable)
	}
	if err := c.bulkhead.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.bulkhead.Release(1)

	err := c.get(ctx, c.baseURL+endpoint, endpoint, query, out)
	if err != nil {
		if _, change := c.breaker.RecordFailure(); change.Opened {
			c.metrics.IncrementBreakerOpened()
			c.logger.WarnContext(ctx, "sota api circuit opened", "endpoint", endpoint, "error", err)
		}
		return err
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "sota api circuit closed", "endpoint", endpoint)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL, endpoint string, query url.Values, out any) (err error) {
	ctx, span := tracer.Start(ctx, "sotaapi "+endpoint)
	span.SetAttributes(attribute.String("sota.endpoint", endpoint))
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		c.metrics.ObserveCall(endpoint, outcome, time.Since(start))
		span.End()
	}()

	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, errors.Join(err, sentinel.ErrUnavailable))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", endpoint, errors.Join(&StatusError{StatusCode: resp.StatusCode, Endpoint: endpoint}, sentinel.ErrNotFound))
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s: %w", endpoint, errors.Join(&StatusError{StatusCode: resp.StatusCode, Endpoint: endpoint}, sentinel.ErrUnavailable))
	case resp.StatusCode != http.StatusOK:
		return &StatusError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}
