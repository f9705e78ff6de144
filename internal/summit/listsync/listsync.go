// Package listsync keeps the stored summit list in step with the published
// association list.
package listsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"

	"sotadiploma/internal/summit"
	"sotadiploma/internal/summit/store"
	"sotadiploma/pkg/platform/sentinel"
)

var tracer = otel.Tracer("sotadiploma/internal/summit/listsync")

// Store is the persistence the synchronizer writes to.
type Store interface {
	UpsertAll(ctx context.Context, entries []summit.ListEntry) error
	RecordUpdate(ctx context.Context, rec store.UpdateRecord) error
	LastUpdate(ctx context.Context) (*store.UpdateRecord, error)
}

// Result describes one synchronization run.
type Result struct {
	RunAt       time.Time `json:"runAt"`
	SummitCount int       `json:"summitCount"`
	Skipped     int       `json:"skipped"`
	NotModified bool      `json:"notModified"`
}

type Synchronizer struct {
	store   Store
	listURL string
	http    *http.Client
	logger  *slog.Logger
	now     func() time.Time
	group   singleflight.Group

	initialDone atomic.Bool
}

type Option func(*Synchronizer)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(s *Synchronizer) {
		s.http = h
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		s.now = now
	}
}

func New(st Store, listURL string, opts ...Option) (*Synchronizer, error) {
	if st == nil {
		return nil, errors.New("summit store is required")
	}
	if listURL == "" {
		return nil, errors.New("summit list url is required")
	}
	s := &Synchronizer{
		store:   st,
		listURL: listURL,
		http:    &http.Client{Timeout: 2 * time.Minute},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Synchronize fetches the list unless it is unchanged since the last
// successful run, and upserts every summit of a known region. Concurrent
// calls share one run.
func (s *Synchronizer) Synchronize(ctx context.Context) (*Result, error) {
	v, err, _ := s.group.Do("sync", func() (any, error) {
		return s.synchronize(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

// SynchronizeInitial is the startup run; InitialSynchronizationCompleted
// reports true after it returned.
func (s *Synchronizer) SynchronizeInitial(ctx context.Context) error {
	defer s.initialDone.Store(true)
	s.logger.InfoContext(ctx, "synchronizing summit list on startup")
	_, err := s.Synchronize(ctx)
	return err
}

func (s *Synchronizer) InitialSynchronizationCompleted() bool {
	return s.initialDone.Load()
}

func (s *Synchronizer) synchronize(ctx context.Context) (*Result, error) {
	ctx, span := tracer.Start(ctx, "summit list synchronize")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build summit list request: %w", err)
	}

	last, err := s.store.LastUpdate(ctx)
	switch {
	case err == nil:
		req.Header.Set("If-Modified-Since", last.RunAt.UTC().Format(http.TimeFormat))
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, fmt.Errorf("read last summit list update: %w", err)
	}
	s.logger.InfoContext(ctx, "checking for summit list update", "modified_since", req.Header.Get("If-Modified-Since"))

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch summit list: %w", err)
	}
	defer resp.Body.Close()

	runAt := s.now()
	switch resp.StatusCode {
	case http.StatusNotModified:
		s.logger.InfoContext(ctx, "summit list not modified since last check")
		res := &Result{RunAt: runAt, NotModified: true}
		if err := s.record(ctx, res); err != nil {
			return nil, err
		}
		return res, nil
	case http.StatusOK:
	default:
		return nil, fmt.Errorf("fetch summit list: unexpected status %d", resp.StatusCode)
	}

	entries, skipped, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "received summit list", "entries", len(entries), "skipped", skipped)

	if err := s.store.UpsertAll(ctx, entries); err != nil {
		return nil, fmt.Errorf("persist summit list: %w", err)
	}

	res := &Result{RunAt: runAt, SummitCount: len(entries), Skipped: skipped}
	if err := s.record(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Synchronizer) record(ctx context.Context, res *Result) error {
	err := s.store.RecordUpdate(ctx, store.UpdateRecord{
		ID:          uuid.NewString(),
		RunAt:       res.RunAt,
		SummitCount: res.SummitCount,
		NotModified: res.NotModified,
	})
	if err != nil {
		return fmt.Errorf("record summit list update: %w", err)
	}
	return nil
}
