// Package scheduler runs named background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work. The context is cancelled on Stop.
type Job func(ctx context.Context) error

// Scheduler owns a cron instance and the lifetime context of its jobs.
type Scheduler struct {
	cron       *cron.Cron
	logger     *slog.Logger
	lifeCtx    context.Context
	lifeCancel context.CancelFunc
	entries    map[string]cron.EntryID
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func New(opts ...Option) *Scheduler {
	lifeCtx, lifeCancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:       cron.New(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		lifeCtx:    lifeCtx,
		lifeCancel: lifeCancel,
		entries:    make(map[string]cron.EntryID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers job under name with a standard five-field cron spec.
func (s *Scheduler) Add(name, spec string, job Job) error {
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %q already scheduled", name)
	}
	id, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("schedule %q with %q: %w", name, spec, err)
	}
	s.entries[name] = id
	return nil
}

// RunNow runs job once in the background, outside the schedule.
func (s *Scheduler) RunNow(name string, job Job) {
	go s.run(name, job)
}

func (s *Scheduler) run(name string, job Job) {
	start := time.Now()
	if err := job(s.lifeCtx); err != nil {
		s.logger.Error("scheduled job failed", "job", name, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debug("scheduled job completed", "job", name, "duration", time.Since(start))
}

// Next returns the next planned run of the named job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	id, ok := s.entries[name]
	if !ok {
		return time.Time{}, false
	}
	entry := s.cron.Entry(id)
	if entry.ID == 0 || entry.Schedule == nil {
		return time.Time{}, false
	}
	return entry.Schedule.Next(time.Now()), true
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule, cancels running jobs and waits for them until ctx
// expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.lifeCancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
