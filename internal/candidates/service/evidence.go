package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"sotadiploma/internal/eligibility"
	"sotadiploma/internal/logfetch"
)

type gatheredLogs struct {
	activator []eligibility.ActivatorRecord
	chaser    []eligibility.ChaserRecord
	s2s       []eligibility.S2SRecord
}

// gatherLogs fetches the three log categories concurrently. Within a category
// the years are fetched in order and the first failure aborts the check.
func (s *Service) gatherLogs(ctx context.Context, userID string, reference time.Time) (*gatheredLogs, error) {
	g, ctx := errgroup.WithContext(ctx)
	logs := &gatheredLogs{}

	g.Go(func() error {
		records, err := fetchCategory(ctx, s, "activator", reference, func(ctx context.Context, year string) ([]eligibility.ActivatorRecord, error) {
			return s.logs.ActivatorLogs(ctx, userID, year)
		})
		logs.activator = records
		return err
	})

	g.Go(func() error {
		records, err := fetchCategory(ctx, s, "chaser", reference, func(ctx context.Context, year string) ([]eligibility.ChaserRecord, error) {
			return s.logs.ChaserLogs(ctx, userID, year)
		})
		logs.chaser = records
		return err
	})

	g.Go(func() error {
		records, err := fetchCategory(ctx, s, "s2s", reference, func(ctx context.Context, year string) ([]eligibility.S2SRecord, error) {
			return s.logs.SummitToSummitLogs(ctx, userID, year)
		})
		logs.s2s = records
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return logs, nil
}

func fetchCategory[T any](ctx context.Context, s *Service, category string, reference time.Time, fetch logfetch.FetchFunc[T]) ([]T, error) {
	start := time.Now()
	records, err := logfetch.FetchAllYears(ctx, s.checkAfter, reference, fetch).Unwrap()
	s.metrics.ObserveLogFetch(category, time.Since(start))
	if err != nil {
		s.logger.WarnContext(ctx, "log fetch failed", "category", category, "error", err)
	}
	return records, err
}
