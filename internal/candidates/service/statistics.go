package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sotadiploma/internal/sotaapi"
	"sotadiploma/internal/summit"
	dErrors "sotadiploma/pkg/domain-errors"
)

// DailyStatistics sums the QSOs reported per summit on day. Summits without
// QSOs on that day are left out. A summit whose activations cannot be fetched
// counts as not activated.
func (s *Service) DailyStatistics(ctx context.Context, day time.Time) (map[string]int, error) {
	if s.activations == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "summit activation statistics are not configured")
	}
	ctx, span := tracer.Start(ctx, "candidates.DailyStatistics")
	defer span.End()

	entries, err := s.summits.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load summit list")
	}

	day = summit.Date(day)
	var (
		mu  sync.Mutex
		out = make(map[string]int)
		g   errgroup.Group
	)
	g.SetLimit(s.statisticsConcurrency)
	for _, entry := range entries {
		g.Go(func() error {
			total := s.qsosOnDay(ctx, entry.Code, day)
			if total > 0 {
				mu.Lock()
				out[entry.Code] = total
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "daily statistics aborted")
	}
	return out, nil
}

func (s *Service) qsosOnDay(ctx context.Context, summitCode string, day time.Time) int {
	activations, err := s.activations.SummitActivations(ctx, summitCode)
	if err != nil {
		if !sotaapi.IsNotFound(err) {
			s.logger.ErrorContext(ctx, "failed to fetch summit activations", "summit", summitCode, "error", err)
		}
		return 0
	}
	total := 0
	for _, a := range activations {
		if a.Day().Equal(day) {
			total += a.TotalQSO
		}
	}
	return total
}
