package logfetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type LogFetchSuite struct {
	suite.Suite
	ctx context.Context
}

func TestLogFetchSuite(t *testing.T) {
	suite.Run(t, new(LogFetchSuite))
}

func (s *LogFetchSuite) SetupTest() {
	s.ctx = context.Background()
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (s *LogFetchSuite) TestYearTokens() {
	ref := *date(2023, 3, 11)

	s.Run("multi-year span", func() {
		s.Equal([]string{"2022", "2023"}, YearTokens(date(2022, 1, 1), ref))
	})

	s.Run("no lower bound", func() {
		s.Equal([]string{AllYears}, YearTokens(nil, ref))
	})

	s.Run("lower bound after reference", func() {
		s.Equal([]string{AllYears}, YearTokens(date(2024, 1, 1), ref))
	})

	s.Run("same year", func() {
		s.Equal([]string{"2023"}, YearTokens(date(2023, 1, 1), ref))
	})

	s.Run("less than a whole year keeps the start year", func() {
		s.Equal([]string{"2022"}, YearTokens(date(2022, 6, 1), ref))
	})

	s.Run("ten years are fetched year by year", func() {
		tokens := YearTokens(date(2013, 1, 1), ref)
		s.Len(tokens, 11)
		s.Equal("2013", tokens[0])
		s.Equal("2023", tokens[10])
	})

	s.Run("eleven years collapse to all", func() {
		s.Equal([]string{AllYears}, YearTokens(date(2012, 1, 1), ref))
	})
}

func (s *LogFetchSuite) TestAggregate() {
	s.Run("concatenates in token order", func() {
		var calls []string
		res := Aggregate(s.ctx, []string{"2022", "2023"}, func(_ context.Context, token string) ([]string, error) {
			calls = append(calls, token)
			return []string{token + "-a", token + "-b"}, nil
		})
		records, err := res.Unwrap()
		s.Require().NoError(err)
		s.Equal([]string{"2022-a", "2022-b", "2023-a", "2023-b"}, records)
		s.Equal([]string{"2022", "2023"}, calls)
	})

	s.Run("late failure discards earlier results", func() {
		boom := errors.New("boom")
		var calls []string
		res := Aggregate(s.ctx, []string{"2022", "2023"}, func(_ context.Context, token string) ([]int, error) {
			calls = append(calls, token)
			if token == "2023" {
				return nil, boom
			}
			return []int{1}, nil
		})
		records, err := res.Unwrap()
		s.ErrorIs(err, boom)
		s.Nil(records)
		s.Equal([]string{"2022", "2023"}, calls)
	})

	s.Run("early failure prevents later calls", func() {
		var calls []string
		res := Aggregate(s.ctx, []string{"2022", "2023"}, func(_ context.Context, token string) ([]int, error) {
			calls = append(calls, token)
			return nil, errors.New("unavailable")
		})
		s.Error(res.Err)
		s.Equal([]string{"2022"}, calls)
	})

	s.Run("cancelled context stops the fold", func() {
		ctx, cancel := context.WithCancel(s.ctx)
		cancel()
		called := false
		res := Aggregate(ctx, []string{"all"}, func(context.Context, string) ([]int, error) {
			called = true
			return nil, nil
		})
		s.ErrorIs(res.Err, context.Canceled)
		s.False(called)
	})

	s.Run("empty history is an empty success", func() {
		res := Aggregate(s.ctx, []string{"all"}, func(context.Context, string) ([]int, error) {
			return nil, nil
		})
		s.NoError(res.Err)
		s.NotNil(res.Records)
		s.Empty(res.Records)
	})
}

func (s *LogFetchSuite) TestFetchAllYears() {
	var calls []string
	res := FetchAllYears(s.ctx, nil, time.Now(), func(_ context.Context, token string) ([]int, error) {
		calls = append(calls, token)
		return []int{1, 2}, nil
	})
	s.NoError(res.Err)
	s.Equal([]string{AllYears}, calls)
	s.Equal([]int{1, 2}, res.Records)
}
