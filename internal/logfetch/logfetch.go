// Package logfetch spreads a single-year log fetch over the calendar years a
// check has to cover and folds the results.
//
// The fold is sequential and stops at the first failure: a verdict computed
// from a partial history would understate eligibility.
package logfetch

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// AllYears asks the log service for the complete history.
const AllYears = "all"

// maxYearSpan is the widest span fetched year by year; wider spans fall back
// to AllYears.
const maxYearSpan = 10

// FetchFunc fetches the records of one year token.
type FetchFunc[T any] func(ctx context.Context, yearToken string) ([]T, error)

// Result is either the concatenated records or the failure that aborted the
// fold.
type Result[T any] struct {
	Records []T
	Err     error
}

// Ok is a successful fold result.
func Ok[T any](records []T) Result[T] {
	return Result[T]{Records: records}
}

// Fail is a fold result aborted by err.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Unwrap returns the records or the error.
func (r Result[T]) Unwrap() ([]T, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Records, nil
}

// YearTokens selects the year tokens covering checkAfter..reference.
func YearTokens(checkAfter *time.Time, reference time.Time) []string {
	if checkAfter == nil || checkAfter.After(reference) {
		return []string{AllYears}
	}

	span := yearsBetween(*checkAfter, reference)
	if span == 0 {
		return []string{strconv.Itoa(checkAfter.Year())}
	}
	if span > maxYearSpan {
		return []string{AllYears}
	}

	tokens := make([]string, 0, reference.Year()-checkAfter.Year()+1)
	for y := checkAfter.Year(); y <= reference.Year(); y++ {
		tokens = append(tokens, strconv.Itoa(y))
	}
	return tokens
}

// yearsBetween counts the whole years from start to end (start <= end).
func yearsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months > 0 && end.Day() < start.Day() {
		months--
	}
	return months / 12
}

// Aggregate calls fetch once per token, in order, and concatenates the
// records. The first failure discards everything fetched so far and no later
// token is attempted.
func Aggregate[T any](ctx context.Context, tokens []string, fetch FetchFunc[T]) Result[T] {
	var all []T
	for _, token := range tokens {
		if err := ctx.Err(); err != nil {
			return Fail[T](err)
		}
		records, err := fetch(ctx, token)
		if err != nil {
			return Fail[T](fmt.Errorf("fetch year %s: %w", token, err))
		}
		all = append(all, records...)
	}
	if all == nil {
		all = []T{}
	}
	return Ok(all)
}

// FetchAllYears is Aggregate over YearTokens(checkAfter, reference).
func FetchAllYears[T any](ctx context.Context, checkAfter *time.Time, reference time.Time, fetch FetchFunc[T]) Result[T] {
	return Aggregate(ctx, YearTokens(checkAfter, reference), fetch)
}
