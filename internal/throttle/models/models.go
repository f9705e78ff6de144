// Package models holds the value types of the request throttle.
package models

import (
	"fmt"
	"strconv"
	"time"

	dErrors "sotadiploma/pkg/domain-errors"
)

// GlobalIdentity is the shared bucket for callers without a resolvable address.
const GlobalIdentity = "global"

// WindowPolicy decides how a bucket's expiry is maintained.
type WindowPolicy string

const (
	// WindowFixed sets the expiry once, on the first admitted request.
	WindowFixed WindowPolicy = "fixed"
	// WindowSliding refreshes the expiry on every admitted request.
	WindowSliding WindowPolicy = "sliding"
)

// ParseWindowPolicy maps a configuration value to a policy. Unknown values
// fall back to WindowFixed.
func ParseWindowPolicy(v string) WindowPolicy {
	if WindowPolicy(v) == WindowSliding {
		return WindowSliding
	}
	return WindowFixed
}

// BucketKey names the counter of identity for the minute of now. The
// separator never occurs in an IPv4 or IPv6 address.
func BucketKey(identity string, now time.Time) string {
	return identity + "|" + strconv.Itoa(now.Minute())
}

// RetryAfterSeconds is the time left in the current wall-clock minute.
func RetryAfterSeconds(now time.Time) int {
	return 60 - now.Second()
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Count      int64     `json:"count"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"`
}

// ExceededError is returned when a client used up its budget for the minute.
type ExceededError struct {
	Identity   string
	RetryAfter int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %d seconds", e.RetryAfter)
}

func (e *ExceededError) Unwrap() error {
	return dErrors.New(dErrors.CodeRateLimited, "too many requests")
}
