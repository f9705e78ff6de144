package sotaapi

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"sotadiploma/pkg/platform/sentinel"
)

// SummitActivations returns the activation history of a summit from the
// activations API. Results are cached per summit code; a summit the API does
// not know yields sentinel.ErrNotFound.
func (c *Client) SummitActivations(ctx context.Context, summitCode string) ([]SummitActivation, error) {
	if cached, ok := c.activations.Get(summitCode); ok {
		c.metrics.IncrementCacheHit("activations")
		return cached, nil
	}
	if c.activationsURL == "" {
		return nil, errors.New("sota activations url is not configured")
	}

	var out []SummitActivation
	rawURL := c.activationsURL + endpointActivations + escapeSummitCode(summitCode)
	if err := c.get(ctx, rawURL, endpointActivations, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []SummitActivation{}
	}
	c.activations.Set(summitCode, out)
	return out, nil
}

// IsNotFound reports whether err means the upstream does not know the
// requested resource.
func IsNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}

// escapeSummitCode escapes each segment of the code and keeps the
// association separator as a path separator.
func escapeSummitCode(code string) string {
	parts := strings.Split(code, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
