package sotaapi

import (
	"context"
	"net/url"

	"sotadiploma/internal/eligibility"
	"sotadiploma/internal/logfetch"
)

func logQuery(userID, year string) url.Values {
	if year == "" {
		year = logfetch.AllYears
	}
	return url.Values{"id": []string{userID}, "year": []string{year}}
}

// ActivatorLogs fetches the activations of userID in year ("all" for the
// complete history).
func (c *Client) ActivatorLogs(ctx context.Context, userID, year string) ([]eligibility.ActivatorRecord, error) {
	var wire []activatorLogWire
	if err := c.guardedGet(ctx, endpointActivatorLog, logQuery(userID, year), &wire); err != nil {
		return nil, err
	}
	out := make([]eligibility.ActivatorRecord, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.record())
	}
	return out, nil
}

// ChaserLogs fetches the chased activations of userID in year.
func (c *Client) ChaserLogs(ctx context.Context, userID, year string) ([]eligibility.ChaserRecord, error) {
	var wire []chaserLogWire
	if err := c.guardedGet(ctx, endpointChaserLog, logQuery(userID, year), &wire); err != nil {
		return nil, err
	}
	out := make([]eligibility.ChaserRecord, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.record())
	}
	return out, nil
}

// SummitToSummitLogs fetches the summit-to-summit contacts of userID in year.
func (c *Client) SummitToSummitLogs(ctx context.Context, userID, year string) ([]eligibility.S2SRecord, error) {
	var wire []s2sLogWire
	if err := c.guardedGet(ctx, endpointS2SLog, logQuery(userID, year), &wire); err != nil {
		return nil, err
	}
	out := make([]eligibility.S2SRecord, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.record())
	}
	return out, nil
}
