package sotaapi

import (
	"context"
	"fmt"
	"net/url"

	"sotadiploma/internal/callsign"
	"sotadiploma/pkg/platform/sentinel"
)

// Activators returns the activator roll of all associations.
func (c *Client) Activators(ctx context.Context) ([]RosterEntry, error) {
	return c.roster(ctx, endpointActivatorRoll)
}

// Chasers returns the chaser roll of all associations.
func (c *Client) Chasers(ctx context.Context) ([]RosterEntry, error) {
	return c.roster(ctx, endpointChaserRoll)
}

func (c *Client) roster(ctx context.Context, endpoint string) ([]RosterEntry, error) {
	if entries, ok := c.rosters.Get(endpoint); ok {
		c.metrics.IncrementCacheHit("roster")
		return entries, nil
	}

	var entries []RosterEntry
	query := url.Values{"associationID": []string{"0"}}
	if err := c.get(ctx, c.baseURL+endpoint, endpoint, query, &entries); err != nil {
		return nil, err
	}
	c.rosters.Set(endpoint, entries)
	return entries, nil
}

// LookupUserID resolves the SOTA user id of callSign. The activator roll is
// searched before the chaser roll; the first matching entry wins. Invalid
// call signs and call signs on neither roll yield sentinel.ErrNotFound.
func (c *Client) LookupUserID(ctx context.Context, callSign string) (string, error) {
	if !callsign.IsValid(callSign) {
		return "", fmt.Errorf("call sign %q: %w", callSign, sentinel.ErrNotFound)
	}

	for _, fetch := range []func(context.Context) ([]RosterEntry, error){c.Activators, c.Chasers} {
		entries, err := fetch(ctx)
		if err != nil {
			return "", err
		}
		if id, ok := findUser(entries, callSign); ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("call sign %q: %w", callSign, sentinel.ErrNotFound)
}

func findUser(entries []RosterEntry, callSign string) (string, bool) {
	for _, e := range entries {
		if callsign.Match(e.CallSign, callSign) {
			return string(e.UserID), true
		}
	}
	return "", false
}
