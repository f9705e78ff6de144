package sotaapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sotadiploma/internal/eligibility"
	"sotadiploma/internal/summit"
)

// RosterEntry is one registered participant of the activator or chaser roll.
type RosterEntry struct {
	UserID   flexString `json:"UserID"`
	CallSign string     `json:"Callsign"`
}

// SummitActivation is one activation of a summit as reported by the
// activations API.
type SummitActivation struct {
	ActivationDate wireDate `json:"activationDate"`
	TotalQSO       int      `json:"totalQSO"`
}

// Day returns the activation date.
func (a SummitActivation) Day() time.Time {
	return a.ActivationDate.Time
}

type activatorLogWire struct {
	Summit         string   `json:"Summit"`
	QSOs           int      `json:"QSOs"`
	Points         int      `json:"Points"`
	ActivationDate wireDate `json:"ActivationDate"`
}

func (w activatorLogWire) record() eligibility.ActivatorRecord {
	rec := eligibility.ActivatorRecord{
		Date:   w.ActivationDate.Time,
		QSOs:   w.QSOs,
		Points: w.Points,
	}
	if s, ok := summit.ParseCombined(w.Summit); ok {
		rec.Summit = &s
	}
	return rec
}

type chaserLogWire struct {
	ChaserLogID    flexString `json:"ChaserLogID"`
	OtherCallsign  string     `json:"OtherCallsign"`
	ActivationDate wireDate   `json:"ActivationDate"`
	SummitCode     string     `json:"SummitCode"`
	SummitName     string     `json:"SummitName"`
}

func (w chaserLogWire) record() eligibility.ChaserRecord {
	rec := eligibility.ChaserRecord{
		Date:          w.ActivationDate.Time,
		OtherCallSign: w.OtherCallsign,
	}
	rec.ID, _ = strconv.ParseInt(string(w.ChaserLogID), 10, 64)
	if s, ok := summit.FromParts(w.SummitCode, w.SummitName); ok {
		rec.Summit = &s
	}
	return rec
}

type s2sLogWire struct {
	OwnCallsign     string   `json:"OwnCallsign"`
	OtherCallsign   string   `json:"OtherCallsign"`
	ActivationDate  wireDate `json:"ActivationDate"`
	Summit2Code     string   `json:"Summit2Code"`
	ActivatedSummit string   `json:"ActivatedSummit"`
	SummitCode      string   `json:"SummitCode"`
	ChasedSummit    string   `json:"ChasedSummit"`
}

func (w s2sLogWire) record() eligibility.S2SRecord {
	rec := eligibility.S2SRecord{
		Date:          w.ActivationDate.Time,
		OwnCallSign:   w.OwnCallsign,
		OtherCallSign: w.OtherCallsign,
	}
	if s, ok := summit.FromParts(w.Summit2Code, w.ActivatedSummit); ok {
		rec.ActivatedSummit = &s
	}
	if s, ok := summit.FromParts(w.SummitCode, w.ChasedSummit); ok {
		rec.ChasedSummit = &s
	}
	return rec
}

// wireDate accepts "2006-01-02" and "2006-01-02 15:04:05" style values and
// keeps the calendar date.
type wireDate struct {
	time.Time
}

func (d *wireDate) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("activation date: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("activation date: %w", err)
	}
	d.Time = t
	return nil
}

// flexString decodes identifiers the API sends either as numbers or strings.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// StatusError reports an unexpected HTTP status from the upstream.
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sota api: unexpected status %d from %s", e.StatusCode, e.Endpoint)
}
