// Package summit classifies SOTA summits into regions and answers whether a
// summit was valid on a given date.
package summit

import (
	"regexp"
	"strings"
	"time"
)

// Summit identifies a SOTA summit. Its region is derived from Code.
type Summit struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Region classifies the summit code.
func (s Summit) Region() (Region, bool) {
	return RegionFor(s.Code)
}

var combinedPattern = regexp.MustCompile(`^(\S+)\s*\((.*)\)$`)

// ParseCombined splits "OE/OO-073 (Schoberstein)" into code and name.
func ParseCombined(s string) (Summit, bool) {
	m := combinedPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Summit{}, false
	}
	return Summit{Code: m[1], Name: m[2]}, true
}

// FromParts builds a summit from separately delivered code and name. Both
// must be non-blank.
func FromParts(code, name string) (Summit, bool) {
	code, name = strings.TrimSpace(code), strings.TrimSpace(name)
	if code == "" || name == "" {
		return Summit{}, false
	}
	return Summit{Code: code, Name: name}, true
}

// ListEntry is a row of the association summit list.
type ListEntry struct {
	Code      string    `json:"summitCode"`
	Name      string    `json:"summitName"`
	ValidFrom time.Time `json:"validFrom"`
	ValidTo   time.Time `json:"validTo"`
}

// Date truncates t to its calendar date in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
