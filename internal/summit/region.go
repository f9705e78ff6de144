package summit

import "regexp"

// Region is one of the nine Austrian federal states a summit can lie in.
type Region string

const (
	OE1 Region = "OE1"
	OE2 Region = "OE2"
	OE3 Region = "OE3"
	OE4 Region = "OE4"
	OE5 Region = "OE5"
	OE6 Region = "OE6"
	OE7 Region = "OE7"
	OE8 Region = "OE8"
	OE9 Region = "OE9"
)

// regionTable is consulted in order; the first matching pattern wins.
var regionTable = []struct {
	region  Region
	pattern *regexp.Regexp
}{
	{OE1, regexp.MustCompile(`(?i)^OE/WI-\d{3}$`)},
	{OE2, regexp.MustCompile(`(?i)^OE/SB-\d{3}$`)},
	{OE3, regexp.MustCompile(`(?i)^OE/NO-\d{3}$`)},
	{OE4, regexp.MustCompile(`(?i)^OE/BL-\d{3}$`)},
	{OE5, regexp.MustCompile(`(?i)^OE/OO-\d{3}$`)},
	{OE6, regexp.MustCompile(`(?i)^OE/ST-\d{3}$`)},
	{OE7, regexp.MustCompile(`(?i)^OE/T[IL]-\d{3}$`)},
	{OE8, regexp.MustCompile(`(?i)^OE/KT-\d{3}$`)},
	{OE9, regexp.MustCompile(`(?i)^OE/VB-\d{3}$`)},
}

// RegionFor classifies a summit code. ok is false for summits outside every
// region.
func RegionFor(code string) (Region, bool) {
	for _, entry := range regionTable {
		if entry.pattern.MatchString(code) {
			return entry.region, true
		}
	}
	return "", false
}

// RegionForOrdinal returns the n-th region, 1-based (1 is OE1).
func RegionForOrdinal(n int) (Region, bool) {
	if n < 1 || n > len(regionTable) {
		return "", false
	}
	return regionTable[n-1].region, true
}

// Regions lists all regions in their fixed order.
func Regions() []Region {
	out := make([]Region, len(regionTable))
	for i, entry := range regionTable {
		out[i] = entry.region
	}
	return out
}
