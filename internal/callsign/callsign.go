// Package callsign validates and matches amateur-radio call signs.
//
// A call sign has the shape [prefix/]core[/suffix], where core is one or two
// letters or digits, then digits, then letters (OE5IDT). Roster data carries
// prefixes and suffixes inconsistently, so Match accepts exact, prefix and
// core-identifier equality.
package callsign

import (
	"regexp"
	"strings"
)

// MaxLength is the longest call sign accepted.
const MaxLength = 20

var pattern = regexp.MustCompile(`(?i)^([A-Z0-9]+/)?([A-Z0-9]{1,2}\d+[A-Z]+)(/[A-Z0-9]+)?$`)

// IsValid reports whether s is a well-formed call sign.
func IsValid(s string) bool {
	if strings.TrimSpace(s) == "" || len(s) > MaxLength {
		return false
	}
	return pattern.MatchString(s)
}

// ExtractCore returns the core identifier of s (OE5IDT for DL/OE5IDT/am).
// ok is false when s is not a valid call sign.
func ExtractCore(s string) (core string, ok bool) {
	if !IsValid(s) {
		return "", false
	}
	m := pattern.FindStringSubmatch(s)
	return m[2], true
}

// Match reports whether a and b identify the same operator.
func Match(a, b string) bool {
	if !IsValid(a) || !IsValid(b) {
		return false
	}
	if strings.EqualFold(a, b) {
		return true
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if strings.HasPrefix(la, lb) || strings.HasPrefix(lb, la) {
		return true
	}
	coreA, _ := ExtractCore(a)
	coreB, _ := ExtractCore(b)
	return strings.EqualFold(coreA, coreB)
}

// Canonical is the persistence and dedup key of a call sign: lower case,
// cut at the first slash.
func Canonical(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if idx := strings.Index(lower, "/"); idx != -1 {
		return lower[:idx]
	}
	return lower
}
