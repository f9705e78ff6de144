package summit

import "time"

// ValidityIndex answers whether a summit was valid on a date, from a
// snapshot of the summit list. It is read-only after construction.
type ValidityIndex struct {
	byCode map[string]ListEntry
}

// NewValidityIndex builds an index from summit code to list entry. The map is
// copied.
func NewValidityIndex(byCode map[string]ListEntry) *ValidityIndex {
	idx := &ValidityIndex{byCode: make(map[string]ListEntry, len(byCode))}
	for code, entry := range byCode {
		idx.byCode[code] = entry
	}
	return idx
}

// IndexList indexes list entries by their code.
func IndexList(entries []ListEntry) *ValidityIndex {
	idx := &ValidityIndex{byCode: make(map[string]ListEntry, len(entries))}
	for _, entry := range entries {
		idx.byCode[entry.Code] = entry
	}
	return idx
}

// IsValidAt reports whether s was valid on date, both window ends inclusive.
// A nil summit, zero date or a summit missing from the index yields
// defaultIfUnknown.
func (idx *ValidityIndex) IsValidAt(s *Summit, date time.Time, defaultIfUnknown bool) bool {
	if idx == nil || s == nil || date.IsZero() {
		return defaultIfUnknown
	}
	entry, ok := idx.byCode[s.Code]
	if !ok {
		return defaultIfUnknown
	}
	day := Date(date)
	return !day.Before(Date(entry.ValidFrom)) && !day.After(Date(entry.ValidTo))
}

// Len is the number of indexed summits.
func (idx *ValidityIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byCode)
}
