// Package eligibility turns raw SOTA log records into diploma verdicts.
//
// Every Evaluate function is pure: it filters the records, counts them per
// region and picks the highest rank whose requirements are met.
package eligibility

import (
	"time"

	"sotadiploma/internal/callsign"
	"sotadiploma/internal/summit"
)

// OE20SOTACallSign is the special event station; OE20SOTAStart and
// OE20SOTAEnd bound the event, both inclusive.
const OE20SOTACallSign = "OE20SOTA"

var (
	OE20SOTAStart = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	OE20SOTAEnd   = time.Date(2024, time.October, 31, 0, 0, 0, 0, time.UTC)
)

// EvaluateActivator counts activations that scored points, lie in the time
// range and took place on a summit valid on that day.
func EvaluateActivator(records []ActivatorRecord, common Common) Verdict {
	counts := map[summit.Region]int64{}
	for _, rec := range records {
		if rec.Points <= 0 {
			continue
		}
		if !withinTimeRange(rec.Date, common) {
			continue
		}
		if !common.Summits.IsValidAt(rec.Summit, rec.Date, false) {
			continue
		}
		countRegion(counts, rec.Summit)
	}
	return BuildVerdict(common.CallSign, common.UserID, counts, CategoryActivator)
}

// EvaluateChaser is EvaluateActivator without the points filter.
func EvaluateChaser(records []ChaserRecord, common Common) Verdict {
	counts := map[summit.Region]int64{}
	for _, rec := range records {
		if !withinTimeRange(rec.Date, common) {
			continue
		}
		if !common.Summits.IsValidAt(rec.Summit, rec.Date, false) {
			continue
		}
		countRegion(counts, rec.Summit)
	}
	return BuildVerdict(common.CallSign, common.UserID, counts, CategoryChaser)
}

// EvaluateSummitToSummit counts the chased summit of contacts where both
// summits were valid on the day.
func EvaluateSummitToSummit(records []S2SRecord, common Common) Verdict {
	counts := map[summit.Region]int64{}
	for _, rec := range records {
		if !withinTimeRange(rec.Date, common) {
			continue
		}
		if !common.Summits.IsValidAt(rec.ActivatedSummit, rec.Date, false) ||
			!common.Summits.IsValidAt(rec.ChasedSummit, rec.Date, false) {
			continue
		}
		countRegion(counts, rec.ChasedSummit)
	}
	return BuildVerdict(common.CallSign, common.UserID, counts, CategoryS2S)
}

type oe20Entry struct {
	date time.Time
	code string
}

// EvaluateOE20SOTA counts chaser contacts with OE20SOTA during the event.
// Several contacts on the same summit and day count once.
func EvaluateOE20SOTA(records []ChaserRecord, common Common) Verdict {
	counts := map[summit.Region]int64{}
	seen := map[oe20Entry]struct{}{}
	for _, rec := range records {
		if rec.Summit == nil || !callsign.Match(rec.OtherCallSign, OE20SOTACallSign) {
			continue
		}
		day := summit.Date(rec.Date)
		if rec.Date.IsZero() || day.Before(OE20SOTAStart) || day.After(OE20SOTAEnd) {
			continue
		}
		if _, ok := rec.Summit.Region(); !ok {
			continue
		}
		key := oe20Entry{date: day, code: rec.Summit.Code}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		countRegion(counts, rec.Summit)
	}
	return BuildVerdict(common.CallSign, common.UserID, counts, CategoryOE20SOTA)
}

// BuildVerdict picks the first rank, in GOLD to NONE order, whose region and
// activation requirements the counts meet. The counts are attached even when
// the rank is NONE.
func BuildVerdict(callSign, userID string, counts map[summit.Region]int64, category Category) Verdict {
	activations := make(map[summit.Region]int64, len(counts))
	var total int64
	for region, n := range counts {
		activations[region] = n
		total += n
	}
	distinct := len(activations)

	rank := RankNone
	for _, rule := range Ranks {
		if distinct >= rule.RequiredRegions && total >= int64(category.RequirementFor(rule.Rank)) {
			rank = rule.Rank
			break
		}
	}

	return Verdict{
		CallSign:    callSign,
		UserID:      userID,
		Category:    category,
		Rank:        rank,
		Activations: activations,
	}
}

func withinTimeRange(date time.Time, common Common) bool {
	if common.CheckOnlyAfter == nil {
		return true
	}
	return !summit.Date(date).Before(summit.Date(*common.CheckOnlyAfter))
}

func countRegion(counts map[summit.Region]int64, s *summit.Summit) {
	if s == nil {
		return
	}
	if region, ok := s.Region(); ok {
		counts[region]++
	}
}
