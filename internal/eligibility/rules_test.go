package eligibility

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sotadiploma/internal/summit"
)

type RulesSuite struct {
	suite.Suite
	common Common
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesSuite))
}

var regionPrefixes = []string{"WI", "SB", "NO", "BL", "OO", "ST", "TI", "KT", "VB"}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// code returns summit n of region index r (0 = OE1).
func code(r, n int) string {
	return fmt.Sprintf("OE/%s-%03d", regionPrefixes[r], n)
}

func ref(c string) *summit.Summit {
	return &summit.Summit{Code: c, Name: "Summit " + c}
}

func (s *RulesSuite) SetupTest() {
	var entries []summit.ListEntry
	for r := range regionPrefixes {
		for n := 1; n <= 20; n++ {
			entries = append(entries, summit.ListEntry{
				Code:      code(r, n),
				ValidFrom: day(2000, 1, 1),
				ValidTo:   day(2099, 12, 31),
			})
		}
	}
	// retired at the end of 2022
	entries = append(entries, summit.ListEntry{Code: "OE/OO-500", ValidFrom: day(2000, 1, 1), ValidTo: day(2022, 12, 31)})

	after := day(2023, 1, 1)
	s.common = Common{
		CallSign:       "OE5IDT",
		UserID:         "123",
		Summits:        summit.IndexList(entries),
		CheckOnlyAfter: &after,
	}
}

// activations spreads total activations over the first regions regions.
func activations(regions, total int) []ActivatorRecord {
	out := make([]ActivatorRecord, 0, total)
	for i := 0; i < total; i++ {
		out = append(out, ActivatorRecord{
			Summit: ref(code(i%regions, 1)),
			Date:   day(2023, 6, 1),
			Points: 4,
			QSOs:   10,
		})
	}
	return out
}

// =============================================================================
// Rank selection
// =============================================================================

func (s *RulesSuite) TestActivatorRanks() {
	tests := []struct {
		regions, total int
		want           Rank
	}{
		{6, 40, RankGold},
		{6, 39, RankSilver},
		{5, 60, RankSilver},
		{4, 20, RankSilver},
		{4, 19, RankBronze},
		{2, 10, RankBronze},
		{2, 9, RankNone},
		{1, 100, RankNone},
	}
	for _, tt := range tests {
		s.Run(fmt.Sprintf("%d regions %d activations", tt.regions, tt.total), func() {
			v := EvaluateActivator(activations(tt.regions, tt.total), s.common)
			s.Equal(tt.want, v.Rank)
			s.Equal(CategoryActivator, v.Category)
			s.Len(v.Activations, tt.regions)
			s.EqualValues(tt.total, v.Total())
		})
	}
}

func (s *RulesSuite) TestActivatorFilters() {
	records := []ActivatorRecord{
		{Summit: ref(code(0, 1)), Date: day(2023, 1, 1), Points: 1},  // counted: on the boundary
		{Summit: ref(code(0, 2)), Date: day(2022, 12, 31), Points: 1}, // too early
		{Summit: ref(code(1, 1)), Date: day(2023, 2, 1), Points: 0},   // no points
		{Summit: ref("OE/OO-500"), Date: day(2023, 2, 1), Points: 1},  // retired summit
		{Summit: ref("OE/OO-999"), Date: day(2023, 2, 1), Points: 1},  // not in summit list
		{Summit: ref("I/LO-243"), Date: day(2023, 2, 1), Points: 1},   // foreign summit
		{Summit: nil, Date: day(2023, 2, 1), Points: 1},                // unparsable summit
		{Summit: ref(code(4, 3)), Date: time.Time{}, Points: 1},        // no date
	}
	v := EvaluateActivator(records, s.common)
	s.Equal(map[summit.Region]int64{summit.OE1: 1}, v.Activations)
	s.Equal(RankNone, v.Rank)
	s.Equal("OE5IDT", v.CallSign)
	s.Equal("123", v.UserID)
}

func (s *RulesSuite) TestChaserIgnoresPoints() {
	records := []ChaserRecord{
		{Summit: ref(code(0, 1)), Date: day(2023, 3, 1), OtherCallSign: "OE1ABC"},
		{Summit: ref(code(1, 1)), Date: day(2023, 3, 1), OtherCallSign: "OE2ABC"},
		{Summit: ref(code(1, 2)), Date: day(2021, 3, 1), OtherCallSign: "OE2ABC"},
	}
	v := EvaluateChaser(records, s.common)
	s.Equal(CategoryChaser, v.Category)
	s.Equal(map[summit.Region]int64{summit.OE1: 1, summit.OE2: 1}, v.Activations)
}

func (s *RulesSuite) TestNoTimeRestriction() {
	common := s.common
	common.CheckOnlyAfter = nil
	v := EvaluateChaser([]ChaserRecord{{Summit: ref(code(0, 1)), Date: day(2010, 3, 1)}}, common)
	s.EqualValues(1, v.Total())
}

func (s *RulesSuite) TestSummitToSummitCountsChasedSummit() {
	records := []S2SRecord{
		{Date: day(2023, 5, 1), ActivatedSummit: ref(code(0, 1)), ChasedSummit: ref(code(5, 1))},
		{Date: day(2023, 5, 1), ActivatedSummit: ref("OE/OO-999"), ChasedSummit: ref(code(5, 2))},  // activated unknown
		{Date: day(2023, 5, 1), ActivatedSummit: ref(code(0, 1)), ChasedSummit: ref("HB/BE-001")},  // chased foreign
		{Date: day(2023, 5, 1), ActivatedSummit: ref(code(0, 1)), ChasedSummit: ref("OE/OO-500")},  // chased retired
	}
	v := EvaluateSummitToSummit(records, s.common)
	s.Equal(CategoryS2S, v.Category)
	s.Equal(map[summit.Region]int64{summit.OE6: 1}, v.Activations)
}

func (s *RulesSuite) TestRejectedVerdictKeepsCounts() {
	v := EvaluateActivator(activations(1, 3), s.common)
	s.Equal(RankNone, v.Rank)
	s.Equal(map[summit.Region]int64{summit.OE1: 3}, v.Activations)
}

func (s *RulesSuite) TestEmptyInput() {
	v := EvaluateChaser(nil, s.common)
	s.Equal(RankNone, v.Rank)
	s.NotNil(v.Activations)
	s.Empty(v.Activations)
}

func (s *RulesSuite) TestPure() {
	records := activations(6, 40)
	first := EvaluateActivator(records, s.common)
	second := EvaluateActivator(records, s.common)
	s.Equal(first, second)
}

// =============================================================================
// OE20SOTA
// =============================================================================

func (s *RulesSuite) TestOE20SOTA() {
	var records []ChaserRecord
	for i := 0; i < 20; i++ {
		records = append(records, ChaserRecord{
			Summit:        ref(code(i%3, i+1)),
			Date:          day(2024, 5, 1).AddDate(0, 0, i),
			OtherCallSign: "OE20SOTA/P",
		})
	}
	// same summit and day: counted once
	records = append(records, ChaserRecord{Summit: ref(code(0, 1)), Date: day(2024, 5, 1), OtherCallSign: "oe20sota/p"})
	// outside the event
	records = append(records, ChaserRecord{Summit: ref(code(0, 1)), Date: day(2024, 11, 1), OtherCallSign: "OE20SOTA/P"})
	records = append(records, ChaserRecord{Summit: ref(code(0, 1)), Date: day(2024, 4, 30), OtherCallSign: "OE20SOTA/P"})
	// another station
	records = append(records, ChaserRecord{Summit: ref(code(0, 1)), Date: day(2024, 6, 1), OtherCallSign: "OE5IDT/P"})
	// foreign summit
	records = append(records, ChaserRecord{Summit: ref("DM/BW-001"), Date: day(2024, 6, 1), OtherCallSign: "OE20SOTA/P"})

	v := EvaluateOE20SOTA(records, s.common)
	s.Equal(CategoryOE20SOTA, v.Category)
	s.EqualValues(20, v.Total())
	s.Len(v.Activations, 3)
	s.Equal(RankBronze, v.Rank, "3 regions, 20 contacts")
	s.True(v.Eligible())
}

func (s *RulesSuite) TestOE20SOTABelowThreshold() {
	records := []ChaserRecord{
		{Summit: ref(code(0, 1)), Date: day(2024, 10, 31), OtherCallSign: "OE20SOTA"},
	}
	v := EvaluateOE20SOTA(records, s.common)
	s.Equal(RankNone, v.Rank)
	s.EqualValues(1, v.Total())
	s.False(v.Eligible())
}

// =============================================================================
// Tables
// =============================================================================

func (s *RulesSuite) TestCategoryTables() {
	s.True(CategoryOE20SOTA.IsSpecial())
	for _, rule := range Ranks {
		s.Equal(20, CategoryOE20SOTA.RequirementFor(rule.Rank))
	}

	for _, c := range []Category{CategoryActivator, CategoryChaser, CategoryS2S} {
		s.False(c.IsSpecial())
		s.Equal(40, c.RequirementFor(RankGold))
		s.Equal(20, c.RequirementFor(RankSilver))
		s.Equal(10, c.RequirementFor(RankBronze))
		s.Equal(0, c.RequirementFor(RankNone))
	}

	s.Equal([]Rank{RankGold, RankSilver, RankBronze, RankNone},
		[]Rank{Ranks[0].Rank, Ranks[1].Rank, Ranks[2].Rank, Ranks[3].Rank})
}

func (s *RulesSuite) TestParse() {
	c, err := ParseCategory("chaser")
	s.Require().NoError(err)
	s.Equal(CategoryChaser, c)
	_, err = ParseCategory("SWL")
	s.Error(err)

	r, err := ParseRank(" gold ")
	s.Require().NoError(err)
	s.Equal(RankGold, r)
	_, err = ParseRank("PLATINUM")
	s.Error(err)
}

func (s *RulesSuite) TestBuildVerdictCopiesCounts() {
	counts := map[summit.Region]int64{summit.OE1: 5, summit.OE2: 5}
	v := BuildVerdict("OE5IDT", "1", counts, CategoryChaser)
	counts[summit.OE3] = 1
	s.Len(v.Activations, 2)
	s.Equal(RankBronze, v.Rank)
}
