package eligibility

import (
	"fmt"
	"strings"
	"time"

	"sotadiploma/internal/summit"
	dErrors "sotadiploma/pkg/domain-errors"
)

// Category is the kind of diploma.
type Category string

const (
	CategoryActivator Category = "ACTIVATOR"
	CategoryChaser    Category = "CHASER"
	CategoryS2S       Category = "S2S"
	CategoryOE20SOTA  Category = "OE20SOTA"
)

// Rank is the diploma level.
type Rank string

const (
	RankGold   Rank = "GOLD"
	RankSilver Rank = "SILVER"
	RankBronze Rank = "BRONZE"
	RankNone   Rank = "NONE"
)

// Thresholds are the activation counts a category requires per rank.
type Thresholds struct {
	Gold   int
	Silver int
	Bronze int
}

// CategoryRule binds a category to its thresholds.
type CategoryRule struct {
	Category   Category
	Thresholds Thresholds
}

// RankRule binds a rank to the number of distinct regions it requires.
type RankRule struct {
	Rank            Rank
	RequiredRegions int
}

// Categories is the category table.
var Categories = []CategoryRule{
	{CategoryActivator, Thresholds{Gold: 40, Silver: 20, Bronze: 10}},
	{CategoryChaser, Thresholds{Gold: 40, Silver: 20, Bronze: 10}},
	{CategoryS2S, Thresholds{Gold: 40, Silver: 20, Bronze: 10}},
	// chasers working OE20SOTA/P between 2024-05-01 and 2024-10-31
	{CategoryOE20SOTA, Thresholds{Gold: 20, Silver: 20, Bronze: 20}},
}

// Ranks is the rank table in elimination order.
var Ranks = []RankRule{
	{RankGold, 6},
	{RankSilver, 4},
	{RankBronze, 2},
	{RankNone, 0},
}

func thresholdsFor(c Category) (Thresholds, bool) {
	for _, rule := range Categories {
		if rule.Category == c {
			return rule.Thresholds, true
		}
	}
	return Thresholds{}, false
}

// IsSpecial reports whether all three thresholds of c are equal.
func (c Category) IsSpecial() bool {
	t, ok := thresholdsFor(c)
	return ok && t.Gold == t.Silver && t.Silver == t.Bronze
}

// RequirementFor is the activation count c requires for r. Special
// categories require the same count for every rank, NONE included.
func (c Category) RequirementFor(r Rank) int {
	t, ok := thresholdsFor(c)
	if !ok {
		return 0
	}
	if c.IsSpecial() {
		return t.Gold
	}
	switch r {
	case RankGold:
		return t.Gold
	case RankSilver:
		return t.Silver
	case RankBronze:
		return t.Bronze
	default:
		return 0
	}
}

// ParseCategory validates a category name (case-insensitive).
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := thresholdsFor(c); !ok {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown diploma category %q", s))
	}
	return c, nil
}

// ParseRank validates a rank name (case-insensitive).
func ParseRank(s string) (Rank, error) {
	r := Rank(strings.ToUpper(strings.TrimSpace(s)))
	for _, rule := range Ranks {
		if rule.Rank == r {
			return r, nil
		}
	}
	return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown diploma rank %q", s))
}

// Verdict is the outcome of one eligibility check. It is never mutated after
// construction; the JSON field names are part of the signed form.
type Verdict struct {
	CallSign    string                  `json:"callSign"`
	UserID      string                  `json:"userID"`
	Category    Category                `json:"category"`
	Rank        Rank                    `json:"rank"`
	Activations map[summit.Region]int64 `json:"activations"`
}

// Total is the sum of activations over all regions.
func (v Verdict) Total() int64 {
	var total int64
	for _, n := range v.Activations {
		total += n
	}
	return total
}

// Eligible reports whether the verdict qualifies for a diploma at all.
// Special categories qualify on the activation count alone.
func (v Verdict) Eligible() bool {
	if v.Category.IsSpecial() {
		return v.Total() >= int64(v.Category.RequirementFor(RankNone))
	}
	return v.Rank != RankNone && v.Rank != ""
}

// Common carries the arguments shared by every category evaluation.
type Common struct {
	CallSign       string
	UserID         string
	Summits        *summit.ValidityIndex
	CheckOnlyAfter *time.Time
}

// ActivatorRecord is one activation by the user.
type ActivatorRecord struct {
	Summit *summit.Summit
	Date   time.Time
	QSOs   int
	Points int
}

// ChaserRecord is one contact the user made with an activator.
type ChaserRecord struct {
	ID            int64
	Summit        *summit.Summit
	Date          time.Time
	OtherCallSign string
}

// S2SRecord is one summit-to-summit contact. Only the chased summit counts.
type S2SRecord struct {
	Date            time.Time
	OwnCallSign     string
	OtherCallSign   string
	ActivatedSummit *summit.Summit
	ChasedSummit    *summit.Summit
}
