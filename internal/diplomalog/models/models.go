// Package models holds the diploma request log types.
package models

import (
	"strings"
	"time"

	"sotadiploma/internal/eligibility"
	"sotadiploma/internal/summit"
	dErrors "sotadiploma/pkg/domain-errors"
)

const (
	LanguageGerman  = "de"
	LanguageEnglish = "en"
)

// NormalizeLanguage returns "en" for any casing of "en" and "de" otherwise.
func NormalizeLanguage(lang string) string {
	if strings.EqualFold(strings.TrimSpace(lang), LanguageEnglish) {
		return LanguageEnglish
	}
	return LanguageGerman
}

// Requester identifies who asked for a diploma.
type Requester struct {
	CallSign string `json:"callSign"`
	Mail     string `json:"mail"`
	Name     string `json:"name"`
}

// Validate checks the fields needed to deliver a diploma.
func (r Requester) Validate() error {
	if strings.TrimSpace(r.CallSign) == "" {
		return dErrors.New(dErrors.CodeValidation, "requester call sign is required")
	}
	if strings.TrimSpace(r.Mail) == "" || !strings.Contains(r.Mail, "@") {
		return dErrors.New(dErrors.CodeValidation, "requester mail is invalid")
	}
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "requester name is required")
	}
	if len(r.Mail) > 100 || len(r.Name) > 150 {
		return dErrors.New(dErrors.CodeValidation, "requester mail or name too long")
	}
	return nil
}

// Entry is one requested diploma. CallSign holds the canonical call sign.
type Entry struct {
	ID             string                  `json:"id"`
	CallSign       string                  `json:"callSign"`
	Mail           string                  `json:"mail"`
	Name           string                  `json:"name"`
	Category       eligibility.Category    `json:"category"`
	Rank           eligibility.Rank        `json:"rank"`
	Activations    map[summit.Region]int64 `json:"activations"`
	CreatedOn      time.Time               `json:"createdOn"`
	ReviewMailSent bool                    `json:"reviewMailSent"`
	Language       string                  `json:"language"`
}

// Requester rebuilds the requester from the stored entry.
func (e *Entry) Requester() Requester {
	return Requester{CallSign: e.CallSign, Mail: e.Mail, Name: e.Name}
}

// Verdict rebuilds the awarded verdict. The user id is not stored.
func (e *Entry) Verdict() eligibility.Verdict {
	acts := make(map[summit.Region]int64, len(e.Activations))
	for r, n := range e.Activations {
		if n > 0 {
			acts[r] = n
		}
	}
	return eligibility.Verdict{
		CallSign:    e.CallSign,
		Category:    e.Category,
		Rank:        e.Rank,
		Activations: acts,
	}
}

// DedupKey selects stored entries that make a new request redundant. A nil
// Rank matches any rank of the category.
type DedupKey struct {
	CallSign string
	Category eligibility.Category
	Rank     *eligibility.Rank
}

// KeyOf builds the dedup key for a canonical call sign. Special diplomas are
// awarded once, so their key matches any rank.
func KeyOf(canonicalCallSign string, category eligibility.Category, rank eligibility.Rank) DedupKey {
	key := DedupKey{CallSign: canonicalCallSign, Category: category}
	if !category.IsSpecial() {
		key.Rank = &rank
	}
	return key
}

// DedupKey is the key a stored entry occupies.
func (e *Entry) DedupKey() DedupKey {
	return KeyOf(e.CallSign, e.Category, e.Rank)
}

// Matches reports whether e makes a request under k redundant.
func (k DedupKey) Matches(e *Entry) bool {
	if e.CallSign != k.CallSign || e.Category != k.Category {
		return false
	}
	return k.Rank == nil || e.Rank == *k.Rank
}

func (k DedupKey) String() string {
	rank := "*"
	if k.Rank != nil {
		rank = string(*k.Rank)
	}
	return k.CallSign + "|" + string(k.Category) + "|" + rank
}
