package handler

import (
	"strings"
	"time"

	"sotadiploma/internal/summit"
	dErrors "sotadiploma/pkg/domain-errors"
)

// UpdateSummitRequest is the body of PUT /api/admin/summits/{code}.
type UpdateSummitRequest struct {
	Name      string `json:"summitName"`
	ValidFrom string `json:"validFrom"`
	ValidTo   string `json:"validTo"`

	validFrom time.Time
	validTo   time.Time
}

func (r *UpdateSummitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "summitName is required")
	}
	if len(r.Name) > 200 {
		return dErrors.New(dErrors.CodeValidation, "summitName is too long")
	}

	var err error
	if r.validFrom, err = time.Parse(time.DateOnly, strings.TrimSpace(r.ValidFrom)); err != nil {
		return dErrors.New(dErrors.CodeValidation, "validFrom must be formatted as YYYY-MM-DD")
	}
	if r.validTo, err = time.Parse(time.DateOnly, strings.TrimSpace(r.ValidTo)); err != nil {
		return dErrors.New(dErrors.CodeValidation, "validTo must be formatted as YYYY-MM-DD")
	}
	if r.validTo.Before(r.validFrom) {
		return dErrors.New(dErrors.CodeValidation, "validTo must not be before validFrom")
	}
	return nil
}

func (r *UpdateSummitRequest) entry(code string) summit.ListEntry {
	return summit.ListEntry{
		Code:      code,
		Name:      r.Name,
		ValidFrom: r.validFrom,
		ValidTo:   r.validTo,
	}
}
