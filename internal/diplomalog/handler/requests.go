package handler

import dErrors "sotadiploma/pkg/domain-errors"

// UpdateEntryRequest is the body of PUT /api/admin/logs/{id}.
type UpdateEntryRequest struct {
	ReviewMailSent *bool `json:"reviewMailSent"`
}

func (r *UpdateEntryRequest) Validate() error {
	if r == nil || r.ReviewMailSent == nil {
		return dErrors.New(dErrors.CodeValidation, "reviewMailSent is required")
	}
	return nil
}
