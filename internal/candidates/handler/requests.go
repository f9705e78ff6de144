package handler

import (
	"strings"

	"sotadiploma/internal/candidates/service"
	diplomalog "sotadiploma/internal/diplomalog/models"
	"sotadiploma/internal/integrity"
	dErrors "sotadiploma/pkg/domain-errors"
)

const (
	maxCallSignLength = 32
	maxCandidates     = 16
)

// DiplomaRequest is the body of POST /api/diploma/request.
type DiplomaRequest struct {
	Requester  RequesterBody             `json:"requester"`
	Candidates []integrity.SignedVerdict `json:"candidates"`
	Language   string                    `json:"language"`
}

type RequesterBody struct {
	CallSign string `json:"callSign"`
	Mail     string `json:"mail"`
	Name     string `json:"name"`
}

// Validate implements httputil.Validatable. Requester fields are checked by
// the diploma log; only shape and size are checked here.
func (r *DiplomaRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Candidates) > maxCandidates {
		return dErrors.New(dErrors.CodeValidation, "too many candidates")
	}
	if len(r.Requester.CallSign) > maxCallSignLength {
		return dErrors.New(dErrors.CodeValidation, "requester call sign is too long")
	}
	r.Requester.CallSign = strings.TrimSpace(r.Requester.CallSign)
	r.Requester.Mail = strings.TrimSpace(r.Requester.Mail)
	r.Requester.Name = strings.TrimSpace(r.Requester.Name)
	r.Language = strings.TrimSpace(r.Language)
	return nil
}

func (r *DiplomaRequest) toService() service.DiplomaRequest {
	return service.DiplomaRequest{
		Requester: diplomalog.Requester{
			CallSign: r.Requester.CallSign,
			Mail:     r.Requester.Mail,
			Name:     r.Requester.Name,
		},
		Candidates: r.Candidates,
		Language:   r.Language,
	}
}
