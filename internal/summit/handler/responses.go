package handler

import (
	"time"

	"sotadiploma/internal/summit"
)

type SummitResponse struct {
	Code      string `json:"summitCode"`
	Name      string `json:"summitName"`
	Region    string `json:"region,omitempty"`
	ValidFrom string `json:"validFrom"`
	ValidTo   string `json:"validTo"`
}

func toResponse(e summit.ListEntry) *SummitResponse {
	resp := &SummitResponse{
		Code:      e.Code,
		Name:      e.Name,
		ValidFrom: e.ValidFrom.Format(time.DateOnly),
		ValidTo:   e.ValidTo.Format(time.DateOnly),
	}
	if region, ok := summit.RegionFor(e.Code); ok {
		resp.Region = string(region)
	}
	return resp
}
