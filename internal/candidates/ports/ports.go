// Package ports defines what the candidate check needs from other modules.
package ports

import (
	"context"

	diplomalog "sotadiploma/internal/diplomalog/models"
	"sotadiploma/internal/eligibility"
	"sotadiploma/internal/sotaapi"
	"sotadiploma/internal/summit"
)

// LogSource resolves participants and returns their logs for one year token.
type LogSource interface {
	LookupUserID(ctx context.Context, callSign string) (string, error)
	ActivatorLogs(ctx context.Context, userID, year string) ([]eligibility.ActivatorRecord, error)
	ChaserLogs(ctx context.Context, userID, year string) ([]eligibility.ChaserRecord, error)
	SummitToSummitLogs(ctx context.Context, userID, year string) ([]eligibility.S2SRecord, error)
}

// ActivationSource returns all reported activations of a summit.
type ActivationSource interface {
	SummitActivations(ctx context.Context, summitCode string) ([]sotaapi.SummitActivation, error)
}

// SummitCatalog is the association summit list.
type SummitCatalog interface {
	List(ctx context.Context) ([]summit.ListEntry, error)
	Snapshot(ctx context.Context) (*summit.ValidityIndex, error)
}

// DiplomaLog records requests and answers dedup questions.
type DiplomaLog interface {
	FilterRequested(ctx context.Context, requesterCallSign string, verdicts []eligibility.Verdict) ([]eligibility.Verdict, error)
	Create(ctx context.Context, requester diplomalog.Requester, verdicts []eligibility.Verdict, language string) ([]*diplomalog.Entry, error)
}
