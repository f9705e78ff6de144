// Package service records diploma requests and answers whether a verdict was
// already requested.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"sotadiploma/internal/callsign"
	"sotadiploma/internal/diplomalog/models"
	"sotadiploma/internal/diplomalog/ports"
	"sotadiploma/internal/eligibility"
	"sotadiploma/internal/summit"
	dErrors "sotadiploma/pkg/domain-errors"
	"sotadiploma/pkg/platform/sentinel"
	"sotadiploma/pkg/requestcontext"
)

type (
	EntryStore = ports.EntryStore
	Publisher  = ports.Publisher
)

type Service struct {
	store     EntryStore
	publisher Publisher
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func New(store EntryStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("diploma log store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func dedupKey(requesterCallSign string, v eligibility.Verdict) models.DedupKey {
	return models.KeyOf(callsign.Canonical(requesterCallSign), v.Category, v.Rank)
}

// AlreadyRequested reports whether the requester already asked for v.
func (s *Service) AlreadyRequested(ctx context.Context, requesterCallSign string, v eligibility.Verdict) (bool, error) {
	exists, err := s.store.Exists(ctx, dedupKey(requesterCallSign, v))
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "check diploma log")
	}
	return exists, nil
}

// FilterRequested drops the verdicts the requester already asked for.
func (s *Service) FilterRequested(ctx context.Context, requesterCallSign string, verdicts []eligibility.Verdict) ([]eligibility.Verdict, error) {
	out := make([]eligibility.Verdict, 0, len(verdicts))
	for _, v := range verdicts {
		requested, err := s.AlreadyRequested(ctx, requesterCallSign, v)
		if err != nil {
			return nil, err
		}
		if !requested {
			out = append(out, v)
		}
	}
	return out, nil
}

// Create stores one entry per eligible verdict not requested before and
// returns the created entries. Ineligible verdicts are dropped. The check and
// the inserts of one call are a single atomic step; publishing happens after
// the commit and never fails the request.
func (s *Service) Create(ctx context.Context, requester models.Requester, verdicts []eligibility.Verdict, language string) ([]*models.Entry, error) {
	if err := requester.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	canonical := callsign.Canonical(requester.CallSign)
	lang := models.NormalizeLanguage(language)

	var entries []*models.Entry
	seen := make(map[string]bool)
	for _, v := range verdicts {
		if !v.Eligible() {
			s.logger.InfoContext(ctx, "skipping ineligible verdict",
				"call_sign", canonical,
				"category", v.Category,
				"rank", v.Rank,
				"total", v.Total(),
			)
			continue
		}
		key := dedupKey(requester.CallSign, v).String()
		if seen[key] {
			continue
		}
		seen[key] = true

		entries = append(entries, &models.Entry{
			ID:          uuid.NewString(),
			CallSign:    canonical,
			Mail:        requester.Mail,
			Name:        requester.Name,
			Category:    v.Category,
			Rank:        v.Rank,
			Activations: copyActivations(v.Activations),
			CreatedOn:   summit.Date(now),
			Language:    lang,
		})
	}
	if len(entries) == 0 {
		return nil, nil
	}

	created, err := s.store.CreateNew(ctx, entries)
	if errors.Is(err, sentinel.ErrConflict) {
		// a concurrent request committed one of our keys first; the
		// second pass sees it and skips it
		created, err = s.store.CreateNew(ctx, entries)
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return nil, dErrors.New(dErrors.CodeConflict, "diploma already requested")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store diploma request")
	}

	stored := make(map[string]bool, len(created))
	for _, e := range created {
		stored[e.ID] = true
	}
	for _, e := range entries {
		if !stored[e.ID] {
			s.logger.InfoContext(ctx, "diploma already requested",
				"call_sign", e.CallSign,
				"category", e.Category,
				"rank", e.Rank,
			)
		}
	}
	for _, e := range created {
		s.logger.InfoContext(ctx, "diploma requested",
			"request_id", requestcontext.RequestID(ctx),
			"entry_id", e.ID,
			"call_sign", e.CallSign,
			"category", e.Category,
			"rank", e.Rank,
		)
		s.publish(ctx, e)
	}
	if len(created) == 0 {
		return nil, nil
	}
	return created, nil
}

func (s *Service) publish(ctx context.Context, e *models.Entry) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRequested(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish diploma request", "entry_id", e.ID, "error", err)
	}
}

// ListPending returns the entries still waiting for their review mail.
func (s *Service) ListPending(ctx context.Context) ([]*models.Entry, error) {
	entries, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list pending diploma requests")
	}
	return entries, nil
}

// SetReviewMailSent updates the review mail flag of an entry.
func (s *Service) SetReviewMailSent(ctx context.Context, id string, sent bool) (*models.Entry, error) {
	entry, err := s.store.SetReviewMailSent(ctx, id, sent)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("diploma log entry %s not found", id))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update diploma log entry")
	}
	return entry, nil
}

// MarkReviewMailSent sets the review mail flag; unknown ids are ignored.
func (s *Service) MarkReviewMailSent(ctx context.Context, id string) error {
	_, err := s.SetReviewMailSent(ctx, id, true)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil
	}
	return err
}

func copyActivations(in map[summit.Region]int64) map[summit.Region]int64 {
	out := make(map[summit.Region]int64, len(in))
	for r, n := range in {
		out[r] = n
	}
	return out
}
