// Package service checks a call sign against the diploma rules and turns
// signed candidates into diploma requests.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"sotadiploma/internal/candidates/metrics"
	"sotadiploma/internal/candidates/ports"
	"sotadiploma/internal/callsign"
	diplomalog "sotadiploma/internal/diplomalog/models"
	"sotadiploma/internal/eligibility"
	"sotadiploma/internal/integrity"
	dErrors "sotadiploma/pkg/domain-errors"
	"sotadiploma/pkg/platform/sentinel"
	"sotadiploma/pkg/requestcontext"
)

var tracer = otel.Tracer("sotadiploma/internal/candidates")

const defaultStatisticsConcurrency = 8

type (
	LogSource        = ports.LogSource
	ActivationSource = ports.ActivationSource
	SummitCatalog    = ports.SummitCatalog
	DiplomaLog       = ports.DiplomaLog
)

// DiplomaRequest is a requester asking for the diplomas of previously signed
// candidates.
type DiplomaRequest struct {
	Requester  diplomalog.Requester
	Candidates []integrity.SignedVerdict
	Language   string
}

type Service struct {
	logs        LogSource
	activations ActivationSource
	summits     SummitCatalog
	diplomas    DiplomaLog
	signer      *integrity.Signer

	checkAfter            *time.Time
	statisticsConcurrency int

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCheckAfter restricts the check to activities on or after day.
func WithCheckAfter(day time.Time) Option {
	return func(s *Service) {
		if !day.IsZero() {
			s.checkAfter = &day
		}
	}
}

// WithActivationSource enables the daily summit statistics.
func WithActivationSource(src ActivationSource) Option {
	return func(s *Service) {
		s.activations = src
	}
}

func WithStatisticsConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.statisticsConcurrency = n
		}
	}
}

func New(logs LogSource, summits SummitCatalog, diplomas DiplomaLog, signer *integrity.Signer, opts ...Option) (*Service, error) {
	if logs == nil {
		return nil, errors.New("log source is required")
	}
	if summits == nil {
		return nil, errors.New("summit catalog is required")
	}
	if diplomas == nil {
		return nil, errors.New("diploma log is required")
	}
	if signer == nil {
		return nil, errors.New("signer is required")
	}
	s := &Service{
		logs:                  logs,
		summits:               summits,
		diplomas:              diplomas,
		signer:                signer,
		statisticsConcurrency: defaultStatisticsConcurrency,
		logger:                slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Check returns the signed verdicts of every category the call sign has not
// requested yet. Verdicts of rank NONE are included so the client can show
// the progress per region.
func (s *Service) Check(ctx context.Context, callSign string) (_ []integrity.SignedVerdict, err error) {
	ctx, span := tracer.Start(ctx, "candidates.Check")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	callSign = strings.TrimSpace(callSign)
	span.SetAttributes(attribute.String("call_sign", callSign))
	start := time.Now()

	s.logger.InfoContext(ctx, "checking diploma candidates",
		"request_id", requestcontext.RequestID(ctx),
		"call_sign", callSign,
		"check_after", s.checkAfter,
	)

	userID, err := s.logs.LookupUserID(ctx, callSign)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "no user found for call sign")
	}
	if err != nil {
		return nil, upstreamError(err, "look up user")
	}
	span.SetAttributes(attribute.String("user_id", userID))

	index, err := s.summits.Snapshot(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load summit list")
	}

	logs, err := s.gatherLogs(ctx, userID, requestcontext.Now(ctx))
	if err != nil {
		return nil, upstreamError(err, "fetch logs")
	}

	common := eligibility.Common{
		CallSign:       callSign,
		UserID:         userID,
		Summits:        index,
		CheckOnlyAfter: s.checkAfter,
	}
	verdicts := []eligibility.Verdict{
		eligibility.EvaluateActivator(logs.activator, common),
		eligibility.EvaluateChaser(logs.chaser, common),
		eligibility.EvaluateSummitToSummit(logs.s2s, common),
		eligibility.EvaluateOE20SOTA(logs.chaser, common),
	}
	for _, v := range verdicts {
		s.metrics.IncrementVerdict(string(v.Category), string(v.Rank))
	}

	open, err := s.diplomas.FilterRequested(ctx, callSign, verdicts)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCheck(time.Since(start))
	s.logger.InfoContext(ctx, "diploma candidates checked",
		"request_id", requestcontext.RequestID(ctx),
		"call_sign", callSign,
		"user_id", userID,
		"candidates", len(open),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.signer.SignAll(open), nil
}

// Request verifies every submitted candidate and stores those not requested
// before. It reports whether at least one diploma was requested. A single
// candidate with a bad signature rejects the whole request.
func (s *Service) Request(ctx context.Context, req DiplomaRequest) (_ bool, err error) {
	ctx, span := tracer.Start(ctx, "candidates.Request")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("call_sign", req.Requester.CallSign),
		attribute.Int("candidates", len(req.Candidates)),
	)

	if len(req.Candidates) == 0 {
		return false, nil
	}

	verdicts := make([]eligibility.Verdict, 0, len(req.Candidates))
	for i, c := range req.Candidates {
		if err := s.signer.Verify(c); err != nil {
			s.metrics.IncrementIntegrityFailure()
			s.metrics.IncrementRequest("rejected")
			s.logger.WarnContext(ctx, "diploma request with invalid signature",
				"request_id", requestcontext.RequestID(ctx),
				"call_sign", req.Requester.CallSign,
				"candidate", i,
				"category", c.Verdict.Category,
			)
			return false, err
		}
		if !callsign.Match(req.Requester.CallSign, c.Verdict.CallSign) {
			s.metrics.IncrementIntegrityFailure()
			s.metrics.IncrementRequest("rejected")
			s.logger.WarnContext(ctx, "diploma request for a foreign call sign",
				"request_id", requestcontext.RequestID(ctx),
				"call_sign", req.Requester.CallSign,
				"verdict_call_sign", c.Verdict.CallSign,
				"candidate", i,
			)
			return false, dErrors.New(dErrors.CodeIntegrity, "candidate does not belong to the requester")
		}
		verdicts = append(verdicts, c.Verdict)
	}

	created, err := s.diplomas.Create(ctx, req.Requester, verdicts, req.Language)
	if err != nil {
		return false, err
	}
	if len(created) == 0 {
		s.metrics.IncrementRequest("duplicate")
		return false, nil
	}
	s.metrics.IncrementRequest("created")
	return true, nil
}

func upstreamError(err error, action string) error {
	msg := fmt.Sprintf("%s: SOTA log service", action)
	switch {
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg+" unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg+" timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg+" failed")
	}
}
