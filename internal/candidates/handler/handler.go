package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sotadiploma/internal/candidates/service"
	"sotadiploma/internal/integrity"
	dErrors "sotadiploma/pkg/domain-errors"
	"sotadiploma/pkg/platform/httputil"
	"sotadiploma/pkg/requestcontext"
)

// Service defines the candidate operations exposed over HTTP.
type Service interface {
	Check(ctx context.Context, callSign string) ([]integrity.SignedVerdict, error)
	Request(ctx context.Context, req service.DiplomaRequest) (bool, error)
	DailyStatistics(ctx context.Context, day time.Time) (map[string]int, error)
}

// CacheClearer drops cached upstream data.
type CacheClearer interface {
	ClearCaches()
}

// Handler wires the diploma endpoints to the candidates service.
type Handler struct {
	service  Service
	logger   *slog.Logger
	throttle func(http.Handler) http.Handler
	caches   []CacheClearer
}

type Option func(*Handler)

// WithThrottle guards the candidate check with the request throttle.
func WithThrottle(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.throttle = mw
	}
}

func WithCacheClearers(caches ...CacheClearer) Option {
	return func(h *Handler) {
		h.caches = append(h.caches, caches...)
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the public diploma endpoints.
func (h *Handler) Register(r chi.Router) {
	if h.throttle != nil {
		r.With(h.throttle).Get("/api/diploma/candidates", h.HandleCandidates)
	} else {
		r.Get("/api/diploma/candidates", h.HandleCandidates)
	}
	r.Post("/api/diploma/request", h.HandleRequest)
}

// RegisterAdmin mounts the admin endpoints. The caller guards the router.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/statistic/day/{day}", h.HandleDailyStatistics)
	r.Post("/cache/invalidate", h.HandleInvalidateCaches)
}

// HandleCandidates handles GET /api/diploma/candidates?callsign=.
func (h *Handler) HandleCandidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	callSign := r.URL.Query().Get("callsign")
	if len(callSign) > maxCallSignLength {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "callsign is too long"))
		return
	}

	candidates, err := h.service.Check(ctx, callSign)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "candidate check failed",
				"request_id", requestID,
				"call_sign", callSign,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, candidates)
}

// HandleRequest handles POST /api/diploma/request and answers true when at
// least one diploma was requested.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DiplomaRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	requested, err := h.service.Request(ctx, req.toService())
	if err != nil {
		h.logger.WarnContext(ctx, "diploma request failed",
			"request_id", requestID,
			"call_sign", req.Requester.CallSign,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, requested)
}

// HandleDailyStatistics handles GET /api/admin/statistic/day/{day}.
func (h *Handler) HandleDailyStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	day, err := time.Parse(time.DateOnly, chi.URLParam(r, "day"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "day must be formatted as YYYY-MM-DD"))
		return
	}

	stats, err := h.service.DailyStatistics(ctx, day)
	if err != nil {
		h.logger.ErrorContext(ctx, "daily statistics failed",
			"request_id", requestcontext.RequestID(ctx),
			"day", day.Format(time.DateOnly),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// HandleInvalidateCaches handles POST /api/admin/cache/invalidate.
func (h *Handler) HandleInvalidateCaches(w http.ResponseWriter, r *http.Request) {
	for _, c := range h.caches {
		c.ClearCaches()
	}
	h.logger.InfoContext(r.Context(), "caches invalidated",
		"request_id", requestcontext.RequestID(r.Context()),
		"caches", len(h.caches),
	)
	w.WriteHeader(http.StatusNoContent)
}
