// Package handler exposes the summit list over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"sotadiploma/internal/summit"
	"sotadiploma/internal/summit/listsync"
	dErrors "sotadiploma/pkg/domain-errors"
	"sotadiploma/pkg/platform/httputil"
	"sotadiploma/pkg/requestcontext"
)

// Store reads and edits stored summits.
type Store interface {
	List(ctx context.Context) ([]summit.ListEntry, error)
	Get(ctx context.Context, code string) (*summit.ListEntry, error)
	Update(ctx context.Context, entry summit.ListEntry) (*summit.ListEntry, error)
}

// Synchronizer pulls the published summit list.
type Synchronizer interface {
	Synchronize(ctx context.Context) (*listsync.Result, error)
}

type Handler struct {
	store  Store
	sync   Synchronizer
	logger *slog.Logger
}

func New(store Store, sync Synchronizer, logger *slog.Logger) *Handler {
	return &Handler{store: store, sync: sync, logger: logger}
}

// Register mounts the read-only summit endpoints. Summit codes contain a
// slash, so they are matched with a wildcard.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/summits", h.HandleList)
	r.Get("/api/summits/*", h.HandleGet)
}

// RegisterAdmin mounts the summit maintenance endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/summits/synchronize", h.HandleSynchronize)
	r.Put("/summits/*", h.HandleUpdate)
}

func summitCode(r *http.Request) string {
	return strings.ToUpper(strings.Trim(chi.URLParam(r, "*"), "/ "))
}

// HandleList handles GET /api/summits.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list summits", "error", err)
		httputil.WriteError(w, err)
		return
	}
	out := make([]*SummitResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /api/summits/{code}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.store.Get(r.Context(), summitCode(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(*entry))
}

// HandleUpdate handles PUT /api/admin/summits/{code}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	code := summitCode(r)
	if code == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "summit code is required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateSummitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.store.Update(ctx, req.entry(code))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "summit updated",
		"request_id", requestID,
		"summit", code,
		"valid_from", req.ValidFrom,
		"valid_to", req.ValidTo,
	)
	httputil.WriteJSON(w, http.StatusOK, toResponse(*updated))
}

// HandleSynchronize handles POST /api/admin/summits/synchronize.
func (h *Handler) HandleSynchronize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.sync.Synchronize(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "summit list synchronization failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "summit list could not be synchronized"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
