// Package handler exposes the diploma log to administrators.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sotadiploma/internal/diplomalog/models"
	"sotadiploma/internal/summit"
	"sotadiploma/pkg/platform/httputil"
	"sotadiploma/pkg/requestcontext"
)

type Service interface {
	ListPending(ctx context.Context) ([]*models.Entry, error)
	SetReviewMailSent(ctx context.Context, id string, sent bool) (*models.Entry, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterAdmin mounts the diploma log endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/logs/pending", h.HandleListPending)
	r.Put("/logs/{id}", h.HandleUpdate)
}

// HandleListPending handles GET /api/admin/logs/pending.
func (h *Handler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListPending(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list pending diploma requests", "error", err)
		httputil.WriteError(w, err)
		return
	}
	out := make([]*EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleUpdate handles PUT /api/admin/logs/{id}. Only the review mail flag
// can be changed.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id := chi.URLParam(r, "id")

	req, ok := httputil.DecodeAndPrepare[UpdateEntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entry, err := h.service.SetReviewMailSent(ctx, id, *req.ReviewMailSent)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "diploma log entry updated",
		"request_id", requestID,
		"entry_id", id,
		"review_mail_sent", entry.ReviewMailSent,
	)
	httputil.WriteJSON(w, http.StatusOK, toResponse(entry))
}

type EntryResponse struct {
	ID             string                  `json:"id"`
	CallSign       string                  `json:"callSign"`
	Mail           string                  `json:"mail"`
	Name           string                  `json:"name"`
	Category       string                  `json:"category"`
	Rank           string                  `json:"rank"`
	Activations    map[summit.Region]int64 `json:"activations"`
	CreatedOn      string                  `json:"creationDate"`
	ReviewMailSent bool                    `json:"reviewMailSent"`
	Language       string                  `json:"language"`
}

func toResponse(e *models.Entry) *EntryResponse {
	return &EntryResponse{
		ID:             e.ID,
		CallSign:       e.CallSign,
		Mail:           e.Mail,
		Name:           e.Name,
		Category:       string(e.Category),
		Rank:           string(e.Rank),
		Activations:    e.Activations,
		CreatedOn:      e.CreatedOn.Format(time.DateOnly),
		ReviewMailSent: e.ReviewMailSent,
		Language:       e.Language,
	}
}
