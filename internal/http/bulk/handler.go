package bulk

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/bulk"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	exportHandler "github.com/MrJamesThe3rd/finboard/internal/http/export"
	sessionHandler "github.com/MrJamesThe3rd/finboard/internal/http/session"
	"github.com/MrJamesThe3rd/finboard/internal/session"
)

// Handler runs bulk actions on the selection of the session in the request
// context.
type Handler struct {
	exportSvc *export.Service
}

func NewHandler(exportSvc *export.Service) *Handler {
	return &Handler{exportSvc: exportSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/categorize", h.categorize)
	r.Post("/delete", h.requestDelete)
	r.Post("/delete/{token}/confirm", h.confirmDelete)
	r.Post("/export", h.export)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type categorizeRequest struct {
	Category string `json:"category"`
}

type countResponse struct {
	Count int `json:"count"`
}

func (h *Handler) categorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n, err := sessionHandler.FromContext(r.Context()).Bulk.Categorize(r.Context(), req.Category)
	if err != nil {
		switch {
		case errors.Is(err, bulk.ErrNoCategory):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, bulk.ErrEmptySelection):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			slog.Error("failed to categorize", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

type deleteResponse struct {
	Token uuid.UUID `json:"token"`
	Count int       `json:"count"`
	IDs   []string  `json:"ids"`
}

func (h *Handler) requestDelete(w http.ResponseWriter, r *http.Request) {
	token, req, err := sessionHandler.FromContext(r.Context()).RequestDelete()
	if err != nil {
		if errors.Is(err, bulk.ErrEmptySelection) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusAccepted, deleteResponse{
		Token: token,
		Count: req.Count(),
		IDs:   req.IDs(),
	})
}

func (h *Handler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		http.Error(w, "invalid token", http.StatusBadRequest)
		return
	}

	n, err := sessionHandler.FromContext(r.Context()).ConfirmDelete(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUnknownRequest):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, bulk.ErrAlreadyConfirmed):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			slog.Error("failed to delete", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	opts, err := exportHandler.Decode(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := sessionHandler.FromContext(r.Context())

	exportHandler.Send(w, opts, h.exportSvc.Filename(opts), func(buf *bytes.Buffer) error {
		return s.Bulk.Export(buf, opts)
	})
}
