package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/http/param"
	sessionHandler "github.com/MrJamesThe3rd/finboard/internal/http/session"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// Handler serves the list view of the session in the request context.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.list)
	r.Get("/transactions/{txID}/details", h.details)
	r.Put("/filters", h.setFilters)
	r.Put("/sort", h.setSort)
	r.Get("/options", h.options)
	r.Post("/selection", h.selection)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	s := sessionHandler.FromContext(r.Context())
	writeJSON(w, http.StatusOK, toListResponse(s.View))
}

func (h *Handler) setFilters(w http.ResponseWriter, r *http.Request) {
	var req criteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	criteria, err := req.toCriteria()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := sessionHandler.FromContext(r.Context())
	s.View.SetCriteria(criteria)

	writeJSON(w, http.StatusOK, toListResponse(s.View))
}

func (h *Handler) setSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key, dir, err := param.Sort(req.Key, req.Direction)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := sessionHandler.FromContext(r.Context())
	s.View.SetSort(key, dir)

	writeJSON(w, http.StatusOK, toListResponse(s.View))
}

func (h *Handler) options(w http.ResponseWriter, r *http.Request) {
	opts := sessionHandler.FromContext(r.Context()).View.FilterOptions()

	writeJSON(w, http.StatusOK, optionsResponse{
		Categories: opts.Categories,
		Accounts:   opts.Accounts,
		Merchants:  opts.Merchants,
	})
}

func (h *Handler) details(w http.ResponseWriter, r *http.Request) {
	d, err := sessionHandler.FromContext(r.Context()).View.Details(chi.URLParam(r, "txID"))
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toDetailsResponse(d))
}

func (h *Handler) selection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v := sessionHandler.FromContext(r.Context()).View

	switch req.Action {
	case selectionSelect:
		v.Select(req.IDs...)
	case selectionDeselect:
		v.Deselect(req.IDs...)
	case selectionToggle:
		for _, id := range req.IDs {
			v.Toggle(id)
		}
	case selectionAll:
		v.SelectAll()
	case selectionClear:
		v.ClearSelection()
	default:
		http.Error(w, "action must be one of select, deselect, toggle, all, clear", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, selectionResponse{Selected: v.SelectedIDs()})
}
