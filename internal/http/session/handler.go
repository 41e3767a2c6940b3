package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/session"
)

type ctxKey struct{}

// FromContext returns the session loaded by Handler.Load.
func FromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(ctxKey{}).(*session.Session)
	return s
}

// WithSession is used by tests of handlers mounted behind Load.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

type Handler struct {
	mgr *session.Manager
}

func NewHandler(mgr *session.Manager) *Handler {
	return &Handler{mgr: mgr}
}

// Routes mounts the collection endpoints. Per-session routes go under
// /{sessionID} behind Load.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
}

// SessionRoutes are mounted under /{sessionID}.
func (h *Handler) SessionRoutes(r chi.Router) {
	r.Delete("/", h.close)
	r.Post("/refresh", h.refresh)
}

// Load resolves the {sessionID} URL parameter and stores the session in
// the request context.
func (h *Handler) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, "invalid session id", http.StatusBadRequest)
			return
		}

		s, err := h.mgr.Get(id)
		if err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

type sessionResponse struct {
	ID           uuid.UUID `json:"id"`
	Transactions int       `json:"transactions"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Create(r.Context())
	if err != nil {
		slog.Error("failed to create session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(sessionResponse{
		ID:           s.ID,
		Transactions: len(s.View.All()),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	s := FromContext(r.Context())

	if err := h.mgr.Close(s.ID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Refresh(r.Context(), FromContext(r.Context()).ID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to refresh session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(sessionResponse{
		ID:           s.ID,
		Transactions: len(s.View.All()),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
