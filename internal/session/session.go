// Package session keeps one list view and bulk dispatcher per mounted
// dashboard view. Nothing here is persisted.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/bulk"
	"github.com/MrJamesThe3rd/finboard/internal/listview"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrUnknownRequest = errors.New("delete request not found")
)

type Session struct {
	ID   uuid.UUID
	View *listview.View
	Bulk *bulk.Dispatcher

	mu      sync.Mutex
	pending map[uuid.UUID]*bulk.DeleteRequest
}

// RequestDelete parks a delete request for the current selection under a
// fresh token.
func (s *Session) RequestDelete() (uuid.UUID, *bulk.DeleteRequest, error) {
	req, err := s.Bulk.RequestDelete()
	if err != nil {
		return uuid.Nil, nil, err
	}

	token := uuid.New()

	s.mu.Lock()
	s.pending[token] = req
	s.mu.Unlock()

	return token, req, nil
}

// ConfirmDelete confirms the request parked under token. The token is
// forgotten once the deletion succeeds.
func (s *Session) ConfirmDelete(ctx context.Context, token uuid.UUID) (int, error) {
	s.mu.Lock()
	req, ok := s.pending[token]
	s.mu.Unlock()

	if !ok {
		return 0, ErrUnknownRequest
	}

	n, err := req.Confirm(ctx)
	if err != nil && !errors.Is(err, bulk.ErrAlreadyConfirmed) {
		return 0, err
	}

	s.mu.Lock()
	delete(s.pending, token)
	s.mu.Unlock()

	return n, err
}

// Source lists the transactions a session is built from.
type Source interface {
	List(ctx context.Context) ([]transaction.Transaction, error)
	bulk.Store
}

type Manager struct {
	source Source
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewManager(source Source, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		source:   source,
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create loads the current transaction set into a new session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	txs, err := m.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	view := listview.New(txs)
	s := &Session{
		ID:      uuid.New(),
		View:    view,
		Bulk:    bulk.NewDispatcher(view, m.source),
		pending: make(map[uuid.UUID]*bulk.DeleteRequest),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "session", s.ID, "transactions", len(txs))

	return s, nil
}

func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	return s, nil
}

// Refresh reloads the session's transactions from the source, keeping its
// filter, sort and the still-visible part of its selection.
func (m *Manager) Refresh(ctx context.Context, id uuid.UUID) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	txs, err := m.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	s.View.Replace(txs)

	return s, nil
}

// Close discards the session and any pending delete requests.
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}

	delete(m.sessions, id)
	m.logger.Debug("session closed", "session", id)

	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
