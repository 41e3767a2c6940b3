// Package bulk applies actions to every selected transaction of a list view.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/listview"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

var (
	ErrEmptySelection   = errors.New("no transactions selected")
	ErrNoCategory       = errors.New("category is required")
	ErrAlreadyConfirmed = errors.New("delete request already confirmed")
)

// Store persists bulk changes. *transaction.Service satisfies it.
type Store interface {
	Categorize(ctx context.Context, ids []string, category string) error
	Delete(ctx context.Context, ids []string) (int, error)
}

// Dispatcher runs one bulk action at a time against a view's selection.
type Dispatcher struct {
	mu    sync.Mutex
	view  *listview.View
	store Store
}

func NewDispatcher(view *listview.View, store Store) *Dispatcher {
	return &Dispatcher{view: view, store: store}
}

// Categorize assigns category to every selected transaction and returns how
// many were changed. The selection is kept.
func (d *Dispatcher) Categorize(ctx context.Context, category string) (int, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return 0, ErrNoCategory
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ids := d.view.SelectedIDs()
	if len(ids) == 0 {
		return 0, ErrEmptySelection
	}

	if err := d.store.Categorize(ctx, ids, category); err != nil {
		return 0, fmt.Errorf("categorizing %d transactions: %w", len(ids), err)
	}

	d.view.Recategorize(ids, category)

	return len(ids), nil
}

// RequestDelete captures the current selection for deletion. Nothing is
// deleted until the returned request is confirmed.
func (d *Dispatcher) RequestDelete() (*DeleteRequest, error) {
	ids := d.view.SelectedIDs()
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	return &DeleteRequest{d: d, ids: ids}, nil
}

// Selected returns the selected transactions.
func (d *Dispatcher) Selected() []transaction.Transaction {
	return d.view.Transactions(d.view.SelectedIDs())
}

// Export renders exactly the selected transactions. The options' date range
// and categories are not applied.
func (d *Dispatcher) Export(w io.Writer, opts export.Options) error {
	return export.Render(w, d.Selected(), opts)
}

// DeleteRequest is a pending, single-use deletion of a snapshot of the
// selection.
type DeleteRequest struct {
	d    *Dispatcher
	ids  []string
	done bool
}

func (r *DeleteRequest) IDs() []string {
	return append([]string(nil), r.ids...)
}

func (r *DeleteRequest) Count() int {
	return len(r.ids)
}

// Confirm deletes the captured transactions that still exist and returns
// how many were removed. Only those ids leave the selection. A request that
// failed to persist may be confirmed again.
func (r *DeleteRequest) Confirm(ctx context.Context) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if r.done {
		return 0, ErrAlreadyConfirmed
	}

	// Another request may already have deleted part of the snapshot.
	live := r.d.view.Transactions(r.ids)
	ids := make([]string, len(live))

	for i, tx := range live {
		ids[i] = tx.ID
	}

	n, err := r.d.store.Delete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("deleting %d transactions: %w", len(ids), err)
	}

	r.done = true
	r.d.view.Remove(ids)

	return n, nil
}
