// Package memstore keeps transactions in process memory. It backs the
// dashboard when no database is configured.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Store struct {
	mu  sync.RWMutex
	txs []transaction.Transaction
}

// New returns a store holding a copy of seed, in order.
func New(seed []transaction.Transaction) *Store {
	s := &Store{txs: make([]transaction.Transaction, 0, len(seed))}

	for _, tx := range seed {
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}

		s.txs = append(s.txs, tx)
	}

	return s
}

func (s *Store) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insert(tx)

	return nil
}

func (s *Store) insert(tx *transaction.Transaction) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	s.txs = append(s.txs, *tx)
}

func (s *Store) GetTransaction(_ context.Context, id string) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.txs {
		if tx.ID == id {
			return &tx, nil
		}
	}

	return nil, transaction.ErrNotFound
}

func (s *Store) ListTransactions(_ context.Context) ([]transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.txs), nil
}

func (s *Store) UpdateCategory(_ context.Context, ids []string, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.txs {
		if slices.Contains(ids, tx.ID) {
			s.txs[i] = tx.WithCategory(category)
		}
	}

	return nil
}

func (s *Store) DeleteTransactions(_ context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.txs)
	s.txs = slices.DeleteFunc(s.txs, func(tx transaction.Transaction) bool {
		return slices.Contains(ids, tx.ID)
	})

	return before - len(s.txs), nil
}

// importTx stages inserts and applies them on Commit while holding the
// store's write lock for its whole lifetime.
type importTx struct {
	s       *Store
	pending []*transaction.Transaction
	done    bool
}

func (s *Store) BeginImport(_ context.Context, _, _ time.Time) (transaction.ImportTx, error) {
	s.mu.Lock()
	return &importTx{s: s}, nil
}

func (itx *importTx) FindDuplicates(_ context.Context, params []transaction.CreateParams) ([]transaction.Transaction, error) {
	keys := make(map[transaction.DuplicateKey]struct{}, len(params))
	for _, p := range params {
		keys[p.DuplicateKey()] = struct{}{}
	}

	var duplicates []transaction.Transaction

	for _, tx := range itx.s.txs {
		if _, found := keys[tx.DuplicateKey()]; found {
			duplicates = append(duplicates, tx)
		}
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(_ context.Context, txs []*transaction.Transaction) error {
	itx.pending = append(itx.pending, txs...)
	return nil
}

func (itx *importTx) Commit() error {
	if itx.done {
		return nil
	}

	for _, tx := range itx.pending {
		itx.s.insert(tx)
	}

	itx.finish()

	return nil
}

func (itx *importTx) Rollback() error {
	if itx.done {
		return nil
	}

	itx.finish()

	return nil
}

func (itx *importTx) finish() {
	itx.done = true
	itx.pending = nil
	itx.s.mu.Unlock()
}
