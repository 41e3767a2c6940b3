package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	ListTransactions(ctx context.Context) ([]Transaction, error)
	UpdateCategory(ctx context.Context, ids []string, category string) error
	// DeleteTransactions returns how many of ids were actually deleted.
	DeleteTransactions(ctx context.Context, ids []string) (int, error)

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    string
	Type        Type
	Status      Status
	Account     string
	Reference   string
	Merchant    string
	Location    string
}

func (p CreateParams) transaction() *Transaction {
	return &Transaction{
		Date:        p.Date,
		Description: p.Description,
		Amount:      p.Amount,
		Category:    p.Category,
		Type:        p.Type,
		Status:      p.Status,
		Account:     p.Account,
		Reference:   p.Reference,
		Merchant:    p.Merchant,
		Location:    p.Location,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := params.transaction()
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// List returns the full transaction set in source order.
func (s *Service) List(ctx context.Context) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// Categorize assigns category to every transaction in ids.
func (s *Service) Categorize(ctx context.Context, ids []string, category string) error {
	if len(ids) == 0 {
		return nil
	}

	return s.repo.UpdateCategory(ctx, ids, category)
}

// Delete removes ids and returns how many existed.
func (s *Service) Delete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	return s.repo.DeleteTransactions(ctx, ids)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing Transaction
}

// DuplicateKey identifies a transaction that was likely imported before.
type DuplicateKey struct {
	Date        string
	Amount      string
	Description string
	Account     string
}

func keyOf(date time.Time, amount decimal.Decimal, description, account string) DuplicateKey {
	return DuplicateKey{
		Date:        date.Format(time.DateOnly),
		Amount:      amount.String(),
		Description: description,
		Account:     account,
	}
}

func (p CreateParams) DuplicateKey() DuplicateKey {
	return keyOf(p.Date, p.Amount, p.Description, p.Account)
}

func (tx Transaction) DuplicateKey() DuplicateKey {
	return keyOf(tx.Date, tx.Amount, tx.Description, tx.Account)
}

// ImportBatch writes params unless some of them look like duplicates of
// stored transactions. On conflict nothing is written and the caller gets
// the split between new and conflicting params.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[DuplicateKey]Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[d.DuplicateKey()] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[p.DuplicateKey()]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(newParams)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch writes params without duplicate detection.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := paramsToTransactions(params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func paramsToTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = p.transaction()
	}

	return txs
}
