package memstore_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/transaction/memstore"
)

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(memstore.Sample())

	all, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(memstore.Sample()))

	require.NoError(t, s.UpdateCategory(ctx, []string{"tx-001", "tx-008"}, "Groceries"))

	got, err := s.GetTransaction(ctx, "tx-008")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Category)

	n, err := s.DeleteTransactions(ctx, []string{"tx-001", "tx-002", "tx-999"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err = s.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(memstore.Sample())-2)

	_, err = s.GetTransaction(ctx, "tx-001")
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_CreateAssignsID(t *testing.T) {
	s := memstore.New(nil)
	tx := &transaction.Transaction{Description: "Coffee", Amount: decimal.RequireFromString("-3")}

	require.NoError(t, s.CreateTransaction(context.Background(), tx))
	assert.NotEmpty(t, tx.ID)
}

func TestStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(memstore.Sample())

	all, err := s.ListTransactions(ctx)
	require.NoError(t, err)

	all[0].Category = "Mutated"

	again, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "Mutated", again[0].Category)
}

func TestStore_ImportThroughService(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(memstore.Sample())
	svc := transaction.NewService(s)

	existing := memstore.Sample()[0]
	params := []transaction.CreateParams{
		{
			Date:        existing.Date,
			Description: existing.Description,
			Amount:      existing.Amount,
			Account:     existing.Account,
		},
		{
			Date:        existing.Date,
			Description: "Brand new",
			Amount:      decimal.RequireFromString("-1"),
			Account:     existing.Account,
		},
	}

	result, err := svc.ImportBatch(ctx, params)
	require.NoError(t, err)
	assert.Len(t, result.Conflicts, 1)
	assert.Len(t, result.New, 1)

	// Nothing was written on conflict; confirming the new ones writes them.
	created, err := svc.CreateBatch(ctx, result.New)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.NotEmpty(t, created[0].ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(memstore.Sample())+1)
}
