package bulk_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finboard/internal/bulk"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/listview"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/transaction/memstore"
)

func setup(t *testing.T) (*bulk.Dispatcher, *listview.View, *transaction.Service) {
	t.Helper()

	svc := transaction.NewService(memstore.New(memstore.Sample()))

	txs, err := svc.List(context.Background())
	require.NoError(t, err)

	v := listview.New(txs)

	return bulk.NewDispatcher(v, svc), v, svc
}

func TestDispatcher_Categorize(t *testing.T) {
	ctx := context.Background()
	d, v, svc := setup(t)

	v.Select("tx-003", "tx-007")

	n, err := d.Categorize(ctx, "  Subscriptions ")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Selection survives.
	assert.Equal(t, []string{"tx-003", "tx-007"}, v.SelectedIDs())

	for _, tx := range v.Transactions([]string{"tx-003", "tx-007"}) {
		assert.Equal(t, "Subscriptions", tx.Category)
	}

	stored, err := svc.Get(ctx, "tx-007")
	require.NoError(t, err)
	assert.Equal(t, "Subscriptions", stored.Category)
}

func TestDispatcher_CategorizeErrors(t *testing.T) {
	ctx := context.Background()
	d, v, _ := setup(t)

	_, err := d.Categorize(ctx, "Food")
	assert.ErrorIs(t, err, bulk.ErrEmptySelection)

	v.Select("tx-001")

	_, err = d.Categorize(ctx, "   ")
	assert.ErrorIs(t, err, bulk.ErrNoCategory)
}

func TestDispatcher_CategorizeStoreFailureLeavesViewUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	repo.EXPECT().
		UpdateCategory(gomock.Any(), []string{"tx-001"}, "Groceries").
		Return(errors.New("db down"))

	v := listview.New(memstore.Sample())
	v.Select("tx-001")

	d := bulk.NewDispatcher(v, transaction.NewService(repo))

	_, err := d.Categorize(context.Background(), "Groceries")
	require.Error(t, err)

	assert.Equal(t, "Food & Dining", v.Transactions([]string{"tx-001"})[0].Category)
}

func TestDispatcher_DeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	d, v, svc := setup(t)

	v.Select("tx-001", "tx-002")

	req, err := d.RequestDelete()
	require.NoError(t, err)
	assert.Equal(t, 2, req.Count())
	assert.Equal(t, []string{"tx-001", "tx-002"}, req.IDs())

	// Nothing happens before Confirm.
	assert.Len(t, v.All(), 18)
	assert.Len(t, v.SelectedIDs(), 2)

	n, err := req.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Len(t, v.All(), 16)
	assert.Empty(t, v.SelectedIDs())

	_, err = svc.Get(ctx, "tx-001")
	assert.ErrorIs(t, err, transaction.ErrNotFound)

	_, err = req.Confirm(ctx)
	assert.ErrorIs(t, err, bulk.ErrAlreadyConfirmed)
}

func TestDispatcher_DeleteSnapshotsSelection(t *testing.T) {
	ctx := context.Background()
	d, v, _ := setup(t)

	v.Select("tx-001")

	req, err := d.RequestDelete()
	require.NoError(t, err)

	v.Select("tx-002")

	_, err = req.Confirm(ctx)
	require.NoError(t, err)

	all := v.All()
	assert.Len(t, all, 17)
	assert.Equal(t, "tx-002", all[0].ID)

	// Rows selected after the request stay selected.
	assert.Equal(t, []string{"tx-002"}, v.SelectedIDs())
}

func TestDispatcher_OverlappingDeleteRequests(t *testing.T) {
	ctx := context.Background()
	d, v, svc := setup(t)

	v.Select("tx-003", "tx-007")

	first, err := d.RequestDelete()
	require.NoError(t, err)

	second, err := d.RequestDelete()
	require.NoError(t, err)

	n, err := first.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, v.All(), 16)

	v.Select("tx-001")

	// The second request's rows are already gone.
	n, err = second.Confirm(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, v.All(), 16)
	assert.Equal(t, []string{"tx-001"}, v.SelectedIDs())

	stored, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 16)
}

func TestDispatcher_DeleteReportsRowsRemoved(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	// The store found only one of the two rows.
	repo.EXPECT().DeleteTransactions(gomock.Any(), []string{"tx-001", "tx-002"}).Return(1, nil)

	v := listview.New(memstore.Sample())
	v.Select("tx-001", "tx-002")

	d := bulk.NewDispatcher(v, transaction.NewService(repo))

	req, err := d.RequestDelete()
	require.NoError(t, err)

	n, err := req.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDispatcher_DeleteEmptySelection(t *testing.T) {
	d, _, _ := setup(t)

	req, err := d.RequestDelete()
	assert.Nil(t, req)
	assert.ErrorIs(t, err, bulk.ErrEmptySelection)
}

func TestDispatcher_DeleteFailureCanBeRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().DeleteTransactions(gomock.Any(), []string{"tx-001"}).Return(0, errors.New("db down")),
		repo.EXPECT().DeleteTransactions(gomock.Any(), []string{"tx-001"}).Return(1, nil),
	)

	v := listview.New(memstore.Sample())
	v.Select("tx-001")

	d := bulk.NewDispatcher(v, transaction.NewService(repo))

	req, err := d.RequestDelete()
	require.NoError(t, err)

	_, err = req.Confirm(context.Background())
	require.Error(t, err)
	assert.Len(t, v.All(), 18)

	n, err := req.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, v.All(), 17)
}

func TestDispatcher_ExportBypassesOptionFilters(t *testing.T) {
	d, v, _ := setup(t)

	v.Select("tx-001", "tx-018")

	opts := export.DefaultOptions()
	opts.Categories = []string{"Income"}
	opts.DateRange = transaction.DateRange{
		Start: new(time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)),
	}

	var buf bytes.Buffer
	require.NoError(t, d.Export(&buf, opts))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Whole Foods Market", records[1][1])
	assert.Equal(t, "Pharmacy", records[2][1])
}
