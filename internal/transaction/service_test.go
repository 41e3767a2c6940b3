package transaction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					Amount:      amount("-10.00"),
					Type:        transaction.TypeExpense,
					Status:      transaction.StatusCompleted,
					Description: "Test Transaction",
					Category:    "Food",
					Account:     "Checking",
					Date:        date(2023, 10, 27),
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.NewString()
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "RepoError",
			args: args{
				params: transaction.CreateParams{
					Amount: amount("5"),
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "Food", got.Category)
		})
	}
}

func TestService_List(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any()).
					Return(sampleTxs(), nil)
			},
			wantLen: 2,
			wantErr: false,
		},
		{
			name: "Error",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any()).
					Return(nil, errors.New("list error"))
			},
			wantLen: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Categorize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	repo.EXPECT().UpdateCategory(gomock.Any(), []string{"1", "2"}, "Groceries").Return(nil)

	require.NoError(t, svc.Categorize(context.Background(), []string{"1", "2"}, "Groceries"))

	// Nothing selected means nothing to write.
	require.NoError(t, svc.Categorize(context.Background(), nil, "Groceries"))
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	gomock.InOrder(
		repo.EXPECT().DeleteTransactions(gomock.Any(), []string{"1"}).Return(0, errors.New("db down")),
		repo.EXPECT().DeleteTransactions(gomock.Any(), []string{"1", "2"}).Return(1, nil),
	)

	_, err := svc.Delete(context.Background(), []string{"1"})
	assert.Error(t, err)

	n, err := svc.Delete(context.Background(), []string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.Delete(context.Background(), []string{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	d := date(2024, 1, 15)
	params := []transaction.CreateParams{
		{
			Amount:      amount("-4.50"),
			Type:        transaction.TypeExpense,
			Status:      transaction.StatusCompleted,
			Description: "Coffee",
			Account:     "Checking",
			Date:        d,
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), d, d).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	d := date(2024, 1, 15)
	params := []transaction.CreateParams{
		{
			Amount:      amount("-4.50"),
			Type:        transaction.TypeExpense,
			Description: "Coffee",
			Account:     "Checking",
			Date:        d,
		},
		{
			Amount:      amount("-12.00"),
			Type:        transaction.TypeExpense,
			Description: "Lunch",
			Account:     "Checking",
			Date:        d,
		},
	}

	// Stored amounts may carry a different scale; the key still matches.
	existing := transaction.Transaction{
		ID:          uuid.NewString(),
		Amount:      amount("-4.5"),
		Type:        transaction.TypeExpense,
		Description: "Coffee",
		Account:     "Checking",
		Date:        d,
	}

	repo.EXPECT().BeginImport(gomock.Any(), d, d).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return([]transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	assert.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	result, err := svc.ImportBatch(context.Background(), []transaction.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	d := date(2024, 1, 15)
	params := []transaction.CreateParams{
		{
			Amount:      amount("-4.50"),
			Type:        transaction.TypeExpense,
			Status:      transaction.StatusCompleted,
			Description: "Coffee",
			Date:        d,
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), d, d).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(amount("-4.5")))
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
}
