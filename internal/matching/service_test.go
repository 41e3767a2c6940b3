package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/matching/memstore"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func TestService_Learn(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		category  string
		setupMock func(m *matching.MockRepository)
		wantErr   error
	}{
		{
			name:     "Success",
			pattern:  " UBER ",
			category: "Transportation",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().CreateRule(gomock.Any(), "UBER", "Transportation").Return(nil)
			},
		},
		{
			name:      "EmptyPattern",
			pattern:   "  ",
			category:  "Transportation",
			setupMock: func(m *matching.MockRepository) {},
			wantErr:   matching.ErrEmptyRule,
		},
		{
			name:      "EmptyCategory",
			pattern:   "UBER",
			setupMock: func(m *matching.MockRepository) {},
			wantErr:   matching.ErrEmptyRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)
			tt.setupMock(repo)

			err := matching.NewService(repo).Learn(context.Background(), tt.pattern, tt.category)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_Apply(t *testing.T) {
	ctx := context.Background()
	svc := matching.NewService(memstore.New())

	require.NoError(t, svc.Learn(ctx, "uber", "Transportation"))
	require.NoError(t, svc.Learn(ctx, "uber eats", "Food & Dining"))

	params := []transaction.CreateParams{
		{Description: "UBER *TRIP HELP.UBER.COM", Category: transaction.Uncategorized},
		{Description: "Uber Eats order 1234", Category: ""},
		{Description: "UBER *TRIP", Category: "Travel"},
		{Description: "Unknown shop", Category: transaction.Uncategorized},
	}

	n := svc.Apply(ctx, params)
	assert.Equal(t, 2, n)

	assert.Equal(t, "Transportation", params[0].Category)
	assert.Equal(t, "Food & Dining", params[1].Category)
	assert.Equal(t, "Travel", params[2].Category)
	assert.Equal(t, transaction.Uncategorized, params[3].Category)
}

func TestService_ApplyIgnoresLookupErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)
	repo.EXPECT().FindCategory(gomock.Any(), "Coffee").Return("", errors.New("db down"))

	params := []transaction.CreateParams{{Description: "Coffee"}}

	assert.Zero(t, matching.NewService(repo).Apply(context.Background(), params))
	assert.Empty(t, params[0].Category)
}
