package transaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func TestSort(t *testing.T) {
	txs := []transaction.Transaction{
		{ID: "a", Date: date(2024, 1, 3), Amount: amount("100"), Category: "Rent"},
		{ID: "b", Date: date(2024, 1, 1), Amount: amount("-500"), Category: "Food"},
		{ID: "c", Date: date(2024, 1, 2), Amount: amount("-20"), Category: "Travel"},
	}

	tests := []struct {
		name string
		key  transaction.SortKey
		dir  transaction.Direction
		want []string
	}{
		{name: "DateAsc", key: transaction.SortByDate, dir: transaction.Asc, want: []string{"b", "c", "a"}},
		{name: "DateDesc", key: transaction.SortByDate, dir: transaction.Desc, want: []string{"a", "c", "b"}},
		{name: "AmountAscByMagnitude", key: transaction.SortByAmount, dir: transaction.Asc, want: []string{"c", "a", "b"}},
		{name: "AmountDescByMagnitude", key: transaction.SortByAmount, dir: transaction.Desc, want: []string{"b", "a", "c"}},
		{name: "CategoryAsc", key: transaction.SortByCategory, dir: transaction.Asc, want: []string{"b", "a", "c"}},
		{name: "CategoryDesc", key: transaction.SortByCategory, dir: transaction.Desc, want: []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transaction.Sort(txs, tt.key, tt.dir)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	// Input is never reordered in place.
	assert.Equal(t, []string{"a", "b", "c"}, ids(txs))
}

func TestSort_MagnitudeNotSign(t *testing.T) {
	txs := []transaction.Transaction{
		{ID: "small", Amount: amount("100")},
		{ID: "big", Amount: amount("-500")},
	}

	got := transaction.Sort(txs, transaction.SortByAmount, transaction.Desc)
	assert.Equal(t, []string{"big", "small"}, ids(got))
}

func TestSort_StableForTies(t *testing.T) {
	txs := []transaction.Transaction{
		{ID: "1", Category: "Food", Amount: amount("10")},
		{ID: "2", Category: "Bills", Amount: amount("-10")},
		{ID: "3", Category: "Food", Amount: amount("10")},
		{ID: "4", Category: "Bills", Amount: amount("10")},
	}

	assert.Equal(t, []string{"2", "4", "1", "3"}, ids(transaction.Sort(txs, transaction.SortByCategory, transaction.Asc)))
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(transaction.Sort(txs, transaction.SortByCategory, transaction.Desc)))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(transaction.Sort(txs, transaction.SortByAmount, transaction.Desc)))
}

func TestParseSortKey(t *testing.T) {
	key, err := transaction.ParseSortKey(" Amount ")
	require.NoError(t, err)
	assert.Equal(t, transaction.SortByAmount, key)

	_, err = transaction.ParseSortKey("merchant")
	assert.Error(t, err)
}

func TestParseDirection(t *testing.T) {
	dir, err := transaction.ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, transaction.Desc, dir)

	_, err = transaction.ParseDirection("sideways")
	assert.Error(t, err)
}
