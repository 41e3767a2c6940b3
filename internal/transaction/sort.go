package transaction

import (
	"fmt"
	"slices"
	"strings"
)

// SortKey is the field a transaction list is ordered by.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByAmount   SortKey = "amount"
	SortByCategory SortKey = "category"
)

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByDate, SortByAmount, SortByCategory:
		return k, nil
	}

	return "", fmt.Errorf("unknown sort key %q", s)
}

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Asc, Desc:
		return d, nil
	}

	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Compare orders a and b ascending by key. Amounts compare by magnitude.
func Compare(a, b Transaction, key SortKey) int {
	switch key {
	case SortByAmount:
		return a.Amount.Abs().Cmp(b.Amount.Abs())
	case SortByCategory:
		return strings.Compare(a.Category, b.Category)
	default:
		return Day(a.Date).Compare(Day(b.Date))
	}
}

// Sort returns a sorted copy of txs. The sort is stable in both directions:
// transactions with equal keys keep their relative input order.
func Sort(txs []Transaction, key SortKey, dir Direction) []Transaction {
	out := slices.Clone(txs)

	slices.SortStableFunc(out, func(a, b Transaction) int {
		if dir == Desc {
			return -Compare(a, b, key)
		}

		return Compare(a, b, key)
	})

	return out
}
