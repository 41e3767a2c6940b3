package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary aggregates a set of transactions.
type Summary struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal // magnitude of expense outflows
	NetAmount        decimal.Decimal
	TransactionCount int
}

// Summarize aggregates txs. Transfers only contribute to the net amount and
// the count.
func Summarize(txs []Transaction) Summary {
	s := Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		NetAmount:     decimal.Zero,
	}

	for _, tx := range txs {
		switch tx.Type {
		case TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case TypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount.Abs())
		}

		s.NetAmount = s.NetAmount.Add(tx.Amount)
		s.TransactionCount++
	}

	return s
}

// Total returns the signed sum of all amounts.
func Total(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}

	return total
}

// Span returns the earliest and latest calendar dates in txs. ok is false
// for an empty slice.
func Span(txs []Transaction) (first, last time.Time, ok bool) {
	if len(txs) == 0 {
		return time.Time{}, time.Time{}, false
	}

	first, last = Day(txs[0].Date), Day(txs[0].Date)

	for _, tx := range txs[1:] {
		d := Day(tx.Date)
		if d.Before(first) {
			first = d
		}

		if d.After(last) {
			last = d
		}
	}

	return first, last, true
}
