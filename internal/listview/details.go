package listview

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// Details is the derived data shown when a single transaction is opened.
type Details struct {
	Transaction transaction.Transaction

	// Expense outflow in the same category from January 1st up to and
	// including the transaction's date.
	CategorySpendYTD decimal.Decimal
	CategoryCountYTD int

	// Other transactions with the same merchant, newest first. Empty when
	// the transaction has no merchant.
	MerchantHistory []transaction.Transaction
}

// Details aggregates over the full set, not only the visible rows.
func (v *View) Details(id string) (Details, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var (
		target transaction.Transaction
		found  bool
	)

	for _, tx := range v.all {
		if tx.ID == id {
			target, found = tx, true
			break
		}
	}

	if !found {
		return Details{}, transaction.ErrNotFound
	}

	d := Details{
		Transaction:      target,
		CategorySpendYTD: decimal.Zero,
		MerchantHistory:  []transaction.Transaction{},
	}

	day := transaction.Day(target.Date)

	var history []transaction.Transaction

	for _, tx := range v.all {
		txDay := transaction.Day(tx.Date)

		if tx.Type == transaction.TypeExpense &&
			tx.Category == target.Category &&
			txDay.Year() == day.Year() &&
			!txDay.After(day) {
			d.CategorySpendYTD = d.CategorySpendYTD.Add(tx.Amount.Abs())
			d.CategoryCountYTD++
		}

		if target.HasMerchant() && tx.ID != target.ID && tx.Merchant == target.Merchant {
			history = append(history, tx)
		}
	}

	if len(history) > 0 {
		d.MerchantHistory = transaction.Sort(history, transaction.SortByDate, transaction.Desc)
	}

	return d, nil
}
