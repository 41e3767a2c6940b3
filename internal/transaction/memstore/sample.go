package memstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// Sample returns the demo data set the dashboard ships with.
func Sample() []transaction.Transaction {
	day := func(m time.Month, d int) time.Time {
		return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
	}

	type row struct {
		id, desc, amount, category string
		date                       time.Time
		typ                        transaction.Type
		status                     transaction.Status
		account, ref, merchant     string
		location                   string
	}

	rows := []row{
		{"tx-001", "Whole Foods Market", "-85.32", "Food & Dining", day(time.March, 15), transaction.TypeExpense, transaction.StatusCompleted, "Chase Checking", "", "Whole Foods", "San Francisco, CA"},
		{"tx-002", "Salary Deposit", "3500.00", "Income", day(time.March, 15), transaction.TypeIncome, transaction.StatusCompleted, "Chase Checking", "DD-240315", "", ""},
		{"tx-003", "Netflix Subscription", "-15.99", "Entertainment", day(time.March, 14), transaction.TypeExpense, transaction.StatusCompleted, "Credit Card", "", "Netflix", ""},
		{"tx-004", "Transfer to Savings", "-500.00", "Transfer", day(time.March, 14), transaction.TypeTransfer, transaction.StatusCompleted, "Chase Checking", "TRF-88213", "", ""},
		{"tx-005", "Shell Gas Station", "-45.67", "Transportation", day(time.March, 13), transaction.TypeExpense, transaction.StatusCompleted, "Credit Card", "", "Shell", "Oakland, CA"},
		{"tx-006", "Freelance Payment", "1250.00", "Income", day(time.March, 12), transaction.TypeIncome, transaction.StatusPending, "Business Account", "INV-2024-031", "Acme Corp", ""},
		{"tx-007", "Amazon Purchase", "-129.99", "Shopping", day(time.March, 12), transaction.TypeExpense, transaction.StatusCompleted, "Credit Card", "AMZ-113-552", "Amazon", ""},
		{"tx-008", "Starbucks", "-6.45", "Food & Dining", day(time.March, 11), transaction.TypeExpense, transaction.StatusCompleted, "Credit Card", "", "Starbucks", "San Francisco, CA"},
		{"tx-009", "Electric Bill", "-142.18", "Utilities", day(time.March, 10), transaction.TypeExpense, transaction.StatusCompleted, "Chase Checking", "PGE-0310", "PG&E", ""},
		{"tx-010", "Gym Membership", "-49.99", "Health & Fitness", day(time.March, 9), transaction.TypeExpense, transaction.StatusFailed, "Credit Card", "", "Equinox", ""},
		{"tx-011", "Rent Payment", "-2200.00", "Housing", day(time.March, 1), transaction.TypeExpense, transaction.StatusCompleted, "Chase Checking", "RENT-0324", "", ""},
		{"tx-012", "Dividend Payout", "84.12", "Investments", day(time.February, 28), transaction.TypeIncome, transaction.StatusCompleted, "Brokerage", "DIV-Q1", "Vanguard", ""},
		{"tx-013", "Trader Joe's", "-62.10", "Food & Dining", day(time.February, 26), transaction.TypeExpense, transaction.StatusCompleted, "Chase Checking", "", "Trader Joe's", "Berkeley, CA"},
		{"tx-014", "Uber Ride", "-23.40", "Transportation", day(time.February, 24), transaction.TypeExpense, transaction.StatusCompleted, "Credit Card", "", "Uber", "San Francisco, CA"},
		{"tx-015", "Whole Foods Market", "-54.80", "Food & Dining", day(time.February, 20), transaction.TypeExpense, transaction.StatusCompleted, "Credit Card", "", "Whole Foods", "San Francisco, CA"},
		{"tx-016", "Salary Deposit", "3500.00", "Income", day(time.February, 15), transaction.TypeIncome, transaction.StatusCompleted, "Chase Checking", "DD-240215", "", ""},
		{"tx-017", "Credit Card Payment", "-812.44", "Transfer", day(time.February, 12), transaction.TypeTransfer, transaction.StatusPending, "Chase Checking", "CC-PMT-0212", "", ""},
		{"tx-018", "Pharmacy", "-18.25", "Health & Fitness", day(time.February, 8), transaction.TypeExpense, transaction.StatusCompleted, "Credit Card", "", "CVS", "Oakland, CA"},
	}

	txs := make([]transaction.Transaction, len(rows))
	for i, r := range rows {
		txs[i] = transaction.Transaction{
			ID:          r.id,
			Date:        r.date,
			Description: r.desc,
			Amount:      decimal.RequireFromString(r.amount),
			Category:    r.category,
			Type:        r.typ,
			Status:      r.status,
			Account:     r.account,
			Reference:   r.ref,
			Merchant:    r.merchant,
			Location:    r.location,
		}
	}

	return txs
}
