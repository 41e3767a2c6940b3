package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

// Uncategorized is the category given to transactions nobody has
// categorized yet.
const Uncategorized = "Uncategorized"

// Type represents the kind of money movement.
type Type string

const (
	TypeIncome   Type = "income"
	TypeExpense  Type = "expense"
	TypeTransfer Type = "transfer"
)

// Types lists every known Type in display order.
var Types = []Type{TypeIncome, TypeExpense, TypeTransfer}

func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}

	return false
}

// Status represents the settlement state of a transaction.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

// Statuses lists every known Status in display order.
var Statuses = []Status{StatusCompleted, StatusPending, StatusFailed}

func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed:
		return true
	}

	return false
}

// Transaction is a single money movement. Values are treated as immutable;
// changes are made by replacing the whole record.
type Transaction struct {
	ID          string
	Date        time.Time
	Description string
	Amount      decimal.Decimal // positive = inflow, negative = outflow
	Category    string
	Type        Type
	Status      Status
	Account     string

	// Optional. Empty means absent.
	Reference string
	Merchant  string
	Location  string
}

// WithCategory returns a copy of tx assigned to category.
func (tx Transaction) WithCategory(category string) Transaction {
	tx.Category = category
	return tx
}

// HasMerchant reports whether a non-blank merchant is present.
func (tx Transaction) HasMerchant() bool {
	return present(tx.Merchant)
}

// HasReference reports whether a non-blank reference is present.
func (tx Transaction) HasReference() bool {
	return present(tx.Reference)
}

// HasLocation reports whether a non-blank location is present.
func (tx Transaction) HasLocation() bool {
	return present(tx.Location)
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
