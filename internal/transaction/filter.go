package transaction

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateRange bounds transaction dates by calendar day. Both ends are
// inclusive; a nil end is unbounded.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	day := Day(t)

	if r.Start != nil && day.Before(Day(*r.Start)) {
		return false
	}

	if r.End != nil && day.After(Day(*r.End)) {
		return false
	}

	return true
}

// AmountRange bounds the absolute value of an amount. Both ends are
// inclusive; a nil end is unbounded.
type AmountRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// IsZero reports whether neither bound is set.
func (r AmountRange) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// Contains reports whether |amount| falls inside the range.
func (r AmountRange) Contains(amount decimal.Decimal) bool {
	abs := amount.Abs()

	if r.Min != nil && abs.LessThan(*r.Min) {
		return false
	}

	if r.Max != nil && abs.GreaterThan(*r.Max) {
		return false
	}

	return true
}

// Criteria is the filter state of a list view. The zero value matches
// every transaction. Empty sets place no restriction.
type Criteria struct {
	SearchTerm string

	Categories []string
	Types      []Type
	Statuses   []Status
	Accounts   []string
	Merchants  []string

	DateRange   DateRange
	AmountRange AmountRange

	// nil = no constraint, true = must be present, false = must be absent.
	HasLocation  *bool
	HasReference *bool
}

// IsZero reports whether no criterion is active.
func (c Criteria) IsZero() bool {
	return c.SearchTerm == "" &&
		len(c.Categories) == 0 &&
		len(c.Types) == 0 &&
		len(c.Statuses) == 0 &&
		len(c.Accounts) == 0 &&
		len(c.Merchants) == 0 &&
		c.DateRange.IsZero() &&
		c.AmountRange.IsZero() &&
		c.HasLocation == nil &&
		c.HasReference == nil
}

// Matches reports whether tx passes every active criterion. Checks run in a
// fixed order and stop at the first failure.
func Matches(tx Transaction, c Criteria) bool {
	// The term is matched as typed, spaces included.
	if c.SearchTerm != "" && !matchesSearch(tx, c.SearchTerm) {
		return false
	}

	if len(c.Categories) > 0 && !slices.Contains(c.Categories, tx.Category) {
		return false
	}

	if len(c.Types) > 0 && !slices.Contains(c.Types, tx.Type) {
		return false
	}

	if len(c.Statuses) > 0 && !slices.Contains(c.Statuses, tx.Status) {
		return false
	}

	if len(c.Accounts) > 0 && !slices.Contains(c.Accounts, tx.Account) {
		return false
	}

	// A transaction without a merchant cannot be a member of the set.
	if len(c.Merchants) > 0 && (!tx.HasMerchant() || !slices.Contains(c.Merchants, tx.Merchant)) {
		return false
	}

	if !c.DateRange.Contains(tx.Date) {
		return false
	}

	if !c.AmountRange.Contains(tx.Amount) {
		return false
	}

	if c.HasLocation != nil && *c.HasLocation != tx.HasLocation() {
		return false
	}

	if c.HasReference != nil && *c.HasReference != tx.HasReference() {
		return false
	}

	return true
}

func matchesSearch(tx Transaction, term string) bool {
	needle := strings.ToLower(term)

	for _, field := range []string{tx.Description, tx.Merchant, tx.Category, tx.Reference} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}

	return false
}

// Filter returns the transactions matching c in their original order.
func Filter(txs []Transaction, c Criteria) []Transaction {
	out := make([]Transaction, 0, len(txs))

	for _, tx := range txs {
		if Matches(tx, c) {
			out = append(out, tx)
		}
	}

	return out
}
