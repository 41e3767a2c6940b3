// Package listview holds the state behind a transaction list: the full set,
// the active filter and sort, the derived visible rows and summary, and the
// user's selection.
package listview

import (
	"reflect"
	"slices"
	"sync"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// Options are the distinct values present in the full set, sorted, used to
// populate filter pickers.
type Options struct {
	Categories []string
	Accounts   []string
	Merchants  []string
}

// View is safe for concurrent use; every method serializes on one lock.
type View struct {
	mu sync.Mutex

	all     []transaction.Transaction
	version uint64
	options Options

	criteria transaction.Criteria
	key      transaction.SortKey
	dir      transaction.Direction

	visible  []transaction.Transaction
	summary  transaction.Summary
	selected map[string]struct{}
}

// New returns a view over txs sorted newest first with no filter.
func New(txs []transaction.Transaction) *View {
	v := &View{
		key:      transaction.SortByDate,
		dir:      transaction.Desc,
		selected: make(map[string]struct{}),
	}

	v.replace(txs)

	return v
}

// Replace swaps in a fresh copy of the underlying set, as after a refresh
// from the source.
func (v *View) Replace(txs []transaction.Transaction) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.replace(txs)
}

func (v *View) replace(txs []transaction.Transaction) {
	v.all = slices.Clone(txs)
	v.setChanged()
}

// setChanged must follow every change to v.all.
func (v *View) setChanged() {
	v.version++
	v.options = collectOptions(v.all)
	v.recompute()
}

func collectOptions(txs []transaction.Transaction) Options {
	categories := make(map[string]struct{})
	accounts := make(map[string]struct{})
	merchants := make(map[string]struct{})

	for _, tx := range txs {
		if tx.Category != "" {
			categories[tx.Category] = struct{}{}
		}

		if tx.Account != "" {
			accounts[tx.Account] = struct{}{}
		}

		if tx.HasMerchant() {
			merchants[tx.Merchant] = struct{}{}
		}
	}

	return Options{
		Categories: sortedKeys(categories),
		Accounts:   sortedKeys(accounts),
		Merchants:  sortedKeys(merchants),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	slices.Sort(out)

	return out
}

func (v *View) recompute() {
	v.visible = transaction.Sort(transaction.Filter(v.all, v.criteria), v.key, v.dir)
	v.summary = transaction.Summarize(v.visible)

	if len(v.selected) == 0 {
		return
	}

	keep := make(map[string]struct{}, len(v.selected))

	for _, tx := range v.visible {
		if _, ok := v.selected[tx.ID]; ok {
			keep[tx.ID] = struct{}{}
		}
	}

	v.selected = keep
}

// SetCriteria applies a new filter. Nothing is recomputed when c equals the
// active criteria.
func (v *View) SetCriteria(c transaction.Criteria) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if reflect.DeepEqual(v.criteria, c) {
		return
	}

	v.criteria = c
	v.recompute()
}

func (v *View) Criteria() transaction.Criteria {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.criteria
}

func (v *View) SetSort(key transaction.SortKey, dir transaction.Direction) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.key == key && v.dir == dir {
		return
	}

	v.key, v.dir = key, dir
	v.recompute()
}

func (v *View) Sort() (transaction.SortKey, transaction.Direction) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.key, v.dir
}

// Visible returns the filtered, sorted rows.
func (v *View) Visible() []transaction.Transaction {
	v.mu.Lock()
	defer v.mu.Unlock()

	return slices.Clone(v.visible)
}

// All returns the full underlying set regardless of filters.
func (v *View) All() []transaction.Transaction {
	v.mu.Lock()
	defer v.mu.Unlock()

	return slices.Clone(v.all)
}

// Summary aggregates the visible rows only.
func (v *View) Summary() transaction.Summary {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.summary
}

func (v *View) FilterOptions() Options {
	v.mu.Lock()
	defer v.mu.Unlock()

	return Options{
		Categories: slices.Clone(v.options.Categories),
		Accounts:   slices.Clone(v.options.Accounts),
		Merchants:  slices.Clone(v.options.Merchants),
	}
}

// Version increases every time the underlying set changes.
func (v *View) Version() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.version
}

// Recategorize assigns category to every transaction in ids.
func (v *View) Recategorize(ids []string, category string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, tx := range v.all {
		if slices.Contains(ids, tx.ID) {
			v.all[i] = tx.WithCategory(category)
		}
	}

	v.setChanged()
}

// Remove drops every transaction in ids from the underlying set.
func (v *View) Remove(ids []string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.all = slices.DeleteFunc(v.all, func(tx transaction.Transaction) bool {
		return slices.Contains(ids, tx.ID)
	})

	for _, id := range ids {
		delete(v.selected, id)
	}

	v.setChanged()
}

// Transactions returns the records for ids in their source order. Unknown
// ids are skipped.
func (v *View) Transactions(ids []string) []transaction.Transaction {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]transaction.Transaction, 0, len(ids))

	for _, tx := range v.all {
		if slices.Contains(ids, tx.ID) {
			out = append(out, tx)
		}
	}

	return out
}
