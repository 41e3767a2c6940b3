package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const defaultTitle = "Transactions"

// Summary describes the rows an export would contain.
type Summary struct {
	Count     int
	Total     decimal.Decimal
	DateRange string
}

// Filter keeps the transactions inside the options' date range and category
// subset, in input order. The list view's own criteria play no part here.
func Filter(txs []transaction.Transaction, opts Options) []transaction.Transaction {
	return transaction.Filter(txs, transaction.Criteria{
		DateRange:  opts.DateRange,
		Categories: opts.Categories,
	})
}

// Write filters txs by the options and renders the result.
func Write(w io.Writer, txs []transaction.Transaction, opts Options) error {
	return render(w, Filter(txs, opts), opts, opts.DateRange)
}

// Render writes rows as they are, sorted per the options. The options' date
// range and categories are ignored.
func Render(w io.Writer, rows []transaction.Transaction, opts Options) error {
	return render(w, rows, opts, transaction.DateRange{})
}

func render(w io.Writer, rows []transaction.Transaction, opts Options, bounds transaction.DateRange) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	sorted := transaction.Sort(rows, opts.SortKey, opts.Direction)
	cols := opts.ResolvedColumns()

	switch opts.Format {
	case FormatPDF:
		return writePDF(w, sorted, cols, opts.title(), summarize(sorted, bounds))
	case FormatXLSX:
		return writeXLSX(w, sorted, cols, opts.title(), summarize(sorted, bounds))
	default:
		return writeCSV(w, sorted, cols)
	}
}

func (o Options) title() string {
	if o.Title == "" {
		return defaultTitle
	}

	return o.Title
}

// Preview computes what Write would emit without rendering anything.
func Preview(txs []transaction.Transaction, opts Options) Summary {
	return summarize(Filter(txs, opts), opts.DateRange)
}

func summarize(rows []transaction.Transaction, bounds transaction.DateRange) Summary {
	var first, last *time.Time

	if lo, hi, ok := transaction.Span(rows); ok {
		first, last = &lo, &hi
	}

	if bounds.Start != nil {
		first = new(transaction.Day(*bounds.Start))
	}

	if bounds.End != nil {
		last = new(transaction.Day(*bounds.End))
	}

	return Summary{
		Count:     len(rows),
		Total:     transaction.Total(rows),
		DateRange: describeRange(first, last),
	}
}

func describeRange(first, last *time.Time) string {
	switch {
	case first != nil && last != nil:
		return fmt.Sprintf("%s to %s", first.Format(dateLayout), last.Format(dateLayout))
	case first != nil:
		return "From " + first.Format(dateLayout)
	case last != nil:
		return "Until " + last.Format(dateLayout)
	default:
		return "All time"
	}
}

func header(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Label()
	}

	return out
}

func record(tx transaction.Transaction, cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Value(tx)
	}

	return out
}

func writeCSV(w io.Writer, rows []transaction.Transaction, cols []Column) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header(cols)); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, tx := range rows {
		if err := cw.Write(record(tx, cols)); err != nil {
			return fmt.Errorf("writing csv row %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// amountColumn reports the index of the amount column, which is always
// present.
func amountColumn(cols []Column) int {
	return slices.Index(cols, ColumnAmount)
}
