package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// ErrInvalidOptions is wrapped by every precondition failure of Options.
var ErrInvalidOptions = errors.New("invalid export options")

// Format is the output file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func (f Format) Valid() bool {
	switch f {
	case FormatCSV, FormatPDF, FormatXLSX:
		return true
	}

	return false
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Column identifies an exportable transaction field.
type Column string

const (
	ColumnDate        Column = "date"
	ColumnDescription Column = "description"
	ColumnAmount      Column = "amount"
	ColumnCategory    Column = "category"
	ColumnType        Column = "type"
	ColumnStatus      Column = "status"
	ColumnAccount     Column = "account"
	ColumnReference   Column = "reference"
	ColumnMerchant    Column = "merchant"
	ColumnLocation    Column = "location"
)

// Columns is the canonical column order. Output always follows it,
// whatever order the caller asked for.
var Columns = []Column{
	ColumnDate,
	ColumnDescription,
	ColumnAmount,
	ColumnCategory,
	ColumnType,
	ColumnStatus,
	ColumnAccount,
	ColumnReference,
	ColumnMerchant,
	ColumnLocation,
}

var labels = map[Column]string{
	ColumnDate:        "Date",
	ColumnDescription: "Description",
	ColumnAmount:      "Amount",
	ColumnCategory:    "Category",
	ColumnType:        "Type",
	ColumnStatus:      "Status",
	ColumnAccount:     "Account",
	ColumnReference:   "Reference",
	ColumnMerchant:    "Merchant",
	ColumnLocation:    "Location",
}

// Label is the human-readable header for c.
func (c Column) Label() string {
	return labels[c]
}

// Required columns are emitted even when not requested.
func (c Column) Required() bool {
	return c == ColumnDate || c == ColumnDescription || c == ColumnAmount
}

func (c Column) Valid() bool {
	_, ok := labels[c]
	return ok
}

const dateLayout = time.DateOnly

// Value renders the field of tx for c as plain text.
func (c Column) Value(tx transaction.Transaction) string {
	switch c {
	case ColumnDate:
		return tx.Date.Format(dateLayout)
	case ColumnDescription:
		return tx.Description
	case ColumnAmount:
		return tx.Amount.String()
	case ColumnCategory:
		return tx.Category
	case ColumnType:
		return string(tx.Type)
	case ColumnStatus:
		return string(tx.Status)
	case ColumnAccount:
		return tx.Account
	case ColumnReference:
		return tx.Reference
	case ColumnMerchant:
		return tx.Merchant
	case ColumnLocation:
		return tx.Location
	}

	return ""
}

// Options describes one export.
type Options struct {
	Format     Format
	DateRange  transaction.DateRange
	Categories []string // empty = every category
	Columns    []Column
	SortKey    transaction.SortKey
	Direction  transaction.Direction
	Filename   string // empty = transactions_<date>.<ext>
	Title      string // report heading for PDF and XLSX
}

// DefaultOptions exports every column as CSV, newest first.
func DefaultOptions() Options {
	return Options{
		Format:    FormatCSV,
		Columns:   slices.Clone(Columns),
		SortKey:   transaction.SortByDate,
		Direction: transaction.Desc,
	}
}

// Validate reports the first precondition the options violate.
func (o Options) Validate() error {
	if !o.Format.Valid() {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidOptions, o.Format)
	}

	for _, c := range o.Columns {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown column %q", ErrInvalidOptions, c)
		}
	}

	switch o.SortKey {
	case transaction.SortByDate, transaction.SortByAmount, transaction.SortByCategory:
	default:
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidOptions, o.SortKey)
	}

	switch o.Direction {
	case transaction.Asc, transaction.Desc:
	default:
		return fmt.Errorf("%w: unknown sort direction %q", ErrInvalidOptions, o.Direction)
	}

	r := o.DateRange
	if r.Start != nil && r.End != nil && transaction.Day(*r.Start).After(transaction.Day(*r.End)) {
		return fmt.Errorf("%w: date range starts after it ends", ErrInvalidOptions)
	}

	return nil
}

// ResolvedColumns returns the columns to emit: the required ones plus every
// requested one, in canonical order.
func (o Options) ResolvedColumns() []Column {
	out := make([]Column, 0, len(Columns))

	for _, c := range Columns {
		if c.Required() || slices.Contains(o.Columns, c) {
			out = append(out, c)
		}
	}

	return out
}

// DefaultFilename is transactions_<yyyy-MM-dd>.<ext> for the given day.
func DefaultFilename(f Format, now time.Time) string {
	return fmt.Sprintf("transactions_%s.%s", now.Format(dateLayout), f)
}

// ResolveFilename returns a safe base filename for the options, falling
// back to the default and forcing the format's extension.
func (o Options) ResolveFilename(now time.Time) string {
	name := strings.TrimSpace(filepath.Base(o.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return DefaultFilename(o.Format, now)
	}

	ext := "." + string(o.Format)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}

		return '_'
	}, name)

	return safe + ext
}
