// Package native reads back the CSV files written by the export package.
package native

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/importer/table"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const (
	DefaultAccount  = "Imported"
	DefaultCategory = transaction.Uncategorized
)

var ErrMissingColumns = errors.New("missing required columns: Date, Description, Amount")

type Parser struct {
	account string
}

func NewParser(account string) *Parser {
	if account == "" {
		account = DefaultAccount
	}

	return &Parser{account: account}
}

func key(c export.Column) string {
	return strings.ToLower(c.Label())
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	rows, err := table.Read(r, ',')
	if err != nil {
		return nil, err
	}

	header, headerIdx, ok := table.Find(rows, true, func(h table.Header) bool {
		return h.Has(key(export.ColumnDate), key(export.ColumnDescription), key(export.ColumnAmount))
	})
	if !ok {
		return nil, ErrMissingColumns
	}

	col := make(map[export.Column]int, len(export.Columns))
	for _, c := range export.Columns {
		col[c] = header.Index(key(c))
	}

	out := make([]transaction.CreateParams, 0, len(rows)-headerIdx-1)

	for i, row := range rows[headerIdx+1:] {
		line := headerIdx + i + 2
		cell := func(c export.Column) string { return table.Cell(row, col[c]) }
		text := func(c export.Column) string { return table.RawCell(row, col[c]) }

		date, err := time.Parse(time.DateOnly, cell(export.ColumnDate))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q", line, cell(export.ColumnDate))
		}

		amount, err := decimal.NewFromString(cell(export.ColumnAmount))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q", line, cell(export.ColumnAmount))
		}

		desc := text(export.ColumnDescription)
		if strings.TrimSpace(desc) == "" {
			return nil, fmt.Errorf("line %d: missing description", line)
		}

		params := transaction.CreateParams{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Category:    text(export.ColumnCategory),
			Type:        transaction.Type(strings.ToLower(cell(export.ColumnType))),
			Status:      transaction.Status(strings.ToLower(cell(export.ColumnStatus))),
			Account:     text(export.ColumnAccount),
			Reference:   text(export.ColumnReference),
			Merchant:    text(export.ColumnMerchant),
			Location:    text(export.ColumnLocation),
		}

		// Without a Category column every row is uncategorized. With one,
		// an empty cell stays empty.
		if col[export.ColumnCategory] < 0 {
			params.Category = DefaultCategory
		}

		p.fillDefaults(&params)
		out = append(out, params)
	}

	return out, nil
}

func (p *Parser) fillDefaults(params *transaction.CreateParams) {
	if strings.TrimSpace(params.Account) == "" {
		params.Account = p.account
	}

	if !params.Type.Valid() {
		params.Type = transaction.TypeIncome
		if params.Amount.IsNegative() {
			params.Type = transaction.TypeExpense
		}
	}

	if !params.Status.Valid() {
		params.Status = transaction.StatusCompleted
	}
}
