// Package cgd parses Caixa Geral de Depósitos CSV exports. The account,
// statement and card flavours are told apart by their header row.
package cgd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/importer/table"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const (
	DefaultAccount = "CGD"
	dateLayout     = "02-01-2006"
)

var ErrUnknownLayout = errors.New("no matching CGD format found: expected columns for conta, extrato, or cartão")

type Parser struct {
	account string
}

func NewParser(account string) *Parser {
	if account == "" {
		account = DefaultAccount
	}

	return &Parser{account: account}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	rows, err := table.Read(r, ';')
	if err != nil {
		return nil, err
	}

	var l layout

	header, headerIdx, ok := table.Find(rows, false, func(h table.Header) bool {
		for _, candidate := range layouts {
			if h.Has(candidate.columns()...) {
				l = candidate
				return true
			}
		}

		return false
	})
	if !ok {
		return nil, ErrUnknownLayout
	}

	dateIdx := header.Index(l.date)
	descIdx := header.Index(l.desc)

	var out []transaction.CreateParams

	for i, row := range rows[headerIdx+1:] {
		line := headerIdx + i + 2

		// Footer and page-break rows carry no parseable date.
		date, err := time.Parse(dateLayout, table.Cell(row, dateIdx))
		if err != nil {
			continue
		}

		desc := table.Cell(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("line %d: missing description", line)
		}

		amount, ok := l.amountOf(header, row)
		if !ok {
			continue
		}

		txType := transaction.TypeIncome
		if amount.IsNegative() {
			txType = transaction.TypeExpense
		}

		out = append(out, transaction.CreateParams{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Category:    transaction.Uncategorized,
			Type:        txType,
			Status:      transaction.StatusCompleted,
			Account:     p.account,
		})
	}

	return out, nil
}

// amountOf returns the signed amount of row. Debits come back negative.
// Rows with no usable non-zero amount report false.
func (l layout) amountOf(h table.Header, row []string) (decimal.Decimal, bool) {
	if l.mode == amountSigned {
		return nonZero(table.Cell(row, h.Index(l.amount)))
	}

	if d, ok := nonZero(table.Cell(row, h.Index(l.debit))); ok {
		return d.Abs().Neg(), true
	}

	if c, ok := nonZero(table.Cell(row, h.Index(l.credit))); ok {
		return c.Abs(), true
	}

	return decimal.Zero, false
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}
