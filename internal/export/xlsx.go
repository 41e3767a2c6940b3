package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const (
	sheetTransactions = "Transactions"
	sheetSummary      = "Summary"
)

func writeXLSX(w io.Writer, rows []transaction.Transaction, cols []Column, title string, sum Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTransactions); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	for i, label := range header(cols) {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetTransactions, cell, label); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := f.SetCellStyle(sheetTransactions, "A1", last, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for r, tx := range rows {
		row := r + 2

		for i, c := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)

			var value any = c.Value(tx)
			if c == ColumnAmount {
				value = tx.Amount.InexactFloat64()
			}

			if err := f.SetCellValue(sheetTransactions, cell, value); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}

			if c == ColumnAmount {
				if err := f.SetCellStyle(sheetTransactions, cell, cell, money); err != nil {
					return fmt.Errorf("styling amount: %w", err)
				}
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(cols))
	if err := f.SetColWidth(sheetTransactions, "A", lastCol, 18); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	summaryRows := [][]any{
		{title},
		{"Transactions", sum.Count},
		{"Total amount", sum.Total.InexactFloat64()},
		{"Date range", sum.DateRange},
	}

	for i, values := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &values); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	if err := f.SetCellStyle(sheetSummary, "A1", "A4", bold); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}

	return nil
}
