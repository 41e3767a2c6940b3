package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// Relative column widths; scaled to the printable page width.
var pdfWidths = map[Column]float64{
	ColumnDate:        22,
	ColumnDescription: 60,
	ColumnAmount:      24,
	ColumnCategory:    30,
	ColumnType:        18,
	ColumnStatus:      20,
	ColumnAccount:     30,
	ColumnReference:   28,
	ColumnMerchant:    30,
	ColumnLocation:    34,
}

const (
	pdfRowHeight  = 6.0
	pdfCellMargin = 1.5
)

func writePDF(w io.Writer, rows []transaction.Transaction, cols []Column, title string, sum Summary) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	// Core fonts are cp1252; translate so accented descriptions survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, pdfRowHeight, fmt.Sprintf("Transactions: %d", sum.Count), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, pdfRowHeight, "Total amount: "+sum.Total.StringFixed(2), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, pdfRowHeight, "Date range: "+sum.DateRange, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := scaleWidths(pdf, cols)
	amountIdx := amountColumn(cols)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)

	for i, label := range header(cols) {
		pdf.CellFormat(widths[i], pdfRowHeight+1, label, "1", 0, "C", true, 0, "")
	}

	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)

	for _, tx := range rows {
		for i, value := range record(tx, cols) {
			align := "L"
			if i == amountIdx {
				align = "R"
			}

			pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, tr(value), widths[i]), "1", 0, align, false, 0, "")
		}

		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}

	return nil
}

func scaleWidths(pdf *fpdf.Fpdf, cols []Column) []float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	avail := pageW - left - right

	var total float64
	for _, c := range cols {
		total += pdfWidths[c]
	}

	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = pdfWidths[c] * avail / total
	}

	return out
}

// fit truncates s with an ellipsis so it fits inside a cell of width w.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	limit := w - 2*pdfCellMargin
	if pdf.GetStringWidth(s) <= limit {
		return s
	}

	// s is already cp1252, one byte per glyph.
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}

	return s + "..."
}
