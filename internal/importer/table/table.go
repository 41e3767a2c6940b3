// Package table locates the header row of a CSV statement and reads cells
// by column name.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/finboard/internal/encoding"
)

// Read decodes r to UTF-8 and returns every record. Rows may have differing
// lengths and quotes are read leniently, as bank exports need.
func Read(r io.Reader, comma rune) ([][]string, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// Header maps a trimmed column name to its index.
type Header map[string]int

func NewHeader(row []string, fold bool) Header {
	h := make(Header, len(row))

	for i, cell := range row {
		name := strings.TrimSpace(cell)
		if fold {
			name = strings.ToLower(name)
		}

		if name == "" {
			continue
		}

		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}

	return h
}

// Has reports whether every name is a column.
func (h Header) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := h[n]; !ok {
			return false
		}
	}

	return true
}

// Index returns the column of name, or -1.
func (h Header) Index(name string) int {
	if i, ok := h[name]; ok {
		return i
	}

	return -1
}

// Find returns the first row accepted by match, parsed as a header, and its
// index. Preamble rows before the header are skipped.
func Find(rows [][]string, fold bool, match func(Header) bool) (Header, int, bool) {
	for i, row := range rows {
		h := NewHeader(row, fold)
		if match(h) {
			return h, i, true
		}
	}

	return nil, 0, false
}

// Cell returns the trimmed value at idx, or "" when out of range.
func Cell(row []string, idx int) string {
	return strings.TrimSpace(RawCell(row, idx))
}

// RawCell returns the value at idx as written, or "" when out of range.
func RawCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return row[idx]
}
