// Package param parses loosely typed request values into domain types.
// Every parser rejects malformed input so handlers can answer 400.
package param

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// Date parses a yyyy-MM-dd string. Empty means unset.
func Date(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid date %q, want yyyy-mm-dd", field, s)
	}

	return &t, nil
}

// Decimal parses a plain decimal number. Empty means unset.
func Decimal(field, s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid number %q", field, s)
	}

	return &d, nil
}

func DateRange(start, end string) (transaction.DateRange, error) {
	from, err := Date("start_date", start)
	if err != nil {
		return transaction.DateRange{}, err
	}

	to, err := Date("end_date", end)
	if err != nil {
		return transaction.DateRange{}, err
	}

	return transaction.DateRange{Start: from, End: to}, nil
}

func Types(values []string) ([]transaction.Type, error) {
	out := make([]transaction.Type, 0, len(values))

	for _, v := range values {
		t := transaction.Type(strings.ToLower(strings.TrimSpace(v)))
		if !t.Valid() {
			return nil, fmt.Errorf("types: unknown type %q", v)
		}

		out = append(out, t)
	}

	return out, nil
}

func Statuses(values []string) ([]transaction.Status, error) {
	out := make([]transaction.Status, 0, len(values))

	for _, v := range values {
		s := transaction.Status(strings.ToLower(strings.TrimSpace(v)))
		if !s.Valid() {
			return nil, fmt.Errorf("statuses: unknown status %q", v)
		}

		out = append(out, s)
	}

	return out, nil
}

// Sort parses a sort key and direction. Empty values fall back to date and
// desc.
func Sort(key, dir string) (transaction.SortKey, transaction.Direction, error) {
	k, d := transaction.SortByDate, transaction.Desc

	if strings.TrimSpace(key) != "" {
		var err error
		if k, err = transaction.ParseSortKey(key); err != nil {
			return "", "", err
		}
	}

	if strings.TrimSpace(dir) != "" {
		var err error
		if d, err = transaction.ParseDirection(dir); err != nil {
			return "", "", err
		}
	}

	return k, d, nil
}
