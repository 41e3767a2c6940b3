package transaction

import (
	"github.com/MrJamesThe3rd/finboard/internal/http/param"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type criteriaRequest struct {
	Search       string   `json:"search"`
	Categories   []string `json:"categories"`
	Types        []string `json:"types"`
	Statuses     []string `json:"statuses"`
	Accounts     []string `json:"accounts"`
	Merchants    []string `json:"merchants"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	MinAmount    string   `json:"min_amount"`
	MaxAmount    string   `json:"max_amount"`
	HasLocation  *bool    `json:"has_location"`
	HasReference *bool    `json:"has_reference"`
}

func (req criteriaRequest) toCriteria() (transaction.Criteria, error) {
	types, err := param.Types(req.Types)
	if err != nil {
		return transaction.Criteria{}, err
	}

	statuses, err := param.Statuses(req.Statuses)
	if err != nil {
		return transaction.Criteria{}, err
	}

	dates, err := param.DateRange(req.StartDate, req.EndDate)
	if err != nil {
		return transaction.Criteria{}, err
	}

	minAmount, err := param.Decimal("min_amount", req.MinAmount)
	if err != nil {
		return transaction.Criteria{}, err
	}

	maxAmount, err := param.Decimal("max_amount", req.MaxAmount)
	if err != nil {
		return transaction.Criteria{}, err
	}

	return transaction.Criteria{
		SearchTerm:   req.Search,
		Categories:   req.Categories,
		Types:        types,
		Statuses:     statuses,
		Accounts:     req.Accounts,
		Merchants:    req.Merchants,
		DateRange:    dates,
		AmountRange:  transaction.AmountRange{Min: minAmount, Max: maxAmount},
		HasLocation:  req.HasLocation,
		HasReference: req.HasReference,
	}, nil
}

type sortRequest struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

const (
	selectionSelect   = "select"
	selectionDeselect = "deselect"
	selectionToggle   = "toggle"
	selectionAll      = "all"
	selectionClear    = "clear"
)

type selectionRequest struct {
	Action string   `json:"action"`
	IDs    []string `json:"ids"`
}
