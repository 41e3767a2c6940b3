package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/listview"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type transactionResponse struct {
	ID          string             `json:"id"`
	Date        string             `json:"date"`
	Description string             `json:"description"`
	Amount      decimal.Decimal    `json:"amount"`
	Category    string             `json:"category"`
	Type        transaction.Type   `json:"type"`
	Status      transaction.Status `json:"status"`
	Account     string             `json:"account"`
	Reference   string             `json:"reference,omitempty"`
	Merchant    string             `json:"merchant,omitempty"`
	Location    string             `json:"location,omitempty"`
	Selected    bool               `json:"selected"`
}

type summaryResponse struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	TransactionCount int             `json:"transaction_count"`
}

type listResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Summary      summaryResponse       `json:"summary"`
	Selected     []string              `json:"selected"`
	SortKey      transaction.SortKey   `json:"sort_key"`
	Direction    transaction.Direction `json:"direction"`
}

type optionsResponse struct {
	Categories []string `json:"categories"`
	Accounts   []string `json:"accounts"`
	Merchants  []string `json:"merchants"`
}

type detailsResponse struct {
	Transaction      transactionResponse   `json:"transaction"`
	CategorySpendYTD decimal.Decimal       `json:"category_spend_ytd"`
	CategoryCountYTD int                   `json:"category_count_ytd"`
	MerchantHistory  []transactionResponse `json:"merchant_history"`
}

type selectionResponse struct {
	Selected []string `json:"selected"`
}

func toResponse(tx transaction.Transaction, selected bool) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.Format(time.DateOnly),
		Description: tx.Description,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Type:        tx.Type,
		Status:      tx.Status,
		Account:     tx.Account,
		Reference:   tx.Reference,
		Merchant:    tx.Merchant,
		Location:    tx.Location,
		Selected:    selected,
	}
}

func toSummaryResponse(s transaction.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:      s.TotalIncome,
		TotalExpenses:    s.TotalExpenses,
		NetAmount:        s.NetAmount,
		TransactionCount: s.TransactionCount,
	}
}

func toListResponse(v *listview.View) listResponse {
	selected := v.SelectedIDs()
	isSelected := make(map[string]bool, len(selected))

	for _, id := range selected {
		isSelected[id] = true
	}

	visible := v.Visible()
	txs := make([]transactionResponse, len(visible))

	for i, tx := range visible {
		txs[i] = toResponse(tx, isSelected[tx.ID])
	}

	key, dir := v.Sort()

	return listResponse{
		Transactions: txs,
		Summary:      toSummaryResponse(v.Summary()),
		Selected:     selected,
		SortKey:      key,
		Direction:    dir,
	}
}

func toDetailsResponse(d listview.Details) detailsResponse {
	history := make([]transactionResponse, len(d.MerchantHistory))
	for i, tx := range d.MerchantHistory {
		history[i] = toResponse(tx, false)
	}

	return detailsResponse{
		Transaction:      toResponse(d.Transaction, false),
		CategorySpendYTD: d.CategorySpendYTD,
		CategoryCountYTD: d.CategoryCountYTD,
		MerchantHistory:  history,
	}
}
