package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
	matchSvc  *matching.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, matchSvc *matching.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
		matchSvc:  matchSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type paramsDTO struct {
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
}

type transactionDTO struct {
	ID string `json:"id"`
	paramsDTO
}

type importSuccessResponse struct {
	Imported     int              `json:"imported"`
	Categorized  int              `json:"categorized"`
	Transactions []transactionDTO `json:"transactions"`
}

type conflictDTO struct {
	Incoming paramsDTO      `json:"incoming"`
	Existing transactionDTO `json:"existing"`
}

type importConflictResponse struct {
	New       []paramsDTO   `json:"new"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type confirmRequest struct {
	Params []paramsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format, err := importer.ParseFormat(r.FormValue("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	categorized := h.matchSvc.Apply(r.Context(), params)

	result, err := h.txSvc.ImportBatch(r.Context(), params)
	if err != nil {
		slog.Error("failed to import transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]paramsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTransactionDTO(&c.Existing),
			})
		}

		writeJSON(w, http.StatusConflict, resp)

		return
	}

	writeJSON(w, http.StatusCreated, toSuccessResponse(result.Imported, categorized))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))

	for _, p := range req.Params {
		cp, err := p.toParams()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		params = append(params, cp)
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		slog.Error("failed to create transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toSuccessResponse(txs, 0))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (p paramsDTO) toParams() (transaction.CreateParams, error) {
	date, err := time.Parse(time.DateOnly, p.Date)
	if err != nil {
		return transaction.CreateParams{}, err
	}

	status := p.Status
	if !status.Valid() {
		status = transaction.StatusCompleted
	}

	category := p.Category
	if category == "" {
		category = transaction.Uncategorized
	}

	return transaction.CreateParams{
		Date:        date,
		Description: p.Description,
		Amount:      p.Amount,
		Category:    category,
		Type:        p.Type,
		Status:      status,
		Account:     p.Account,
		Reference:   p.Reference,
		Merchant:    p.Merchant,
		Location:    p.Location,
	}, nil
}

func toSuccessResponse(txs []*transaction.Transaction, categorized int) importSuccessResponse {
	out := make([]transactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionDTO(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Categorized:  categorized,
		Transactions: out,
	}
}

func toTransactionDTO(tx *transaction.Transaction) transactionDTO {
	return transactionDTO{
		ID: tx.ID,
		paramsDTO: paramsDTO{
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
		},
	}
}

func toParamsDTO(p transaction.CreateParams) paramsDTO {
	return paramsDTO{
		Date:        p.Date.Format(time.DateOnly),
		Description: p.Description,
		Amount:      p.Amount,
		Category:    p.Category,
		Type:        p.Type,
		Status:      p.Status,
		Account:     p.Account,
		Reference:   p.Reference,
		Merchant:    p.Merchant,
		Location:    p.Location,
	}
}
