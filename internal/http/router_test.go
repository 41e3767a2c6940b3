package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/export"
	router "github.com/MrJamesThe3rd/finboard/internal/http"
	bulkHandler "github.com/MrJamesThe3rd/finboard/internal/http/bulk"
	exportHandler "github.com/MrJamesThe3rd/finboard/internal/http/export"
	"github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/finboard/internal/http/matching"
	sessionHandler "github.com/MrJamesThe3rd/finboard/internal/http/session"
	txHandler "github.com/MrJamesThe3rd/finboard/internal/http/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/finboard/internal/matching/memstore"
	"github.com/MrJamesThe3rd/finboard/internal/session"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/transaction/memstore"
)

type listBody struct {
	Transactions []struct {
		ID       string `json:"id"`
		Category string `json:"category"`
		Selected bool   `json:"selected"`
	} `json:"transactions"`
	Summary struct {
		TotalIncome      decimal.Decimal `json:"total_income"`
		TransactionCount int             `json:"transaction_count"`
	} `json:"summary"`
	Selected []string `json:"selected"`
}

func newServer(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	txSvc := transaction.NewService(memstore.New(memstore.Sample()))
	exportSvc := export.NewService(t.TempDir(), "", logger)
	matchSvc := matching.NewService(matchingStore.New())

	return router.New([]string{"http://localhost:3000"}, router.Handlers{
		Sessions:     sessionHandler.NewHandler(session.NewManager(txSvc, logger)),
		Transactions: txHandler.NewHandler(),
		Bulk:         bulkHandler.NewHandler(exportSvc),
		Export:       exportHandler.NewHandler(exportSvc),
		Import:       importcsv.NewHandler(importer.NewService(""), txSvc, matchSvc),
		Rules:        matchingHandler.NewHandler(matchSvc),
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))

	return v
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/api/v1/sessions/", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode[struct {
		ID           string `json:"id"`
		Transactions int    `json:"transactions"`
	}](t, rec)
	assert.Equal(t, 18, body.Transactions)

	return "/api/v1/sessions/" + body.ID
}

func TestRouter_FilterAndSummary(t *testing.T) {
	h := newServer(t)
	base := createSession(t, h)

	rec := do(t, h, http.MethodPut, base+"/filters", `{"types":["income"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[listBody](t, rec)
	assert.Len(t, list.Transactions, 4)
	assert.Equal(t, 4, list.Summary.TransactionCount)
	assert.True(t, decimal.RequireFromString("8334.12").Equal(list.Summary.TotalIncome))

	rec = do(t, h, http.MethodPut, base+"/filters", `{"types":["refund"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, base+"/filters", `{"start_date":"15/03/2024"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SortAndOptions(t *testing.T) {
	h := newServer(t)
	base := createSession(t, h)

	rec := do(t, h, http.MethodPut, base+"/sort", `{"key":"amount","direction":"asc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[listBody](t, rec)
	require.NotEmpty(t, list.Transactions)
	assert.Equal(t, "tx-011", list.Transactions[0].ID)

	rec = do(t, h, http.MethodPut, base+"/sort", `{"key":"colour"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, base+"/options", "")
	require.Equal(t, http.StatusOK, rec.Code)

	opts := decode[struct {
		Categories []string `json:"categories"`
	}](t, rec)
	assert.Contains(t, opts.Categories, "Food & Dining")
}

func TestRouter_Details(t *testing.T) {
	h := newServer(t)
	base := createSession(t, h)

	rec := do(t, h, http.MethodGet, base+"/transactions/tx-001/details", "")
	require.Equal(t, http.StatusOK, rec.Code)

	details := decode[struct {
		CategoryCountYTD int `json:"category_count_ytd"`
		MerchantHistory  []struct {
			ID string `json:"id"`
		} `json:"merchant_history"`
	}](t, rec)
	assert.Equal(t, 4, details.CategoryCountYTD)
	require.Len(t, details.MerchantHistory, 1)
	assert.Equal(t, "tx-015", details.MerchantHistory[0].ID)

	rec = do(t, h, http.MethodGet, base+"/transactions/tx-999/details", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_BulkCategorizeAndDelete(t *testing.T) {
	h := newServer(t)
	base := createSession(t, h)

	rec := do(t, h, http.MethodPost, base+"/bulk/delete", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	do(t, h, http.MethodPut, base+"/filters", `{"types":["income"]}`)

	rec = do(t, h, http.MethodPost, base+"/selection", `{"action":"all"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[listBody](t, rec).Selected, 4)

	rec = do(t, h, http.MethodPost, base+"/bulk/categorize", `{"category":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/bulk/categorize", `{"category":"Earnings"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, decode[struct {
		Count int `json:"count"`
	}](t, rec).Count)

	rec = do(t, h, http.MethodPost, base+"/bulk/delete", "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	pending := decode[struct {
		Token string `json:"token"`
		Count int    `json:"count"`
	}](t, rec)
	assert.Equal(t, 4, pending.Count)

	// Nothing is removed before confirmation.
	rec = do(t, h, http.MethodGet, base+"/transactions", "")
	list := decode[listBody](t, rec)
	require.Len(t, list.Transactions, 4)

	for _, tx := range list.Transactions {
		assert.Equal(t, "Earnings", tx.Category)
	}

	rec = do(t, h, http.MethodPost, base+"/bulk/delete/"+pending.Token+"/confirm", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/bulk/delete/"+pending.Token+"/confirm", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, base+"/filters", `{}`)
	list = decode[listBody](t, rec)
	assert.Len(t, list.Transactions, 14)
	assert.Empty(t, list.Selected)
}

func TestRouter_BulkExport(t *testing.T) {
	h := newServer(t)
	base := createSession(t, h)

	rec := do(t, h, http.MethodPost, base+"/selection", `{"action":"select","ids":["tx-008","tx-001"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/bulk/export", `{"format":"csv","columns":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t,
		"Date,Description,Amount\n"+
			"2024-03-15,Whole Foods Market,-85.32\n"+
			"2024-03-11,Starbucks,-6.45\n",
		rec.Body.String())

	rec = do(t, h, http.MethodPost, base+"/bulk/export", `{"format":"docx"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ExportPreview(t *testing.T) {
	h := newServer(t)
	base := createSession(t, h)

	rec := do(t, h, http.MethodPost, base+"/export/preview",
		`{"format":"pdf","start_date":"2024-03-01","categories":["Food & Dining"],"filename":"march"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	preview := decode[struct {
		Count     int             `json:"count"`
		Total     decimal.Decimal `json:"total"`
		DateRange string          `json:"date_range"`
		Filename  string          `json:"filename"`
	}](t, rec)
	assert.Equal(t, 2, preview.Count)
	assert.True(t, decimal.RequireFromString("-91.77").Equal(preview.Total))
	assert.Equal(t, "2024-03-01 to 2024-03-15", preview.DateRange)
	assert.Equal(t, "march.pdf", preview.Filename)

	rec = do(t, h, http.MethodPost, base+"/export/", `{"format":"pdf"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestRouter_UnknownSession(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/sessions/not-a-uuid/transactions", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/sessions/8f5b6a52-4c1e-4a57-9a39-0d7d2b1c5e11/transactions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	base := createSession(t, h)

	rec = do(t, h, http.MethodDelete, base+"/", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, base+"/transactions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Rules(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/rules/", `{"pattern":"uber","category":"Transportation"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/rules/", `{"pattern":"","category":"Transportation"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/rules/suggest?description=UBER+TRIP+123", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Transportation", decode[struct {
		Category string `json:"category"`
	}](t, rec).Category)

	rec = do(t, h, http.MethodGet, "/api/v1/rules/suggest", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Import(t *testing.T) {
	h := newServer(t)

	upload := func(format, content string) *httptest.ResponseRecorder {
		var body bytes.Buffer

		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("format", format))

		fw, err := mw.CreateFormFile("file", "statement.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/import/", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		return rec
	}

	rec := do(t, h, http.MethodPost, "/api/v1/rules/", `{"pattern":"bakery","category":"Food & Dining"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = upload("native", "Date,Description,Amount\n2024-04-02,Bakery,-3.20\n")
	require.Equal(t, http.StatusCreated, rec.Code)

	imported := decode[struct {
		Imported     int `json:"imported"`
		Categorized  int `json:"categorized"`
		Transactions []struct {
			Category string `json:"category"`
			Account  string `json:"account"`
		} `json:"transactions"`
	}](t, rec)
	assert.Equal(t, 1, imported.Imported)
	assert.Equal(t, 1, imported.Categorized)
	require.Len(t, imported.Transactions, 1)
	assert.Equal(t, "Food & Dining", imported.Transactions[0].Category)
	assert.Equal(t, "Imported", imported.Transactions[0].Account)

	rec = upload("native", "Date,Description,Amount\n2024-04-02,Bakery,-3.20\n2024-04-03,Florist,-12.00\n")
	require.Equal(t, http.StatusConflict, rec.Code)

	conflict := decode[struct {
		New       []struct{ Description string } `json:"new"`
		Conflicts []struct {
			Incoming struct {
				Description string `json:"description"`
			} `json:"incoming"`
		} `json:"conflicts"`
	}](t, rec)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, "Bakery", conflict.Conflicts[0].Incoming.Description)
	require.Len(t, conflict.New, 1)

	rec = upload("qif", "x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/import/confirm",
		`{"params":[{"date":"2024-04-03","description":"Florist","amount":"-12.00","type":"expense","account":"Imported"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/sessions/", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 20, decode[struct {
		Transactions int `json:"transactions"`
	}](t, rec).Transactions)
}
