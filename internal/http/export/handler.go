package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/http/param"
	sessionHandler "github.com/MrJamesThe3rd/finboard/internal/http/session"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.download)
	r.Post("/preview", h.preview)
	r.Post("/summary", h.summary)
}

// OptionsRequest is the JSON form of export.Options. A missing columns list
// exports every column; an empty one exports only the required columns.
type OptionsRequest struct {
	Format     string   `json:"format"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Categories []string `json:"categories"`
	Columns    []string `json:"columns"`
	SortKey    string   `json:"sort_key"`
	Direction  string   `json:"direction"`
	Filename   string   `json:"filename"`
}

// Options converts and validates the request.
func (req OptionsRequest) Options() (export.Options, error) {
	opts := export.DefaultOptions()

	if f := strings.ToLower(strings.TrimSpace(req.Format)); f != "" {
		opts.Format = export.Format(f)
	}

	dates, err := param.DateRange(req.StartDate, req.EndDate)
	if err != nil {
		return export.Options{}, err
	}

	opts.DateRange = dates
	opts.Categories = req.Categories
	opts.Filename = req.Filename

	if req.Columns != nil {
		opts.Columns = make([]export.Column, len(req.Columns))
		for i, c := range req.Columns {
			opts.Columns[i] = export.Column(strings.ToLower(strings.TrimSpace(c)))
		}
	}

	if opts.SortKey, opts.Direction, err = param.Sort(req.SortKey, req.Direction); err != nil {
		return export.Options{}, err
	}

	if err := opts.Validate(); err != nil {
		return export.Options{}, err
	}

	return opts, nil
}

// Decode reads an OptionsRequest body and converts it. Any error is a
// client error.
func Decode(r *http.Request) (export.Options, error) {
	var req OptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return export.Options{}, err
	}

	return req.Options()
}

// Send writes a rendered export as an attachment. render runs before any
// header is written so failures still produce a clean error response.
func Send(w http.ResponseWriter, opts export.Options, filename string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, export.ErrInvalidOptions) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to render export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", opts.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	opts, err := Decode(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	all := sessionHandler.FromContext(r.Context()).View.All()

	Send(w, opts, h.svc.Filename(opts), func(buf *bytes.Buffer) error {
		return export.Write(buf, all, opts)
	})
}

type previewResponse struct {
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
	DateRange string          `json:"date_range"`
	Filename  string          `json:"filename"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	opts, err := Decode(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p := export.Preview(sessionHandler.FromContext(r.Context()).View.All(), opts)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(previewResponse{
		Count:     p.Count,
		Total:     p.Total,
		DateRange: p.DateRange,
		Filename:  h.svc.Filename(opts),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	opts, err := Decode(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := export.Filter(sessionHandler.FromContext(r.Context()).View.All(), opts)
	rows = transaction.Sort(rows, opts.SortKey, opts.Direction)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(summaryResponse{
		Summary: h.svc.GenerateSummary(rows),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

