package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// Service writes exports into an output directory.
type Service struct {
	outputDir string
	title     string
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new export Service. An empty title falls back to
// "Transactions"; a nil logger to slog.Default.
func NewService(outputDir, title string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		outputDir: outputDir,
		title:     title,
		logger:    logger,
		now:       time.Now,
	}
}

// Filename returns the file name an export with opts would be written to.
func (s *Service) Filename(opts Options) string {
	return opts.ResolveFilename(s.now())
}

// ExportToFile filters txs by the options and writes the result to the
// output directory. It returns the written path.
func (s *Service) ExportToFile(txs []transaction.Transaction, opts Options) (string, error) {
	rows := Filter(txs, opts)
	return s.save(len(rows), opts, func(buf *bytes.Buffer, o Options) error {
		return render(buf, rows, o, o.DateRange)
	})
}

// RenderToFile writes rows unfiltered, as a bulk export of a selection does.
func (s *Service) RenderToFile(rows []transaction.Transaction, opts Options) (string, error) {
	return s.save(len(rows), opts, func(buf *bytes.Buffer, o Options) error {
		return Render(buf, rows, o)
	})
}

func (s *Service) save(count int, opts Options, fill func(*bytes.Buffer, Options) error) (string, error) {
	if opts.Title == "" {
		opts.Title = s.title
	}

	// Render fully before touching the filesystem so a failed export never
	// leaves a partial file behind.
	var buf bytes.Buffer
	if err := fill(&buf, opts); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(s.outputDir, s.Filename(opts))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	s.logger.Info("export written", "path", path, "format", opts.Format, "rows", count)

	return path, nil
}

// GenerateSummary creates a plain-text listing of rows, one line each.
func (s *Service) GenerateSummary(rows []transaction.Transaction) string {
	var sb strings.Builder

	for _, tx := range rows {
		category := tx.Category
		if category == "" {
			category = transaction.Uncategorized
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n",
			tx.Date.Format(dateLayout), tx.Description, tx.Amount.StringFixed(2), category)
	}

	sum := transaction.Summarize(rows)
	fmt.Fprintf(&sb, "\n%d transactions | income %s | expenses %s | net %s\n",
		sum.TransactionCount,
		sum.TotalIncome.StringFixed(2),
		sum.TotalExpenses.StringFixed(2),
		sum.NetAmount.StringFixed(2),
	)

	return sb.String()
}
