package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/http/param"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/source"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/transaction/memstore"
)

func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", string(export.FormatCSV), "output format (csv, pdf, xlsx)")
	cmd.Flags().String("from", "", "first date to include (yyyy-mm-dd)")
	cmd.Flags().String("to", "", "last date to include (yyyy-mm-dd)")
	cmd.Flags().StringSliceP("category", "c", nil, "only include these categories")
	cmd.Flags().StringSlice("columns", nil, "columns to export (default all)")
	cmd.Flags().String("sort", "", "sort key (date, amount, category)")
	cmd.Flags().String("direction", "", "sort direction (asc, desc)")
	cmd.Flags().StringP("output", "o", "", "file name inside the export directory")
	cmd.Flags().StringP("input", "i", "", "read transactions from an exported CSV instead of the configured source")
}

func optionsFromFlags(cmd *cobra.Command) (export.Options, error) {
	flags := cmd.Flags()
	opts := export.DefaultOptions()

	format, _ := flags.GetString("format")
	if f := strings.ToLower(strings.TrimSpace(format)); f != "" {
		opts.Format = export.Format(f)
	}

	from, _ := flags.GetString("from")
	to, _ := flags.GetString("to")

	dates, err := param.DateRange(from, to)
	if err != nil {
		return export.Options{}, err
	}

	opts.DateRange = dates
	opts.Categories, _ = flags.GetStringSlice("category")
	opts.Filename, _ = flags.GetString("output")

	if flags.Changed("columns") {
		names, _ := flags.GetStringSlice("columns")

		opts.Columns = make([]export.Column, len(names))
		for i, n := range names {
			opts.Columns[i] = export.Column(strings.ToLower(strings.TrimSpace(n)))
		}
	}

	key, _ := flags.GetString("sort")
	dir, _ := flags.GetString("direction")

	if opts.SortKey, opts.Direction, err = param.Sort(key, dir); err != nil {
		return export.Options{}, err
	}

	if err := opts.Validate(); err != nil {
		return export.Options{}, err
	}

	return opts, nil
}

// loadTransactions returns the transactions a command works on: the
// --input file when given, the configured source otherwise.
func loadTransactions(cmd *cobra.Command, cfg *config.Config) ([]transaction.Transaction, error) {
	ctx := cmd.Context()

	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		stores, err := source.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer stores.Close()

		return transaction.NewService(stores.Transactions).List(ctx)
	}

	return readFile(ctx, input, importer.FormatNative, cfg.Import.Account)
}

func readFile(ctx context.Context, path string, format importer.Format, account string) ([]transaction.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	params, err := importer.NewService(account).Import(format, f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	svc := transaction.NewService(memstore.New(nil))
	if _, err := svc.CreateBatch(ctx, params); err != nil {
		return nil, err
	}

	return svc.List(ctx)
}
