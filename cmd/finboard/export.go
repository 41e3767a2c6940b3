package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write transactions to a CSV, PDF or XLSX file",
		Long: `Export transactions matching the date range and categories to a file in
the export directory (EXPORT_DIR, or --dir).

Date, Description and Amount are always exported. Other columns follow
the canonical order whatever order they are given in.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	addOptionFlags(cmd)
	cmd.Flags().String("dir", "", "export directory (default EXPORT_DIR)")
	cmd.Flags().String("title", "", "document title for PDF and XLSX")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	opts, err := optionsFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	txs, err := loadTransactions(cmd, cfg)
	if err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = cfg.Export.Dir
	}

	opts.Title, _ = cmd.Flags().GetString("title")

	path, err := export.NewService(dir, cfg.Export.Title, slog.Default()).ExportToFile(txs, opts)
	if err != nil {
		return err
	}

	p := export.Preview(txs, opts)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions (%s, total %s) to %s\n",
		p.Count, p.DateRange, p.Total.StringFixed(2), path)

	return nil
}

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show what an export would contain without writing it",
		Args:  cobra.NoArgs,
		RunE:  runPreview,
	}

	addOptionFlags(cmd)

	return cmd
}

func runPreview(cmd *cobra.Command, _ []string) error {
	opts, err := optionsFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	txs, err := loadTransactions(cmd, cfg)
	if err != nil {
		return err
	}

	svc := export.NewService(cfg.Export.Dir, cfg.Export.Title, slog.Default())
	p := export.Preview(txs, opts)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Transactions: %d\n", p.Count)
	fmt.Fprintf(out, "Total amount: %s\n", p.Total.StringFixed(2))
	fmt.Fprintf(out, "Date range:   %s\n", p.DateRange)
	fmt.Fprintf(out, "File:         %s\n", svc.Filename(opts))

	return nil
}

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a plain-text listing of matching transactions",
		Args:  cobra.NoArgs,
		RunE:  runSummary,
	}

	addOptionFlags(cmd)

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	opts, err := optionsFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	txs, err := loadTransactions(cmd, cfg)
	if err != nil {
		return err
	}

	rows := transaction.Sort(export.Filter(txs, opts), opts.SortKey, opts.Direction)
	svc := export.NewService(cfg.Export.Dir, cfg.Export.Title, slog.Default())

	fmt.Fprint(cmd.OutOrStdout(), svc.GenerateSummary(rows))

	return nil
}
