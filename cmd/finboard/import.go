package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/source"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a statement file into the configured source",
		Long: `Import a statement file. Learned category rules are applied to rows
without a category. If any row looks like an already stored transaction
nothing is written unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("format", "f", string(importer.FormatNative), "file format (native, cgd)")
	cmd.Flags().String("account", "", "account label for formats without an account column")
	cmd.Flags().Bool("dry-run", false, "show parsed rows without saving")
	cmd.Flags().Bool("force", false, "write conflicting rows too")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	name, _ := flags.GetString("format")

	format, err := importer.ParseFormat(name)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	account, _ := flags.GetString("account")
	if account == "" {
		account = cfg.Import.Account
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	params, err := importer.NewService(account).Import(format, f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	stores, err := source.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	categorized := matching.NewService(stores.Rules).Apply(ctx, params)
	out := cmd.OutOrStdout()

	if dryRun, _ := flags.GetBool("dry-run"); dryRun {
		printParams(cmd, params)
		fmt.Fprintf(out, "\n%d rows parsed, %d categorized by rules\n", len(params), categorized)

		return nil
	}

	txSvc := transaction.NewService(stores.Transactions)

	if force, _ := flags.GetBool("force"); force {
		txs, err := txSvc.CreateBatch(ctx, params)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Imported %d transactions\n", len(txs))

		return nil
	}

	result, err := txSvc.ImportBatch(ctx, params)
	if err != nil {
		return err
	}

	if len(result.Conflicts) > 0 {
		fmt.Fprintf(out, "%d rows look like stored transactions:\n", len(result.Conflicts))

		conflicts := make([]transaction.CreateParams, len(result.Conflicts))
		for i, c := range result.Conflicts {
			conflicts[i] = c.Incoming
		}

		printParams(cmd, conflicts)

		return fmt.Errorf("nothing imported: %d conflicts, %d new rows; rerun with --force to import anyway",
			len(result.Conflicts), len(result.New))
	}

	fmt.Fprintf(out, "Imported %d transactions, %d categorized by rules\n", len(result.Imported), categorized)

	return nil
}

func printParams(cmd *cobra.Command, params []transaction.CreateParams) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDESCRIPTION\tAMOUNT\tCATEGORY\tACCOUNT")

	for _, p := range params {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Date.Format(time.DateOnly), p.Description, p.Amount.StringFixed(2), p.Category, p.Account)
	}

	w.Flush()
}
