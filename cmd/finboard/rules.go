package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/source"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage the rules that categorize imported transactions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add PATTERN CATEGORY",
		Short: "Categorize descriptions containing PATTERN as CATEGORY",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRules(cmd, func(svc *matching.Service) error {
				if err := svc.Learn(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%q -> %s\n", args[0], args[1])

				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "suggest DESCRIPTION",
		Short: "Show the category a rule assigns to DESCRIPTION",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRules(cmd, func(svc *matching.Service) error {
				category, err := svc.Suggest(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if category == "" {
					category = "(no rule)"
				}

				fmt.Fprintln(cmd.OutOrStdout(), category)

				return nil
			})
		},
	})

	return cmd
}

func withRules(cmd *cobra.Command, fn func(*matching.Service) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	stores, err := source.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	return fn(matching.NewService(stores.Rules))
}
