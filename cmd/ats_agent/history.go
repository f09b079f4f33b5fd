package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved scores, newest first",
	RunE:  runHistory,
}

var (
	historyLimit int
	historyJSON  bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of scores to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print scores as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.ListScores(ctx, historyLimit)
	if err != nil {
		return err
	}
	if historyJSON {
		return writeJSON(cmd.OutOrStdout(), "", records)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintHistory(records)
	return nil
}
