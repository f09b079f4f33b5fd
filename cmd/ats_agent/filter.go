package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/extraction"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Reorder a job posting so requirement sections come first",
	RunE:  runFilter,
}

var (
	filterJob             jobFlags
	filterMaxCompanyChars int
)

func init() {
	filterJob.register(filterCmd)
	filterCmd.Flags().IntVar(&filterMaxCompanyChars, "max-company-chars", 0, "Truncate trailing company text to this many characters (0 keeps it all)")
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, _ []string) error {
	posting, err := filterJob.read(cmd.Context())
	if err != nil {
		return err
	}
	filtered := extraction.PrioritizeSectionsWithOptions(posting.Description, extraction.PrefilterOptions{
		MaxCompanyChars: filterMaxCompanyChars,
	})
	_, err = fmt.Fprintln(cmd.OutOrStdout(), filtered)
	return err
}
