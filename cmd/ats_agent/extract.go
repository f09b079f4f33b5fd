package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/extraction"
	"github.com/jonathan/ats-matcher/internal/observability"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract categorized keywords from a job posting",
	Long: `Extract hard skills, soft skills, experience requirements, and
certifications from a job posting. The hosted service is used with --remote,
falling back to rule-based extraction when it fails.`,
	RunE: runExtract,
}

var (
	extractJob  jobFlags
	extractJSON bool
	extractOut  string
	extractAuth string
)

func init() {
	extractJob.register(extractCmd)
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the extraction as JSON")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Write JSON to this file instead of stdout")
	extractCmd.Flags().StringVar(&extractAuth, "token", "", "User token for the hosted service")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	posting, err := extractJob.read(ctx)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, extractAuth)
	if err != nil {
		return err
	}
	defer a.close()

	job, err := a.analyzer.ExtractJob(ctx, extraction.PrioritizeSections(posting.Description))
	if err != nil {
		return fmt.Errorf("keyword extraction failed: %w", err)
	}

	if extractJSON || extractOut != "" {
		return writeJSON(cmd.OutOrStdout(), extractOut, job.Result)
	}

	out := cmd.OutOrStdout()
	observability.NewPrinter(out).PrintKeywords(job.Result)
	_, _ = fmt.Fprintf(out, "Strategy: %s\n", job.Strategy)
	if job.RemoteErr != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: hosted extraction unavailable: %v\n", job.RemoteErr)
	}
	return nil
}
