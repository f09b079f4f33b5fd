package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/observability"
	"github.com/jonathan/ats-matcher/internal/pipeline"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job posting",
	Long: `Score a resume against a job posting, list matched and missing keywords,
and suggest edits. The resume is a JSON file with structured sections or a
plain text file.`,
	RunE: runScore,
}

var (
	scoreJob    jobFlags
	scoreResume string
	scoreSave   bool
	scoreJSON   bool
	scoreAuth   string
)

func init() {
	scoreJob.register(scoreCmd)
	scoreCmd.Flags().StringVarP(&scoreResume, "resume", "r", "", "Path to the resume (.json or plain text)")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "Save the score to history")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the full result as JSON")
	scoreCmd.Flags().StringVar(&scoreAuth, "token", "", "User token for the hosted service")
	_ = scoreCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	resume, err := loadResume(scoreResume)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, scoreAuth)
	if err != nil {
		return err
	}
	defer a.close()

	var store db.Store
	if scoreSave {
		store, err = openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	progress := observability.NewPrinter(cmd.ErrOrStderr())
	result, err := pipeline.Run(ctx, pipeline.RunOptions{
		JobPath:  scoreJob.path,
		JobURL:   scoreJob.url,
		JobText:  scoreJob.text,
		Resume:   resume,
		Fetch:    scoreJob.fetchOptions(),
		Analyzer: a.analyzer,
		Store:    store,
		Logger:   log,
		OnProgress: func(e pipeline.ProgressEvent) {
			progress.PrintStep(e.Step, e.Message)
		},
	})
	if err != nil {
		return err
	}

	if scoreJSON {
		return writeJSON(cmd.OutOrStdout(), "", result)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintAnalysis(result.Analysis)
	printer.PrintSuggestions(result.Suggestions)
	if result.RecordID != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved as %s\n", result.RecordID)
	}
	return nil
}
