package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/observability"
	"github.com/jonathan/ats-matcher/internal/pipeline"
	"github.com/jonathan/ats-matcher/internal/suggestions"
	"github.com/jonathan/ats-matcher/internal/types"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest edits for a resume or a section of text",
	Long: `Suggest edits for weak verbs, passive voice, missing metrics, and
formatting. Pass --resume to check a whole resume, or --text with --section
to check a single section.`,
	RunE: runSuggest,
}

var (
	suggestResume  string
	suggestText    string
	suggestSection string
	suggestOut     string
	suggestJSON    bool
)

func init() {
	suggestCmd.Flags().StringVarP(&suggestResume, "resume", "r", "", "Path to the resume (.json or plain text)")
	suggestCmd.Flags().StringVar(&suggestText, "text", "", "Text of a single resume section")
	suggestCmd.Flags().StringVar(&suggestSection, "section", string(types.ResumeExperience), "Section of --text: summary, experience, or skills")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "Print suggestions as JSON")
	suggestCmd.Flags().StringVarP(&suggestOut, "out", "o", "", "Write suggestions JSON to this file")
	suggestCmd.MarkFlagsMutuallyExclusive("resume", "text")
	suggestCmd.MarkFlagsOneRequired("resume", "text")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	var items []types.EditSuggestion
	if suggestResume != "" {
		resume, err := loadResume(suggestResume)
		if err != nil {
			return err
		}
		items = pipeline.Suggest(resume)
	} else {
		section := types.ResumeSection(suggestSection)
		switch section {
		case types.ResumeSummary, types.ResumeExperience, types.ResumeSkills:
		default:
			return fmt.Errorf("unsupported section %q: use summary, experience, or skills", suggestSection)
		}
		items = suggestions.Generate(suggestText, section)
	}

	if suggestJSON || suggestOut != "" {
		return writeJSON(cmd.OutOrStdout(), suggestOut, items)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSuggestions(items)
	return nil
}
