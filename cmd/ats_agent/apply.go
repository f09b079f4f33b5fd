package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/suggestions"
	"github.com/jonathan/ats-matcher/internal/types"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply suggestions to a structured resume",
	Long: `Apply suggestions, in order, to a JSON resume. Nothing is written unless
every suggestion applies. With --safe, suggestions that would drop emails,
phone numbers, or figures are rejected.`,
	RunE: runApply,
}

var (
	applyResume      string
	applySuggestions string
	applyIDs         []string
	applySafe        bool
	applyOut         string
)

func init() {
	applyCmd.Flags().StringVarP(&applyResume, "resume", "r", "", "Path to the resume JSON")
	applyCmd.Flags().StringVarP(&applySuggestions, "suggestions", "s", "", "Path to a suggestions JSON array (from suggest --json)")
	applyCmd.Flags().StringSliceVar(&applyIDs, "id", nil, "Apply only these suggestion IDs")
	applyCmd.Flags().BoolVar(&applySafe, "safe", true, "Reject suggestions that drop contact details or numbers")
	applyCmd.Flags().StringVarP(&applyOut, "out", "o", "", "Path for the updated resume JSON (default stdout)")
	_ = applyCmd.MarkFlagRequired("resume")
	_ = applyCmd.MarkFlagRequired("suggestions")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, _ []string) error {
	if !strings.EqualFold(filepath.Ext(applyResume), ".json") {
		return fmt.Errorf("apply needs a structured JSON resume")
	}
	resume, err := loadResume(applyResume)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(applySuggestions)
	if err != nil {
		return fmt.Errorf("failed to read suggestions: %w", err)
	}
	var items []types.EditSuggestion
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to parse suggestions JSON: %w", err)
	}
	items = selectSuggestions(items, applyIDs)
	if len(items) == 0 {
		return fmt.Errorf("no suggestions to apply")
	}

	apply := suggestions.ApplyMultiple
	if applySafe {
		apply = suggestions.ApplyMultipleSafely
	}
	updated, err := apply(resume, items)
	if err != nil {
		return err
	}

	if err := writeJSON(cmd.OutOrStdout(), applyOut, updated); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Applied %d suggestion(s)\n", len(items))
	return nil
}

// selectSuggestions keeps the suggestions named by ids, in their original order.
// No ids keeps them all.
func selectSuggestions(items []types.EditSuggestion, ids []string) []types.EditSuggestion {
	if len(ids) == 0 {
		return items
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[strings.TrimSpace(id)] = true
	}
	var out []types.EditSuggestion
	for _, s := range items {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out
}
