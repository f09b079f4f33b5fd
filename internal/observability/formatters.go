// Package observability provides formatted output for the CLI's human-readable mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/matching"
	"github.com/jonathan/ats-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer writes boxed, human-readable summaries.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to maxItemsToShow items under a label.
func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", label)
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
}

// PrintAnalysis outputs the score, strategy, and per-category keyword matches.
func (p *Printer) PrintAnalysis(a *matching.Analysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Score:    %d/100 %s\n", a.Score, scoreBar(a.Score))
	fmt.Fprintf(&sb, "Strategy: %s\n", a.Strategy)
	if a.RemoteError != "" {
		fmt.Fprintf(&sb, "Remote:   %s\n", a.RemoteError)
	}
	sb.WriteString("\n")

	hard, soft := a.Analysis.HardSkills, a.Analysis.SoftSkills
	fmt.Fprintf(&sb, "Hard skills: %d matched, %d missing\n", len(hard.Matched), len(hard.Missing))
	fmt.Fprintf(&sb, "Soft skills: %d matched, %d missing\n", len(soft.Matched), len(soft.Missing))
	sb.WriteString("\n")
	writeList(&sb, "Matched", a.MatchedKeywords)
	writeList(&sb, "Missing", a.MissingKeywords)

	p.printBox("ATS SCORE", sb.String())
}

// scoreBar renders a ten-cell bar for a 0-100 score.
func scoreBar(score int) string {
	filled := max(0, min(10, score/10))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + "]"
}

// PrintKeywords outputs extracted hard and soft skills with their importance.
func (p *Printer) PrintKeywords(result *types.ExtractionResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	writeKeywords(&sb, "Hard Skills", result.HardSkills)
	writeKeywords(&sb, "Soft Skills", result.SoftSkills)

	if len(result.ExperienceRequirements) > 0 {
		sb.WriteString("Experience:\n")
		for _, req := range result.ExperienceRequirements {
			plus := ""
			if req.IsMinimum {
				plus = "+"
			}
			fmt.Fprintf(&sb, "  • %d%s years %s\n", req.Years, plus, req.Skill)
		}
	}
	writeList(&sb, "Certifications", result.Certifications)

	if result.Empty() {
		sb.WriteString("No keywords found\n")
	}
	p.printBox("EXTRACTED KEYWORDS", sb.String())
}

func writeKeywords(sb *strings.Builder, label string, keywords []types.Keyword) {
	if len(keywords) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s (%d):\n", label, len(keywords))
	count := min(len(keywords), maxItemsToShow)
	for _, kw := range keywords[:count] {
		fmt.Fprintf(sb, "  [%3d] %s", kw.Importance, kw.Term)
		if kw.RequirementLevel != "" && kw.RequirementLevel != types.LevelNeutral {
			fmt.Fprintf(sb, " (%s)", kw.RequirementLevel)
		}
		sb.WriteString("\n")
	}
	if len(keywords) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(keywords)-maxItemsToShow)
	}
	sb.WriteString("\n")
}

// PrintSuggestions outputs each suggestion as an original/suggested pair.
func (p *Printer) PrintSuggestions(items []types.EditSuggestion) {
	var sb strings.Builder
	if len(items) == 0 {
		sb.WriteString("No suggestions, the text looks good\n")
	}
	for i, s := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s [%s, %.0f%%]\n", i+1, s.ID, s.Type, s.Confidence*100)
		fmt.Fprintf(&sb, "   - %s\n", s.Original)
		fmt.Fprintf(&sb, "   + %s\n", s.Suggestion)
	}
	p.printBox(fmt.Sprintf("SUGGESTIONS (%d)", len(items)), sb.String())
}

// PrintHistory outputs saved score records, newest first.
func (p *Printer) PrintHistory(records []db.ScoreRecord) {
	var sb strings.Builder
	if len(records) == 0 {
		sb.WriteString("No saved scores\n")
	}
	for _, rec := range records {
		label := rec.JobTitle
		if rec.Company != "" {
			label = strings.TrimSpace(label + " @ " + rec.Company)
		}
		if label == "" {
			label = rec.ID.String()[:8]
		}
		fmt.Fprintf(&sb, "%s  %3d  %s\n", rec.CreatedAt.Format("2006-01-02 15:04"), rec.Score, label)
	}
	p.printBox("SCORE HISTORY", sb.String())
}

// PrintStep prints a one-line progress message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStep(step, message string) {
	fmt.Fprintf(p.out, "[%s] %s\n", step, message)
}
