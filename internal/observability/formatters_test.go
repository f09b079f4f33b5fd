package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/matching"
	"github.com/jonathan/ats-matcher/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	a := &matching.Analysis{
		ATSScore: types.ATSScore{
			Score:           72,
			MatchedKeywords: []string{"Go", "Kubernetes"},
			MissingKeywords: []string{"Terraform"},
			Analysis: types.SkillReport{
				HardSkills: types.SkillMatch{Matched: []string{"Go", "Kubernetes"}, Missing: []string{"Terraform"}},
			},
		},
		Strategy:    matching.StrategyLocal,
		RemoteError: "quota exceeded",
	}

	p.PrintAnalysis(a)
	output := buf.String()

	assert.Contains(t, output, "ATS SCORE")
	assert.Contains(t, output, "72/100")
	assert.Contains(t, output, "[███████░░░]")
	assert.Contains(t, output, "Strategy: local")
	assert.Contains(t, output, "quota exceeded")
	assert.Contains(t, output, "Hard skills: 2 matched, 1 missing")
	assert.Contains(t, output, "• Terraform")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestScoreBar(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "[░░░░░░░░░░]"},
		{55, "[█████░░░░░]"},
		{100, "[██████████]"},
		{140, "[██████████]"},
		{-5, "[░░░░░░░░░░]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreBar(tt.score))
	}
}

func TestPrintKeywords(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var hard []types.Keyword
	for i := 0; i < 10; i++ {
		hard = append(hard, types.Keyword{Term: "skill" + string(rune('a'+i)), Importance: 90 - i})
	}
	hard[0].RequirementLevel = types.LevelRequired

	p.PrintKeywords(&types.ExtractionResult{
		HardSkills:             hard,
		SoftSkills:             []types.Keyword{{Term: "leadership", Importance: 40, RequirementLevel: types.LevelNeutral}},
		ExperienceRequirements: []types.ExperienceRequirement{{Skill: "Go", Years: 5, IsMinimum: true}},
		Certifications:         []string{"CKA"},
	})
	output := buf.String()

	assert.Contains(t, output, "Hard Skills (10):")
	assert.Contains(t, output, "[ 90] skilla (required)")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "[ 40] leadership")
	assert.NotContains(t, output, "(neutral)")
	assert.Contains(t, output, "5+ years Go")
	assert.Contains(t, output, "CKA")
	assert.NotContains(t, output, "No keywords found")
}

func TestPrintKeywords_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintKeywords(&types.ExtractionResult{})
	assert.Contains(t, buf.String(), "No keywords found")
}

func TestPrintSuggestions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSuggestions([]types.EditSuggestion{{
		ID:         "summary-0-weak-verb-worked-on",
		Type:       types.SuggestionActionVerb,
		Original:   "worked on payments",
		Suggestion: "developed payments",
		Confidence: 0.8,
	}})
	output := buf.String()

	assert.Contains(t, output, "SUGGESTIONS (1)")
	assert.Contains(t, output, "1. summary-0-weak-verb-worked-on [action_verb, 80%]")
	assert.Contains(t, output, "- worked on payments")
	assert.Contains(t, output, "+ developed payments")
}

func TestPrintSuggestions_None(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSuggestions(nil)
	assert.Contains(t, buf.String(), "No suggestions")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	id := uuid.MustParse("6f1c2a9e-0000-4000-8000-000000000000")
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	p.PrintHistory([]db.ScoreRecord{
		{ID: uuid.New(), JobTitle: "SRE", Company: "Acme", Score: 81, CreatedAt: created},
		{ID: id, Score: 7, CreatedAt: created},
	})
	output := buf.String()

	assert.Contains(t, output, "2026-03-01 09:30   81  SRE @ Acme")
	assert.Contains(t, output, "2026-03-01 09:30    7  6f1c2a9e")
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintHistory(nil)
	assert.Contains(t, buf.String(), "No saved scores")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 100))
	output := buf.String()

	assert.Contains(t, output, "...")
	assert.NotContains(t, output, strings.Repeat("x", 60))
}

func TestPrintStep(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStep("score", "Score 80")
	assert.Equal(t, "[score] Score 80\n", buf.String())
}
