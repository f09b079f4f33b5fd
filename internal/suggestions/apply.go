package suggestions

import (
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/ats-matcher/internal/types"
)

// now is replaced in tests.
var now = time.Now

// Apply returns a copy of resume with the suggestion's original text replaced
// by its suggestion inside the named section. The match is case-insensitive
// and tolerant of whitespace differences. If the original text cannot be
// located an *ApplyError is returned and the input is left untouched.
func Apply(resume *types.Resume, s types.EditSuggestion) (*types.Resume, error) {
	if resume == nil {
		return nil, &ApplyError{Message: "resume is nil", Section: s.Section}
	}
	if strings.TrimSpace(s.Original) == "" {
		return nil, &ApplyError{Message: "suggestion has no original text", Section: s.Section}
	}

	updated := resume.Clone()
	var ok bool
	switch s.Section {
	case types.ResumeSummary:
		updated.Sections.Summary, ok = replaceFirst(updated.Sections.Summary, s.Original, s.Suggestion)
	case types.ResumeExperience:
		ok = applyExperience(updated.Sections.Experience, s)
	case types.ResumeSkills:
		ok = applyList(updated.Sections.Skills, s)
	default:
		return nil, &ApplyError{Message: "section does not accept suggestions", Section: s.Section}
	}
	if !ok {
		return nil, &ApplyError{Message: "original text not found", Section: s.Section, Original: s.Original}
	}

	updated.Content = BuildResumeContent(updated)
	updated.UpdatedAt = now()
	return updated, nil
}

// ApplySafely runs CheckSafety and applies the suggestion only when it passes.
func ApplySafely(resume *types.Resume, s types.EditSuggestion) (*types.Resume, error) {
	if err := CheckSafety(s); err != nil {
		return nil, err
	}
	return Apply(resume, s)
}

// ApplyMultiple applies suggestions in order. It stops at the first failure;
// the input resume is never modified.
func ApplyMultiple(resume *types.Resume, suggestions []types.EditSuggestion) (*types.Resume, error) {
	return applyAll(resume, suggestions, Apply)
}

// ApplyMultipleSafely is ApplyMultiple with the safety check run before each
// suggestion.
func ApplyMultipleSafely(resume *types.Resume, suggestions []types.EditSuggestion) (*types.Resume, error) {
	return applyAll(resume, suggestions, ApplySafely)
}

func applyAll(resume *types.Resume, suggestions []types.EditSuggestion, apply func(*types.Resume, types.EditSuggestion) (*types.Resume, error)) (*types.Resume, error) {
	if resume == nil {
		return nil, &ApplyError{Message: "resume is nil"}
	}
	current := resume
	for _, s := range suggestions {
		next, err := apply(current, s)
		if err != nil {
			return nil, err
		}
		current = next
	}
	if current == resume {
		return resume.Clone(), nil
	}
	return current, nil
}

// applyExperience replaces the original text in the first bullet, across all
// experience entries, that contains it.
func applyExperience(items []types.ExperienceItem, s types.EditSuggestion) bool {
	for i := range items {
		if applyList(items[i].Description, s) {
			return true
		}
	}
	return false
}

func applyList(lines []string, s types.EditSuggestion) bool {
	for j, line := range lines {
		if replaced, ok := replaceFirst(line, s.Original, s.Suggestion); ok {
			lines[j] = replaced
			return true
		}
	}
	return false
}

// replaceFirst replaces the first case-insensitive, whitespace-tolerant
// occurrence of original in text.
func replaceFirst(text, original, replacement string) (string, bool) {
	loc := originalPattern(original).FindStringIndex(text)
	if loc == nil {
		return text, false
	}
	return text[:loc[0]] + replacement + text[loc[1]:], true
}

func originalPattern(original string) *regexp.Regexp {
	words := strings.Fields(original)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)` + strings.Join(words, `\s+`))
}

// BuildResumeContent regenerates a resume's flat text from its structured
// sections so the two stay in sync after an edit.
func BuildResumeContent(resume *types.Resume) string {
	var parts []string

	if summary := strings.TrimSpace(resume.Sections.Summary); summary != "" {
		parts = append(parts, summary)
	}

	var entries []string
	for _, exp := range resume.Sections.Experience {
		var lines []string
		if header := joinNonEmpty(" | ", exp.Position, exp.Company); header != "" {
			lines = append(lines, header)
		}
		if dates := joinNonEmpty(" – ", exp.StartDate, exp.EndDate); dates != "" {
			lines = append(lines, dates)
		}
		for _, bullet := range exp.Description {
			lines = append(lines, "• "+strings.TrimSpace(bullet))
		}
		if len(lines) > 0 {
			entries = append(entries, strings.Join(lines, "\n"))
		}
	}
	if len(entries) > 0 {
		parts = append(parts, "Experience", strings.Join(entries, "\n\n"))
	}

	if len(resume.Sections.Skills) > 0 {
		parts = append(parts, "Skills", strings.Join(resume.Sections.Skills, ", "))
	}

	var education []string
	for _, edu := range resume.Sections.Education {
		dates := ""
		if edu.StartDate != "" || edu.EndDate != "" {
			dates = edu.StartDate + " - " + edu.EndDate
		}
		if line := joinNonEmpty(", ", edu.Institution, edu.Degree, edu.Field, dates); line != "" {
			education = append(education, line)
		}
	}
	if len(education) > 0 {
		parts = append(parts, "Education", strings.Join(education, "\n"))
	}

	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

func joinNonEmpty(sep string, values ...string) string {
	kept := values[:0:0]
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, sep)
}
