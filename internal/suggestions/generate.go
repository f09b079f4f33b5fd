// Package suggestions scans resume prose for weak verbs, passive voice,
// missing metrics, and formatting defects, and applies accepted suggestions
// back into a structured resume.
package suggestions

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/ats-matcher/internal/types"
)

// MaxSuggestions caps the number of suggestions Generate returns.
const MaxSuggestions = 10

// Generate returns up to MaxSuggestions suggestions for text, highest
// confidence first. It is deterministic: the same input always yields the
// same suggestions with the same IDs.
func Generate(text string, section types.ResumeSection) []types.EditSuggestion {
	var all []types.EditSuggestion
	for i, unit := range SplitUnits(text) {
		all = append(all, checkWeakVerbs(unit, section, i)...)
		all = append(all, checkPassiveVoice(unit, section, i)...)
		all = append(all, checkQuantification(unit, section, i)...)
		all = append(all, checkFormatting(unit, section, i)...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Confidence > all[j].Confidence
	})
	if len(all) > MaxSuggestions {
		all = all[:MaxSuggestions]
	}
	for i := range all {
		all[i].Diff = WordDiff(all[i].Original, all[i].Suggestion)
	}
	return nonNil(all)
}

// SplitUnits splits text into sentence or line units with list markers and
// surrounding whitespace removed. Internal whitespace is preserved.
func SplitUnits(text string) []string {
	var units []string
	for _, line := range strings.Split(text, "\n") {
		line = bulletMarker.ReplaceAllString(strings.TrimSpace(line), "")
		for _, raw := range sentenceBreak.Split(line, -1) {
			if unit := strings.TrimSpace(raw); unit != "" {
				units = append(units, unit)
			}
		}
	}
	return units
}

func newSuggestion(kind types.SuggestionType, section types.ResumeSection, index int, rule, original, suggestion, rationale string, confidence float64) types.EditSuggestion {
	return types.EditSuggestion{
		ID:         fmt.Sprintf("%s-%d-%s", section, index, rule),
		Type:       kind,
		Original:   original,
		Suggestion: suggestion,
		Rationale:  rationale,
		Section:    section,
		Confidence: confidence,
	}
}

func checkWeakVerbs(unit string, section types.ResumeSection, index int) []types.EditSuggestion {
	var out []types.EditSuggestion
	var claimed [][]int

	strong := strongVerbFor(unit)
	for i, re := range weakVerbPatterns {
		locs := re.FindAllStringIndex(unit, -1)
		if len(locs) == 0 || overlapsAny(locs, claimed) {
			continue
		}
		claimed = append(claimed, locs...)

		phrase := weakVerbs[i]
		rewritten := re.ReplaceAllStringFunc(unit, func(m string) string {
			return matchCase(m, strong)
		})
		out = append(out, newSuggestion(
			types.SuggestionActionVerb, section, index,
			"weak-verb-"+strings.ReplaceAll(phrase, " ", "-"),
			unit, rewritten,
			fmt.Sprintf("Replace %q with a stronger action verb like %q", phrase, strong),
			ConfidenceWeakVerb,
		))
	}
	return out
}

func overlapsAny(locs, claimed [][]int) bool {
	for _, a := range locs {
		for _, b := range claimed {
			if a[0] < b[1] && b[0] < a[1] {
				return true
			}
		}
	}
	return false
}

func checkPassiveVoice(unit string, section types.ResumeSection, index int) []types.EditSuggestion {
	if !passiveVoice.MatchString(unit) {
		return nil
	}
	rewritten := passiveVoice.ReplaceAllStringFunc(unit, func(m string) string {
		sub := passiveVoice.FindStringSubmatch(m)
		return matchCase(sub[1], sub[2])
	})
	return []types.EditSuggestion{newSuggestion(
		types.SuggestionPassiveVoice, section, index, "passive",
		unit, rewritten,
		"Use active voice instead of passive voice to make your achievements more impactful",
		ConfidencePassiveVoice,
	)}
}

func checkQuantification(unit string, section types.ResumeSection, index int) []types.EditSuggestion {
	if section != types.ResumeExperience || metricToken.MatchString(unit) {
		return nil
	}
	return []types.EditSuggestion{newSuggestion(
		types.SuggestionQuantification, section, index, "quantify",
		unit, unit+quantificationHint,
		"Add quantifiable metrics to demonstrate impact (e.g., percentages, dollar amounts, time saved)",
		ConfidenceQuantification,
	)}
}

func checkFormatting(unit string, section types.ResumeSection, index int) []types.EditSuggestion {
	var out []types.EditSuggestion

	if section == types.ResumeExperience {
		first, size := utf8.DecodeRuneInString(unit)
		if unicode.IsLower(first) {
			out = append(out, newSuggestion(
				types.SuggestionFormatting, section, index, "capitalize",
				unit, string(unicode.ToUpper(first))+unit[size:],
				"Start bullet points with a capital letter",
				ConfidenceCapitalization,
			))
		}
	}

	if repeatedWS.MatchString(unit) {
		out = append(out, newSuggestion(
			types.SuggestionFormatting, section, index, "spacing",
			unit, strings.Join(strings.Fields(unit), " "),
			"Remove extra spaces for cleaner formatting",
			ConfidenceSpacing,
		))
	}
	return out
}

func nonNil(s []types.EditSuggestion) []types.EditSuggestion {
	if s == nil {
		return []types.EditSuggestion{}
	}
	return s
}
