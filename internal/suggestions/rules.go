package suggestions

import (
	"regexp"
	"strings"
)

// Rule confidences. Suggestions are ranked by these values.
const (
	ConfidenceSpacing        = 0.95
	ConfidenceCapitalization = 0.9
	ConfidenceWeakVerb       = 0.8
	ConfidencePassiveVoice   = 0.7
	ConfidenceQuantification = 0.6
)

// quantificationHint is appended to experience units that carry no metric.
const quantificationHint = ` [Add specific metrics: e.g., "resulting in 30% increase in efficiency"]`

// weakVerbs is ordered longest first so that "was responsible for" claims
// its span before "responsible for" can.
var weakVerbs = []string{
	"was in charge of",
	"was responsible for",
	"responsible for",
	"helped with",
	"worked on",
	"assisted",
	"tried",
	"used",
	"made",
	"did",
	"got",
	"had",
}

var weakVerbPatterns = compileWeakVerbs(weakVerbs)

func compileWeakVerbs(phrases []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(phrases))
	for i, p := range phrases {
		out[i] = regexp.MustCompile(`(?i)\b` + strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`) + `\b`)
	}
	return out
}

// strongVerbRule picks a replacement verb from context words in the unit.
type strongVerbRule struct {
	context *regexp.Regexp
	verb    string
}

var strongVerbRules = []strongVerbRule{
	{regexp.MustCompile(`(?i)\b(?:team|teams|people|members|staff)\b`), "led"},
	{regexp.MustCompile(`(?i)\b(?:create|created|build|built|develop|developed)`), "developed"},
	{regexp.MustCompile(`(?i)\b(?:improve|improved|better|enhance|enhanced)`), "improved"},
	{regexp.MustCompile(`(?i)\b(?:analy[sz]e|analy[sz]ed|data|research)`), "analyzed"},
}

const defaultStrongVerb = "managed"

var (
	passiveVoice = regexp.MustCompile(`(?i)\b(was|were|is|are|been)\s+([a-z]+ed|managed|led|built|created)\b`)
	metricToken  = regexp.MustCompile(`(?i)\d|[$€£%]|\b(?:million|billion|thousand)\b`)
	repeatedWS   = regexp.MustCompile(`\s{2,}`)

	// sentenceBreak ends a sentence only when followed by whitespace, so
	// "Node.js" and "3.5" stay intact.
	sentenceBreak = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

	// bulletMarker strips list markers from the start of a unit.
	bulletMarker = regexp.MustCompile(`^(?:[•●▪◦‣*-]|\d+[.)])\s+`)
)

func strongVerbFor(unit string) string {
	for _, r := range strongVerbRules {
		if r.context.MatchString(unit) {
			return r.verb
		}
	}
	return defaultStrongVerb
}

// matchCase capitalizes replacement when the text it replaces started with
// an uppercase letter.
func matchCase(replaced, replacement string) string {
	if replaced == "" || replacement == "" {
		return replacement
	}
	if first := replaced[0]; first >= 'A' && first <= 'Z' {
		return strings.ToUpper(replacement[:1]) + replacement[1:]
	}
	return replacement
}
