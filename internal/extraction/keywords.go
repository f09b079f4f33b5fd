package extraction

import (
	"strings"

	"github.com/jonathan/ats-matcher/internal/types"
)

// Keywords runs the rule-based extractor over text and annotates every
// candidate with its section, requirement level, and importance. The result
// keeps the extractor's ranking. Category is left empty for the categorizer.
func (e *Extractor) Keywords(text string) ([]types.Keyword, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &InputError{Field: "text", Message: "text is empty"}
	}

	candidates := e.ExtractCandidates(text)
	annotator := NewAnnotator(text)

	keywords := make([]types.Keyword, 0, len(candidates))
	for _, c := range candidates {
		a := annotator.Annotate(c.Term, c.Frequency)
		keywords = append(keywords, types.Keyword{
			Term:             c.Term,
			NormalizedKey:    c.Key,
			RequirementLevel: a.RequirementLevel,
			Importance:       a.Importance,
			Section:          a.Section,
			Frequency:        c.Frequency,
			Context:          a.Context,
		})
	}
	return keywords, nil
}
