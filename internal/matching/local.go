package matching

import (
	"sort"

	"github.com/jonathan/ats-matcher/internal/categorize"
	"github.com/jonathan/ats-matcher/internal/extraction"
	"github.com/jonathan/ats-matcher/internal/types"
)

// LocalExtractor is the rule-based strategy: rules, context annotation, then
// categorization, plus experience requirements and certifications.
type LocalExtractor struct {
	rules       *extraction.Extractor
	categorizer *categorize.Categorizer
}

// NewLocalExtractor wires a rule extractor and a categorizer.
func NewLocalExtractor(opts extraction.Options, categorizer *categorize.Categorizer) *LocalExtractor {
	if categorizer == nil {
		categorizer = categorize.New(nil)
	}
	return &LocalExtractor{rules: extraction.NewExtractor(opts), categorizer: categorizer}
}

// Extract builds an ExtractionResult from text. Keywords in each bucket are
// ordered by importance, highest first; ties keep extraction order.
func (l *LocalExtractor) Extract(text string) (*types.ExtractionResult, error) {
	keywords, err := l.rules.Keywords(text)
	if err != nil {
		return nil, err
	}

	hard, soft := l.categorizer.Split(keywords)
	return &types.ExtractionResult{
		HardSkills:             byImportance(hard),
		SoftSkills:             byImportance(soft),
		ExperienceRequirements: nonNil(extraction.ExperienceRequirements(text)),
		Certifications:         nonNil(extraction.Certifications(text)),
	}, nil
}

// Stats exposes the categorizer's counters, including discards.
func (l *LocalExtractor) Stats() categorize.Stats {
	return l.categorizer.Stats()
}

func byImportance(keywords []types.Keyword) []types.Keyword {
	out := append([]types.Keyword{}, keywords...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Importance > out[j].Importance
	})
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Keywords returns every annotated rule-based keyword in text without
// categorizing, so nothing is discarded. Used for resume text, where any
// term may satisfy a job keyword.
func (l *LocalExtractor) Keywords(text string) ([]types.Keyword, error) {
	return l.rules.Keywords(text)
}
