// Package categorize sorts keywords into hard and soft skills.
//
// Soft-skill patterns are checked first, then hard-skill patterns, then shape
// heuristics. Keywords that match none of these are discarded rather than
// forced into a bucket; Categorizer counts discards so the rate is observable.
package categorize

import (
	"regexp"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jonathan/ats-matcher/internal/logger"
	"github.com/jonathan/ats-matcher/internal/normalize"
	"github.com/jonathan/ats-matcher/internal/types"
)

// Rule names the step that classified a keyword.
type Rule string

// Classification rules, in evaluation order
const (
	RuleSoftPattern Rule = "soft_pattern"
	RuleHardPattern Rule = "hard_pattern"
	RuleHeuristic   Rule = "heuristic"
	RuleDiscarded   Rule = "discarded"
)

// minHeuristicKeyLength is the normalized length at which an unmatched keyword
// is assumed to be a hard skill.
const minHeuristicKeyLength = 6

var (
	acronymRe      = regexp.MustCompile(`[A-Z]{2,}`)
	digitRe        = regexp.MustCompile(`[0-9]`)
	shortHyphenRe  = regexp.MustCompile(`^[A-Za-z0-9]{1,6}-[A-Za-z0-9]{1,8}$`)
	hyphenSplitter = strings.NewReplacer("-", " ")
)

// Decision is the outcome of classifying one keyword.
type Decision struct {
	Category types.Category
	Rule     Rule
}

// Kept reports whether the keyword was placed in a bucket.
func (d Decision) Kept() bool {
	return d.Rule != RuleDiscarded
}

// Classify classifies term without recording any statistics.
func Classify(term string) Decision {
	term = strings.TrimSpace(term)
	if term == "" {
		return Decision{Rule: RuleDiscarded}
	}
	lower := strings.ToLower(term)

	spaced := hyphenSplitter.Replace(lower)

	if matchesAny(softPatterns, lower) || matchesAny(softPatterns, spaced) {
		return Decision{Category: types.CategorySoft, Rule: RuleSoftPattern}
	}
	if matchesAny(hardPatterns, lower) || matchesAny(hardPatterns, spaced) {
		return Decision{Category: types.CategoryHard, Rule: RuleHardPattern}
	}
	if looksTechnical(term) {
		return Decision{Category: types.CategoryHard, Rule: RuleHeuristic}
	}
	return Decision{Rule: RuleDiscarded}
}

// looksTechnical applies the shape heuristics for unmatched keywords.
func looksTechnical(term string) bool {
	switch {
	case digitRe.MatchString(term):
		return true
	case acronymRe.MatchString(term):
		return true
	case strings.ContainsAny(term, "./"):
		return true
	case shortHyphenRe.MatchString(term):
		return true
	}
	return len(normalize.Normalize(term)) >= minHeuristicKeyLength
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Stats is a snapshot of a Categorizer's counters.
type Stats struct {
	Hard      int64 `json:"hard"`
	Soft      int64 `json:"soft"`
	Discarded int64 `json:"discarded"`
}

// DiscardRate is the fraction of classified keywords that were discarded.
func (s Stats) DiscardRate() float64 {
	total := s.Hard + s.Soft + s.Discarded
	if total == 0 {
		return 0
	}
	return float64(s.Discarded) / float64(total)
}

// Categorizer classifies keywords and counts the outcomes. It is safe for
// concurrent use.
type Categorizer struct {
	log       *zap.Logger
	hard      atomic.Int64
	soft      atomic.Int64
	discarded atomic.Int64
}

// New returns a Categorizer. A nil logger disables discard logging.
func New(log *zap.Logger) *Categorizer {
	return &Categorizer{log: logger.OrNop(log).Named("categorize")}
}

// Categorize classifies term and records the outcome.
func (c *Categorizer) Categorize(term string) Decision {
	d := Classify(term)
	switch {
	case !d.Kept():
		c.discarded.Add(1)
		c.log.Debug("keyword discarded", zap.String("term", term))
	case d.Category == types.CategorySoft:
		c.soft.Add(1)
	default:
		c.hard.Add(1)
	}
	return d
}

// Split sorts keywords into hard and soft buckets, setting each copy's
// Category. Discarded keywords appear in neither bucket.
func (c *Categorizer) Split(keywords []types.Keyword) (hard, soft []types.Keyword) {
	for _, kw := range keywords {
		d := c.Categorize(kw.Term)
		if !d.Kept() {
			continue
		}
		kw.Category = d.Category
		if d.Category == types.CategorySoft {
			soft = append(soft, kw)
		} else {
			hard = append(hard, kw)
		}
	}
	return hard, soft
}

// Stats returns the current counters.
func (c *Categorizer) Stats() Stats {
	return Stats{
		Hard:      c.hard.Load(),
		Soft:      c.soft.Load(),
		Discarded: c.discarded.Load(),
	}
}

// Reset zeroes the counters.
func (c *Categorizer) Reset() {
	c.hard.Store(0)
	c.soft.Store(0)
	c.discarded.Store(0)
}
