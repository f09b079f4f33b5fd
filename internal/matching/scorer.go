// Package matching scores a resume against a job posting and orchestrates the
// keyword-extraction strategies that feed the scorer.
package matching

import (
	"math"
	"strings"

	"github.com/jonathan/ats-matcher/internal/normalize"
	"github.com/jonathan/ats-matcher/internal/types"
)

// Score weights and floors. A category with no job keywords earns its floor.
const (
	HardSkillWeight    = 60.0
	SoftSkillWeight    = 40.0
	HardSkillFloor     = 30.0
	SoftSkillFloor     = 20.0
	MaxMissingKeywords = 10

	// minSubstringKey is the shortest normalized key allowed to match by containment.
	minSubstringKey = 3
)

// Matches reports whether a job keyword and a resume keyword are the same
// skill: equal keys, one key containing the other, or registered synonyms.
func Matches(jobKey, resumeKey string) bool {
	if jobKey == "" || resumeKey == "" {
		return false
	}
	if jobKey == resumeKey {
		return true
	}
	shorter, longer := jobKey, resumeKey
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) >= minSubstringKey && strings.Contains(longer, shorter) {
		return true
	}
	return Synonyms(jobKey, resumeKey)
}

// Score compares job keywords against resume keywords. Job keywords are
// bucketed by Category; a keyword with no category counts as hard. Resume
// keywords match regardless of their category.
func Score(job, resume []types.Keyword) types.ATSScore {
	resumeKeys := make([]string, 0, len(resume))
	for _, kw := range resume {
		if key := keyOf(kw); key != "" {
			resumeKeys = append(resumeKeys, key)
		}
	}

	hard := categoryTally{matched: []string{}, missing: []string{}}
	soft := categoryTally{matched: []string{}, missing: []string{}}
	seen := make(map[string]bool, len(job))
	for _, kw := range job {
		key := keyOf(kw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		tally := &hard
		if kw.Category == types.CategorySoft {
			tally = &soft
		}
		tally.add(kw.Term, matchesAny(key, resumeKeys))
	}

	total := hard.points(HardSkillWeight, HardSkillFloor) + soft.points(SoftSkillWeight, SoftSkillFloor)
	score := int(math.Round(total))
	score = min(max(score, 0), 100)

	missing := append(append([]string{}, hard.missing...), soft.missing...)
	if len(missing) > MaxMissingKeywords {
		missing = missing[:MaxMissingKeywords]
	}

	return types.ATSScore{
		Score:           score,
		MatchedKeywords: append(append([]string{}, hard.matched...), soft.matched...),
		MissingKeywords: missing,
		Analysis: types.SkillReport{
			HardSkills: types.SkillMatch{Matched: hard.matched, Missing: hard.missing},
			SoftSkills: types.SkillMatch{Matched: soft.matched, Missing: soft.missing},
		},
	}
}

// SuggestKeywords returns the missing keywords worth adding to the resume, highest priority first.
func SuggestKeywords(score types.ATSScore) []string {
	n := min(len(score.MissingKeywords), MaxMissingKeywords)
	return append([]string{}, score.MissingKeywords[:n]...)
}

type categoryTally struct {
	matched []string
	missing []string
}

func (t *categoryTally) add(term string, matched bool) {
	if matched {
		t.matched = append(t.matched, term)
	} else {
		t.missing = append(t.missing, term)
	}
}

func (t *categoryTally) points(weight, floor float64) float64 {
	total := len(t.matched) + len(t.missing)
	if total == 0 {
		return floor
	}
	return float64(len(t.matched)) / float64(total) * weight
}

func matchesAny(key string, resumeKeys []string) bool {
	for _, rk := range resumeKeys {
		if Matches(key, rk) {
			return true
		}
	}
	return false
}

func keyOf(kw types.Keyword) string {
	if kw.NormalizedKey != "" {
		return kw.NormalizedKey
	}
	return normalize.Normalize(kw.Term)
}
