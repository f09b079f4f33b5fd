// Package normalize canonicalizes keyword strings into comparison keys.
//
// Normalize is the single equality oracle for keywords: two terms are the same
// keyword iff their normalized keys are equal. The pipeline runs in a fixed
// order:
//
//  1. lowercase and trim
//  2. whitelist short-circuit (exact short technical tokens such as "c#", "go", "ai")
//  3. special-pattern substitution ("c++" -> "cpp", "node.js" -> "nodejs", ...)
//  4. separator collapse ("machine-learning" == "machine learning" == "machinelearning")
//  5. symbol strip (anything not a letter or digit)
//  6. synonym resolution ("js" -> "javascript", "reactjs" -> "react")
package normalize

import (
	"strings"
	"unicode"
)

// Stage is one named step of the normalization pipeline.
type Stage struct {
	Name  string
	Apply func(string) string
}

// stages run after the whitelist short-circuit, in order.
var stages = []Stage{
	{Name: "substitute-special", Apply: SubstituteSpecial},
	{Name: "collapse-separators", Apply: CollapseSeparators},
	{Name: "strip-symbols", Apply: StripSymbols},
	{Name: "resolve-synonym", Apply: ResolveSynonym},
}

// Stages returns the ordered pipeline stages applied to non-whitelisted terms.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// Normalize returns the comparison key for raw. It never fails; an empty or
// all-symbol input yields "".
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if whitelist[s] {
		return s
	}
	for _, stage := range stages {
		s = stage.Apply(s)
	}
	return s
}

// Equal reports whether a and b normalize to the same key.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// IsWhitelisted reports whether term is a short technical token exempt from
// stop-word and length filtering.
func IsWhitelisted(term string) bool {
	return whitelist[strings.ToLower(strings.TrimSpace(term))]
}

// SubstituteSpecial rewrites symbol-bearing technical names into alphanumeric
// forms. Substitutions apply in declaration order.
func SubstituteSpecial(s string) string {
	for _, sub := range specialSubstitutions {
		s = strings.ReplaceAll(s, sub.pattern, sub.replacement)
	}
	return s
}

// CollapseSeparators removes hyphens, underscores, and whitespace.
func CollapseSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// StripSymbols removes every rune that is not a letter or digit.
func StripSymbols(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// ResolveSynonym maps a collapsed key to its canonical form, if one is registered.
func ResolveSynonym(s string) string {
	if canonical, ok := synonyms[s]; ok {
		return canonical
	}
	return s
}
