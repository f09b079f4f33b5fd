// Package extraction pulls candidate keywords out of job-description and
// resume text and annotates them with section and requirement context.
package extraction

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/ats-matcher/internal/normalize"
	"github.com/jonathan/ats-matcher/internal/types"
)

const (
	// DefaultSingleOccurrenceFloor is the minimum number of single-occurrence keywords kept.
	DefaultSingleOccurrenceFloor = 50
	// DefaultSingleOccurrenceMultiplier scales the single-occurrence cap with the frequent-keyword count.
	DefaultSingleOccurrenceMultiplier = 3

	// placeholder replaces extracted critical phrases; phrase runs never cross it.
	placeholder = "\n"
)

var (
	// phraseRe matches runs of 2-4 word-like tokens joined by a space or hyphen.
	phraseRe = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9.#+]*(?:[ -][A-Za-z0-9][A-Za-z0-9.#+]*){1,3}`)
	// wordRe matches a single word-like token.
	wordRe = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9.#+]*`)
	// numericRe matches tokens that carry no letters.
	numericRe = regexp.MustCompile(`^[0-9.+#]+$`)
)

// Options tunes the rule-based extractor.
type Options struct {
	// SingleOccurrenceFloor and SingleOccurrenceMultiplier bound how many
	// single-occurrence keywords are kept: max(floor, multiplier*frequentCount).
	SingleOccurrenceFloor      int
	SingleOccurrenceMultiplier int
}

// DefaultOptions returns the recall-oriented defaults.
func DefaultOptions() Options {
	return Options{
		SingleOccurrenceFloor:      DefaultSingleOccurrenceFloor,
		SingleOccurrenceMultiplier: DefaultSingleOccurrenceMultiplier,
	}
}

// Candidate is a ranked keyword with its normalized key and frequency.
type Candidate struct {
	Term      string
	Key       string
	Frequency int
}

// Extractor is the rule-based keyword extractor.
type Extractor struct {
	opts Options
}

// NewExtractor returns an extractor; zero-valued options fall back to defaults.
func NewExtractor(opts Options) *Extractor {
	if opts.SingleOccurrenceFloor <= 0 {
		opts.SingleOccurrenceFloor = DefaultSingleOccurrenceFloor
	}
	if opts.SingleOccurrenceMultiplier <= 0 {
		opts.SingleOccurrenceMultiplier = DefaultSingleOccurrenceMultiplier
	}
	return &Extractor{opts: opts}
}

// Extract returns ranked candidate terms using default options.
func Extract(text string) []string {
	return NewExtractor(DefaultOptions()).Extract(text)
}

// Extract returns ranked candidate terms, highest value first.
func (e *Extractor) Extract(text string) []string {
	candidates := e.ExtractCandidates(text)
	terms := make([]string, len(candidates))
	for i, c := range candidates {
		terms[i] = c.Term
	}
	return terms
}

// ExtractCandidates returns ranked candidates: keywords seen at least twice in
// descending frequency order, then single-occurrence keywords in encounter
// order up to the single-occurrence cap.
func (e *Extractor) ExtractCandidates(text string) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw := collect(text)
	return e.rank(raw)
}

type occurrence struct {
	term string
	pos  int
}

// collect runs the critical-phrase, phrase, and word stages and returns every
// surviving occurrence in text order.
func collect(text string) []occurrence {
	critical, working := extractCriticalPhrases(text)

	var out []occurrence
	out = append(out, critical...)
	for _, o := range phraseCandidates(working) {
		if validCandidate(o.term) && validPhrase(o.term) {
			out = append(out, o)
		}
	}
	for _, o := range wordCandidates(working) {
		if validCandidate(o.term) && validWord(o.term) {
			out = append(out, o)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	return out
}

// extractCriticalPhrases pulls critical phrases out of text and returns them
// with the working text in which each match is replaced by the placeholder.
// Replacement keeps string length stable so positions stay comparable.
func extractCriticalPhrases(text string) ([]occurrence, string) {
	working := text
	var found []occurrence

	for _, re := range criticalPhrases {
		for {
			loc := re.FindStringSubmatchIndex(working)
			if loc == nil {
				break
			}
			start, end := loc[2], loc[3]
			term := strings.TrimSpace(working[start:end])
			if validCandidate(term) {
				found = append(found, occurrence{term: term, pos: start})
			}
			working = working[:start] + placeholder + strings.Repeat(" ", end-start-len(placeholder)) + working[end:]
		}
	}
	return found, working
}

func phraseCandidates(text string) []occurrence {
	return matchAll(phraseRe, text)
}

func wordCandidates(text string) []occurrence {
	var out []occurrence
	for _, o := range matchAll(wordRe, text) {
		if len(o.term) >= 2 {
			out = append(out, o)
		}
	}
	return out
}

func matchAll(re *regexp.Regexp, text string) []occurrence {
	locs := re.FindAllStringIndex(text, -1)
	out := make([]occurrence, 0, len(locs))
	for _, loc := range locs {
		term := strings.TrimRight(text[loc[0]:loc[1]], ".")
		if term == "" {
			continue
		}
		out = append(out, occurrence{term: term, pos: loc[0]})
	}
	return out
}

// validCandidate applies the shape and boilerplate checks shared by all candidates.
func validCandidate(term string) bool {
	if !types.ValidTerm(term) {
		return false
	}
	lower := strings.ToLower(term)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

// validPhrase applies the multi-word validity rules.
func validPhrase(phrase string) bool {
	for _, re := range noisePhrasePatterns {
		if re.MatchString(phrase) {
			return false
		}
	}

	words := splitWords(phrase)
	if len(words) < 2 {
		return false
	}

	first, last := words[0], words[len(words)-1]
	if stopWords[first] && !technicalAdjectives[first] {
		return false
	}
	if stopWords[last] && !roleNouns[last] {
		return false
	}

	stops := 0
	substantial := false
	for _, w := range words {
		if stopWords[w] {
			stops++
		} else if len(w) >= 4 {
			substantial = true
		}
		if normalize.IsWhitelisted(w) || technicalAdjectives[w] {
			substantial = true
		}
	}
	if stops == len(words) || stops*2 > len(words) {
		return false
	}
	return substantial
}

// validWord applies the single-word validity rules.
func validWord(word string) bool {
	if normalize.IsWhitelisted(word) {
		return true
	}
	lower := strings.ToLower(word)
	if len(lower) < 3 || numericRe.MatchString(lower) {
		return false
	}
	return !stopWords[lower] && !genericNoiseWords[lower]
}

func splitWords(phrase string) []string {
	return strings.FieldsFunc(strings.ToLower(phrase), func(r rune) bool {
		return r == ' ' || r == '-'
	})
}

// rank counts occurrences by normalized key and orders the result.
func (e *Extractor) rank(occurrences []occurrence) []Candidate {
	type entry struct {
		term  string
		count int
		order int
	}

	byKey := make(map[string]*entry)
	var keys []string
	for _, o := range occurrences {
		key := normalize.Normalize(o.term)
		if key == "" {
			continue
		}
		if en, ok := byKey[key]; ok {
			en.count++
			continue
		}
		byKey[key] = &entry{term: o.term, count: 1, order: len(keys)}
		keys = append(keys, key)
	}

	var frequent, single []string
	for _, key := range keys {
		if byKey[key].count >= 2 {
			frequent = append(frequent, key)
		} else {
			single = append(single, key)
		}
	}
	sort.SliceStable(frequent, func(i, j int) bool {
		return byKey[frequent[i]].count > byKey[frequent[j]].count
	})

	limit := max(e.opts.SingleOccurrenceFloor, e.opts.SingleOccurrenceMultiplier*len(frequent))
	if len(single) > limit {
		single = single[:limit]
	}

	out := make([]Candidate, 0, len(frequent)+len(single))
	for _, key := range append(frequent, single...) {
		en := byKey[key]
		out = append(out, Candidate{Term: en.term, Key: key, Frequency: en.count})
	}
	return out
}
