package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/ats-matcher/internal/normalize"
	"github.com/jonathan/ats-matcher/internal/types"
)

// contextWindow is how many characters on each side of a keyword's first
// occurrence are scanned for requirement cues.
const contextWindow = 100

// Importance weights
const (
	baseImportance        = 50
	repetitionBonus       = 5
	maxRepetitionsCounted = 4
	whitelistBonus        = 10
)

var levelBonus = map[types.RequirementLevel]int{
	types.LevelRequired:  30,
	types.LevelPreferred: 15,
	types.LevelOptional:  5,
	types.LevelNeutral:   0,
}

var sectionBonus = map[types.Section]int{
	types.SectionRequirements:     20,
	types.SectionResponsibilities: 15,
	types.SectionExperience:       15,
	types.SectionPreferred:        10,
	types.SectionCompany:          -10,
	types.SectionUnknown:          0,
}

// headerPattern pairs a section with the pattern recognizing its header line.
type headerPattern struct {
	section types.Section
	re      *regexp.Regexp
}

// headerPatterns are checked in order; the first match classifies a line.
var headerPatterns = []headerPattern{
	{types.SectionPreferred, headerLine(`(?:preferred|desired|bonus|nice[- ]to[- ]haves?)(?: qualifications?| skills| experience| requirements)?|(?:it'?s )?a plus`)},
	{types.SectionRequirements, headerLine(`(?:basic |minimum |required |necessary |key )?(?:requirements?|qualifications?)|required skills|skills(?: (?:&|and) (?:qualifications|requirements|experience))?|what you(?:'ll)? need|what we(?:'re| are) looking for|must[- ]haves?|you have|who you are|ideal candidate`)},
	{types.SectionResponsibilities, headerLine(`(?:key |main |primary )?(?:responsibilities|duties)|what you(?:'ll| will) do|your role|the role|role overview|day[- ]to[- ]day|job description|about the role`)},
	{types.SectionCompany, headerLine(`about (?:us|the company|our company|the team)|company (?:description|overview)|who we are|our (?:mission|values|culture|story)|what we do|why join us|why work (?:with us|here)|benefits|perks(?: (?:&|and) benefits)?|what we offer|compensation|salary|equal opportunity(?: employer)?`)},
	{types.SectionExperience, headerLine(`(?:relevant |professional )?experience|education(?: (?:&|and) experience)?|background`)},
}

func headerLine(p string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^[\s#*•\-]*(?:` + p + `)\s*(?::.*)?$`)
}

var (
	requiredCue  = regexp.MustCompile(`(?i)\b(?:required|must[- ]have|must be|minimum|mandatory|essential|proficien(?:t|cy)|\d+\s*\+?\s*(?:years?|yrs))`)
	preferredCue = regexp.MustCompile(`(?i)\b(?:preferred|nice[- ]to[- ]have|bonus|a plus|desired|desirable|ideally|familiarity with)\b`)
	optionalCue  = regexp.MustCompile(`(?i)\b(?:optional|helpful|beneficial|exposure to|awareness of|interest in|willing(?:ness)? to learn)\b`)
)

// Header is a detected section header.
type Header struct {
	Section types.Section
	Offset  int
	Title   string
}

// Annotation is the context derived for a keyword.
type Annotation struct {
	RequirementLevel types.RequirementLevel
	Section          types.Section
	Importance       int
	Context          string
}

// Annotator annotates keywords against a single text. Headers are detected
// once at construction.
type Annotator struct {
	text    string
	headers []Header
}

// NewAnnotator scans text for section headers.
func NewAnnotator(text string) *Annotator {
	return &Annotator{text: text, headers: DetectHeaders(text)}
}

// Headers returns the detected headers in text order.
func (a *Annotator) Headers() []Header {
	return append([]Header(nil), a.headers...)
}

// Annotate determines requirement level, section, and importance for term.
// Frequency below one is treated as one.
func (a *Annotator) Annotate(term string, frequency int) Annotation {
	start, end := firstOccurrence(a.text, term)

	level := types.LevelNeutral
	section := types.SectionUnknown
	var window string
	if start >= 0 {
		window = surrounding(a.text, start, end, contextWindow)
		level = RequirementLevel(window)
		section = a.sectionAt(start)
	}

	return Annotation{
		RequirementLevel: level,
		Section:          section,
		Importance:       Importance(level, section, frequency, normalize.IsWhitelisted(term)),
		Context:          strings.Join(strings.Fields(window), " "),
	}
}

// Annotate annotates term against text, counting its frequency in text.
func Annotate(text, term string) Annotation {
	return NewAnnotator(text).Annotate(term, CountOccurrences(text, term))
}

// sectionAt returns the section of the nearest header preceding offset.
func (a *Annotator) sectionAt(offset int) types.Section {
	section := types.SectionUnknown
	for _, h := range a.headers {
		if h.Offset > offset {
			break
		}
		section = h.Section
	}
	return section
}

// DetectHeaders returns every section header line in text, ordered by offset.
func DetectHeaders(text string) []Header {
	var headers []Header
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && utf8.RuneCountInString(trimmed) <= 80 {
			for _, hp := range headerPatterns {
				if hp.re.MatchString(trimmed) {
					headers = append(headers, Header{Section: hp.section, Offset: offset, Title: trimmed})
					break
				}
			}
		}
		offset += len(line)
	}
	return headers
}

// RequirementLevel classifies the requirement strength implied by window.
// Required cues win over preferred, preferred over optional.
func RequirementLevel(window string) types.RequirementLevel {
	switch {
	case requiredCue.MatchString(window):
		return types.LevelRequired
	case preferredCue.MatchString(window):
		return types.LevelPreferred
	case optionalCue.MatchString(window):
		return types.LevelOptional
	default:
		return types.LevelNeutral
	}
}

// Importance scores a keyword from 0 to 100.
func Importance(level types.RequirementLevel, section types.Section, frequency int, whitelisted bool) int {
	score := baseImportance + levelBonus[level] + sectionBonus[section]
	if frequency > 1 {
		score += min(frequency-1, maxRepetitionsCounted) * repetitionBonus
	}
	if whitelisted {
		score += whitelistBonus
	}
	return max(0, min(100, score))
}

// CountOccurrences counts whole-token, case-insensitive occurrences of term in text.
func CountOccurrences(text, term string) int {
	return len(termSpans(text, term))
}

// firstOccurrence returns the byte span of term's first whole-token match, or
// a plain case-insensitive substring match when no whole-token match exists.
func firstOccurrence(text, term string) (int, int) {
	term = strings.TrimSpace(term)
	if term == "" {
		return -1, -1
	}
	if spans := termSpans(text, term); len(spans) > 0 {
		return spans[0][0], spans[0][1]
	}
	loc := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term)).FindStringIndex(text)
	if loc == nil {
		return -1, -1
	}
	return loc[0], loc[1]
}

// termSpans returns the case-insensitive matches of term that are not glued
// to a neighbouring letter or digit.
func termSpans(text, term string) [][]int {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	var spans [][]int
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if tokenBoundary(text, loc[0], loc[1]) {
			spans = append(spans, loc)
		}
	}
	return spans
}

func tokenBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// surrounding returns up to radius bytes either side of [start,end), aligned
// to rune boundaries.
func surrounding(text string, start, end, radius int) string {
	from := max(0, start-radius)
	to := min(len(text), end+radius)
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}
	return text[from:to]
}
