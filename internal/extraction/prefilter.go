package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxCompanyChars caps how much company-marketing text survives the pre-filter.
const DefaultMaxCompanyChars = 1000

// BlockKind classifies a blank-line separated block of a job posting.
type BlockKind int

// Block kinds, in output order
const (
	BlockRequirement BlockKind = iota
	BlockNeutral
	BlockCompany
)

func (k BlockKind) String() string {
	switch k {
	case BlockRequirement:
		return "requirement"
	case BlockCompany:
		return "company"
	default:
		return "neutral"
	}
}

var (
	blockSplit = regexp.MustCompile(`\n[ \t]*\n`)

	requirementBlockHeaders = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:^|\n)\s*(?:requirements?|qualifications?|skills?|what (?:we're|we are|you'll|you will) (?:be )?looking for|you have|must have|what you'll need|ideal candidate|necessary qualifications?|required qualifications?|minimum qualifications?|preferred qualifications?|basic qualifications?)[\s:]*\n`),
		regexp.MustCompile(`(?i)(?:^|\n)\s*(?:responsibilities|duties|what you'll do|what you will do|your role|the role|role overview|day to day|key responsibilities)[\s:]*\n`),
		regexp.MustCompile(`(?i)(?:^|\n)\s*(?:education|experience|background)[\s:]*\n`),
	}

	companyBlockHeaders = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:^|\n)\s*(?:company (?:description|overview)|about (?:us|the company|our company)|who we are|our company|the company|our mission|our values|what we do|why join us|why work (?:with us|here))[\s:]*\n`),
		regexp.MustCompile(`(?i)(?:^|\n)\s*(?:benefits|perks|what we offer|compensation|salary)[\s:]*\n`),
	}

	requirementFallback = regexp.MustCompile(`(?i)\b(?:responsibilities|requirements|qualifications|skills|experience)\b`)
)

// PrefilterOptions tunes PrioritizeSectionsWithOptions.
type PrefilterOptions struct {
	// MaxCompanyChars truncates the trailing company-marketing text; zero or
	// negative keeps it all.
	MaxCompanyChars int
}

// PrioritizeSections reorders a raw posting so requirement blocks come first,
// then neutral blocks, then company-marketing blocks truncated to
// DefaultMaxCompanyChars.
func PrioritizeSections(text string) string {
	return PrioritizeSectionsWithOptions(text, PrefilterOptions{MaxCompanyChars: DefaultMaxCompanyChars})
}

// PrioritizeSectionsWithOptions is PrioritizeSections with an explicit company cap.
func PrioritizeSectionsWithOptions(text string, opts PrefilterOptions) string {
	var requirement, neutral, company []string
	for _, block := range blockSplit.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		switch ClassifyBlock(block) {
		case BlockRequirement:
			requirement = append(requirement, block)
		case BlockCompany:
			company = append(company, block)
		default:
			neutral = append(neutral, block)
		}
	}

	companyText := strings.Join(company, "\n\n")
	if opts.MaxCompanyChars > 0 && len(companyText) > opts.MaxCompanyChars {
		companyText = strings.TrimSpace(truncateBytes(companyText, opts.MaxCompanyChars))
	}

	parts := append(requirement, neutral...)
	if companyText != "" {
		parts = append(parts, companyText)
	}
	return strings.Join(parts, "\n\n")
}

// ClassifyBlock classifies one block by its header line, falling back to
// requirement vocabulary anywhere in the block.
func ClassifyBlock(block string) BlockKind {
	probe := block + "\n"
	for _, re := range requirementBlockHeaders {
		if re.MatchString(probe) {
			return BlockRequirement
		}
	}
	for _, re := range companyBlockHeaders {
		if re.MatchString(probe) {
			return BlockCompany
		}
	}
	if requirementFallback.MatchString(block) {
		return BlockRequirement
	}
	return BlockNeutral
}

func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
