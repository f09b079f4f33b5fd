package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/ats-matcher/internal/normalize"
	"github.com/jonathan/ats-matcher/internal/types"
)

var (
	yearsRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(\+|plus)?\s*(?:(?:-|to)\s*\d{1,2}\s*)?(?:years?|yrs?)(?:'s?)?(?:\s+of)?(?:\s+(?:professional|hands-on|relevant|industry|commercial|working|production))?(?:\s+experience)?(?:\s+(?:with|in|using|on|building|developing|as|of))?\s+([A-Za-z0-9][A-Za-z0-9.#+/-]*(?:\s+[A-Za-z0-9][A-Za-z0-9.#+/-]*){0,3})`)
	minimumPrefixRe = regexp.MustCompile(`(?i)(?:at least|minimum(?: of)?|min\.?|no less than)\s*$`)

	certificationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bAWS Certified(?: [A-Z][A-Za-z-]*){1,4}`),
		regexp.MustCompile(`\b(?:Google|Microsoft|Azure|Oracle|Salesforce|Cisco) Certified(?: [A-Z][A-Za-z-]*){1,4}`),
		regexp.MustCompile(`\bCertified [A-Z][A-Za-z]*(?: [A-Z][A-Za-z]*){0,3}`),
		regexp.MustCompile(`\bCompTIA (?:A\+|Security\+|Network\+|Cloud\+|CySA\+|PenTest\+)`),
		regexp.MustCompile(`\b(?:PMP|CISSP|CISM|CISA|CCNA|CCNP|CCIE|CKA|CKAD|CKS|CPA|CFA|PHR|SPHR|SHRM-CP|SHRM-SCP|CSM|PSM|ITIL|OSCP|CEH|RHCE|RHCSA)\b`),
		regexp.MustCompile(`\bSix Sigma(?: (?:Green|Black|Yellow) Belt)?`),
		regexp.MustCompile(`\b[A-Z][A-Za-z0-9+]*(?: [A-Z][A-Za-z0-9+]*){0,3} (?:Certification|Certificate)\b`),
	}
)

// ExperienceRequirements finds "N years of X" requirements, deduplicated by
// normalized skill in encounter order.
func ExperienceRequirements(text string) []types.ExperienceRequirement {
	var out []types.ExperienceRequirement
	seen := make(map[string]bool)

	for _, m := range yearsRe.FindAllStringSubmatchIndex(text, -1) {
		years, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || years == 0 {
			continue
		}
		skill := trimSkill(text[m[6]:m[7]])
		if skill == "" {
			continue
		}
		key := normalize.Normalize(skill)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		isMinimum := m[4] >= 0 || minimumPrefixRe.MatchString(text[max(0, m[0]-20):m[0]])
		out = append(out, types.ExperienceRequirement{Skill: skill, Years: years, IsMinimum: isMinimum})
	}
	return out
}

// trimSkill keeps leading skill tokens up to the first stop word or
// punctuation mark.
func trimSkill(raw string) string {
	var kept []string
	for _, field := range strings.Fields(raw) {
		tok := strings.TrimRight(field, ".,;:")
		lower := strings.ToLower(tok)
		if tok == "" || stopWords[lower] || genericNoiseWords[lower] {
			break
		}
		kept = append(kept, tok)
		if tok != field {
			break
		}
	}
	skill := strings.Join(kept, " ")
	if !types.ValidTerm(skill) {
		return ""
	}
	return skill
}

// Certifications finds certification names, deduplicated case-insensitively.
func Certifications(text string) []string {
	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for _, re := range certificationPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			hits = append(hits, hit{name: strings.TrimSpace(text[loc[0]:loc[1]]), pos: loc[0]})
		}
	}

	// Earlier and longer matches win so "AWS Certified Solutions Architect"
	// suppresses the shorter "Certified Solutions Architect" inside it.
	var out []string
	seen := make(map[string]bool)
	for len(hits) > 0 {
		best := 0
		for i, h := range hits {
			if h.pos < hits[best].pos || (h.pos == hits[best].pos && len(h.name) > len(hits[best].name)) {
				best = i
			}
		}
		h := hits[best]
		hits = append(hits[:best], hits[best+1:]...)

		lower := strings.ToLower(h.name)
		if seen[lower] || !types.ValidTerm(h.name) || containedIn(lower, seen) {
			continue
		}
		seen[lower] = true
		out = append(out, h.name)
	}
	return out
}

func containedIn(name string, seen map[string]bool) bool {
	for s := range seen {
		if strings.Contains(s, name) {
			return true
		}
	}
	return false
}
