// Package types provides the value objects shared by extraction, matching, and suggestions.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxTermLength is the longest keyword term any extractor may emit.
const MaxTermLength = 50

// Category buckets a keyword as a hard (technical) or soft (behavioral) skill.
type Category string

// Keyword categories
const (
	CategoryHard Category = "hard"
	CategorySoft Category = "soft"
)

// RequirementLevel is how strongly a posting implies a keyword is mandatory.
type RequirementLevel string

// Requirement levels, strongest first
const (
	LevelRequired  RequirementLevel = "required"
	LevelPreferred RequirementLevel = "preferred"
	LevelOptional  RequirementLevel = "optional"
	LevelNeutral   RequirementLevel = "neutral"
)

// Section is the job-description section a keyword was found under.
type Section string

// Job-description sections
const (
	SectionRequirements     Section = "requirements"
	SectionResponsibilities Section = "responsibilities"
	SectionPreferred        Section = "preferred"
	SectionExperience       Section = "experience"
	SectionCompany          Section = "company"
	SectionUnknown          Section = "unknown"
)

// Keyword is a single extracted, categorized term. Keywords are produced fresh
// by every extraction call and never mutated afterwards.
type Keyword struct {
	Term             string           `json:"term" validate:"keywordterm"`
	NormalizedKey    string           `json:"normalizedKey,omitempty"`
	Category         Category         `json:"category" validate:"omitempty,oneof=hard soft"`
	RequirementLevel RequirementLevel `json:"requirementLevel,omitempty" validate:"omitempty,oneof=required preferred optional neutral"`
	Importance       int              `json:"importance" validate:"min=0,max=100"`
	Section          Section          `json:"section,omitempty"`
	Frequency        int              `json:"frequency,omitempty" validate:"min=0"`
	Context          string           `json:"context,omitempty"`
}

// ExperienceRequirement is a "N years of X" requirement.
type ExperienceRequirement struct {
	Skill     string `json:"skill" validate:"required"`
	Years     int    `json:"years" validate:"min=0,max=60"`
	IsMinimum bool   `json:"isMinimum"`
}

// ExtractionResult is the output of every extraction strategy.
type ExtractionResult struct {
	HardSkills             []Keyword               `json:"hardSkills" validate:"dive"`
	SoftSkills             []Keyword               `json:"softSkills" validate:"dive"`
	ExperienceRequirements []ExperienceRequirement `json:"experienceRequirements" validate:"dive"`
	Certifications         []string                `json:"certifications"`
}

// Keywords returns hard skills followed by soft skills.
func (r *ExtractionResult) Keywords() []Keyword {
	all := make([]Keyword, 0, len(r.HardSkills)+len(r.SoftSkills))
	all = append(all, r.HardSkills...)
	return append(all, r.SoftSkills...)
}

// Empty reports whether the result carries no keywords at all.
func (r *ExtractionResult) Empty() bool {
	return r == nil || len(r.HardSkills)+len(r.SoftSkills) == 0
}

// Validate checks every keyword term is non-empty, trimmed, single-line, and at most MaxTermLength.
func (r *ExtractionResult) Validate() error {
	return newValidator().Struct(r)
}

// ValidTerm reports whether term satisfies the keyword term invariant.
func ValidTerm(term string) bool {
	if term == "" || term != strings.TrimSpace(term) {
		return false
	}
	if strings.ContainsAny(term, "\r\n") {
		return false
	}
	return len([]rune(term)) <= MaxTermLength
}

func newValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("keywordterm", func(fl validator.FieldLevel) bool {
		return ValidTerm(fl.Field().String())
	})
	return validate
}
