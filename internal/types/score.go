// Package types provides the value objects shared by extraction, matching, and suggestions.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ATSScore is the compatibility score between a job posting and a resume.
type ATSScore struct {
	Score           int         `json:"score"`
	MatchedKeywords []string    `json:"matchedKeywords"`
	MissingKeywords []string    `json:"missingKeywords"`
	Analysis        SkillReport `json:"analysis"`
}

// SkillReport splits matched and missing terms by category.
type SkillReport struct {
	HardSkills SkillMatch `json:"hardSkills"`
	SoftSkills SkillMatch `json:"softSkills"`
}

// SkillMatch lists matched and missing terms for one category.
type SkillMatch struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}
