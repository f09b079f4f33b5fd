// Package types provides the value objects shared by extraction, matching, and suggestions.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResumeSection names a section of a structured resume.
type ResumeSection string

// Resume sections
const (
	ResumeSummary    ResumeSection = "summary"
	ResumeExperience ResumeSection = "experience"
	ResumeSkills     ResumeSection = "skills"
	ResumeEducation  ResumeSection = "education"
	ResumeContact    ResumeSection = "contact"
)

// Resume is a candidate resume with both its flat text and structured sections.
type Resume struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Content   string         `json:"content"`
	Sections  ResumeSections `json:"sections"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ResumeSections holds the structured parts of a resume.
type ResumeSections struct {
	Contact    *ContactSection  `json:"contact,omitempty"`
	Summary    string           `json:"summary,omitempty"`
	Experience []ExperienceItem `json:"experience,omitempty" validate:"dive"`
	Education  []EducationItem  `json:"education,omitempty"`
	Skills     []string         `json:"skills,omitempty"`
}

// ContactSection holds the candidate's contact details.
type ContactSection struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ExperienceItem is one position on a resume.
type ExperienceItem struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Description []string `json:"description"`
}

// EducationItem is one education entry on a resume.
type EducationItem struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// JobPosting is a detected or pasted job posting.
type JobPosting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Description string    `json:"description" validate:"required"`
	URL         string    `json:"url,omitempty" validate:"omitempty,url"`
	Source      string    `json:"source,omitempty"`
	DetectedAt  time.Time `json:"detectedAt"`
}

// NewResume returns a resume with a fresh ID and timestamps.
func NewResume(name, content string) *Resume {
	now := time.Now()
	return &Resume{
		ID:        "resume-" + uuid.NewString(),
		Name:      name,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewJobPostingID returns a unique job posting ID.
func NewJobPostingID() string {
	return "job-" + uuid.NewString()
}

// NewExperienceID returns a unique experience item ID.
func NewExperienceID() string {
	return "exp-" + uuid.NewString()
}

// Validate checks the resume's structured fields.
func (r *Resume) Validate() error {
	return newValidator().Struct(r)
}

// SearchText joins the flat content with every structured section so that
// keyword extraction sees terms that only appear in structured fields.
func (r *Resume) SearchText() string {
	parts := []string{r.Content}

	if r.Sections.Summary != "" {
		parts = append(parts, r.Sections.Summary)
	}
	if len(r.Sections.Skills) > 0 {
		parts = append(parts, strings.Join(r.Sections.Skills, " "))
	}
	for _, exp := range r.Sections.Experience {
		parts = append(parts, exp.Position, exp.Company)
		parts = append(parts, exp.Description...)
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// Clone returns a deep copy of the resume.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	c := *r
	if r.Sections.Contact != nil {
		contact := *r.Sections.Contact
		c.Sections.Contact = &contact
	}
	if r.Sections.Experience != nil {
		c.Sections.Experience = make([]ExperienceItem, len(r.Sections.Experience))
		for i, exp := range r.Sections.Experience {
			exp.Description = append([]string(nil), exp.Description...)
			c.Sections.Experience[i] = exp
		}
	}
	if r.Sections.Education != nil {
		c.Sections.Education = append([]EducationItem(nil), r.Sections.Education...)
	}
	if r.Sections.Skills != nil {
		c.Sections.Skills = append([]string(nil), r.Sections.Skills...)
	}
	return &c
}
