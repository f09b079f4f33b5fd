package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() *Resume {
	r := NewResume("Jane Doe", "Jane Doe\nSoftware engineer")
	r.Sections = ResumeSections{
		Contact: &ContactSection{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-123-4567"},
		Summary: "Backend engineer focused on Go services",
		Experience: []ExperienceItem{
			{
				ID:          NewExperienceID(),
				Company:     "Acme",
				Position:    "Engineer",
				Description: []string{"Built payment APIs in Go", "Worked on Kubernetes migrations"},
			},
		},
		Skills: []string{"Go", "Kubernetes"},
	}
	return r
}

func TestNewResume(t *testing.T) {
	r := NewResume("name", "content")
	assert.True(t, strings.HasPrefix(r.ID, "resume-"))
	assert.False(t, r.CreatedAt.IsZero())
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)
	assert.NotEqual(t, NewExperienceID(), NewExperienceID())
}

func TestResume_SearchText(t *testing.T) {
	text := sampleResume().SearchText()
	for _, want := range []string{"Software engineer", "Go services", "Kubernetes", "Acme", "payment APIs"} {
		assert.Contains(t, text, want)
	}
}

func TestResume_Clone(t *testing.T) {
	original := sampleResume()
	clone := original.Clone()
	require.NotNil(t, clone)

	clone.Sections.Experience[0].Description[0] = "changed"
	clone.Sections.Skills[0] = "Rust"
	clone.Sections.Contact.Email = "other@example.com"

	assert.Equal(t, "Built payment APIs in Go", original.Sections.Experience[0].Description[0])
	assert.Equal(t, "Go", original.Sections.Skills[0])
	assert.Equal(t, "jane@example.com", original.Sections.Contact.Email)

	var nilResume *Resume
	assert.Nil(t, nilResume.Clone())
}

func TestResume_Validate(t *testing.T) {
	r := sampleResume()
	assert.NoError(t, r.Validate())

	r.Sections.Contact.Email = "not-an-email"
	assert.Error(t, r.Validate())
}

func TestEditSuggestion_Validate(t *testing.T) {
	valid := EditSuggestion{
		ID:         "experience-0-weak-verb",
		Type:       SuggestionActionVerb,
		Original:   "worked on APIs",
		Suggestion: "developed APIs",
		Section:    ResumeExperience,
		Confidence: 0.8,
	}
	assert.NoError(t, valid.Validate())

	invalid := valid
	invalid.Section = "hobbies"
	assert.Error(t, invalid.Validate())

	invalid = valid
	invalid.Confidence = 1.5
	assert.Error(t, invalid.Validate())
}
