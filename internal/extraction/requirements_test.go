package extraction

import (
	"testing"

	"github.com/jonathan/ats-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestExperienceRequirements(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []types.ExperienceRequirement
	}{
		{
			name: "plus sign is a minimum",
			text: "5+ years of experience with Python and Django",
			want: []types.ExperienceRequirement{{Skill: "Python", Years: 5, IsMinimum: true}},
		},
		{
			name: "at least prefix",
			text: "At least 3 years of Go development",
			want: []types.ExperienceRequirement{{Skill: "Go development", Years: 3, IsMinimum: true}},
		},
		{
			name: "range with trailing experience",
			text: "2-4 years Java experience",
			want: []types.ExperienceRequirement{{Skill: "Java", Years: 2, IsMinimum: false}},
		},
		{
			name: "no skill named",
			text: "5 years of experience.",
			want: nil,
		},
		{
			name: "first mention wins",
			text: "3 years of Python. 5 years of Python",
			want: []types.ExperienceRequirement{{Skill: "Python", Years: 3, IsMinimum: false}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExperienceRequirements(tt.text))
		})
	}
}

func TestCertifications(t *testing.T) {
	text := "AWS Certified Solutions Architect or PMP certification preferred. CompTIA Security+ a plus."

	assert.Equal(t, []string{"AWS Certified Solutions Architect", "PMP", "CompTIA Security+"}, Certifications(text))
}

func TestCertifications_Dedupes(t *testing.T) {
	assert.Equal(t, []string{"CKA"}, Certifications("CKA required. cka or CKA welcome."))
}

func TestCertifications_None(t *testing.T) {
	assert.Empty(t, Certifications("We ship Go services."))
}
