package parsing

import (
	"strings"

	"github.com/jonathan/ats-matcher/internal/normalize"
	"github.com/jonathan/ats-matcher/internal/types"
)

// displayNames maps normalized keys to the spelling returned to clients.
var displayNames = map[string]string{
	"go":         "Go",
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"kubernetes": "Kubernetes",
	"react":      "React",
	"vue":        "Vue",
	"angular":    "Angular",
	"nodejs":     "Node.js",
	"postgresql": "PostgreSQL",
	"mongodb":    "MongoDB",
	"python":     "Python",
	"cicd":       "CI/CD",
	"cpp":        "C++",
	"c#":         "C#",
	"dotnet":     ".NET",
	"aws":        "AWS",
	"gcp":        "GCP",
	"azure":      "Azure",
	"sql":        "SQL",
	"graphql":    "GraphQL",
	"docker":     "Docker",
	"terraform":  "Terraform",
}

// CanonicalTerm returns the display spelling for a skill name. Variants that
// normalize to a known key ("golang", "js", "k8s") map to one spelling; any
// other term is returned trimmed with its casing untouched.
func CanonicalTerm(term string) string {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := displayNames[normalize.Normalize(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// MergeExperienceRequirements canonicalizes skill names and deduplicates by
// normalized key. The first occurrence keeps its position; duplicates raise
// its years and set IsMinimum when any copy does.
func MergeExperienceRequirements(reqs []types.ExperienceRequirement) []types.ExperienceRequirement {
	merged := make([]types.ExperienceRequirement, 0, len(reqs))
	seen := make(map[string]int)

	for _, req := range reqs {
		skill := CanonicalTerm(req.Skill)
		if skill == "" {
			continue
		}
		key := normalize.Normalize(skill)

		if idx, exists := seen[key]; exists {
			merged[idx].Years = max(merged[idx].Years, req.Years)
			merged[idx].IsMinimum = merged[idx].IsMinimum || req.IsMinimum
			continue
		}

		merged = append(merged, types.ExperienceRequirement{
			Skill:     skill,
			Years:     req.Years,
			IsMinimum: req.IsMinimum,
		})
		seen[key] = len(merged) - 1
	}

	return merged
}
