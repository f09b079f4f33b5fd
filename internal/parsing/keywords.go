// Package parsing turns a job description into categorized ATS keywords by
// prompting an LLM for structured JSON and validating what comes back.
package parsing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/ats-matcher/internal/llm"
	"github.com/jonathan/ats-matcher/internal/normalize"
	"github.com/jonathan/ats-matcher/internal/prompts"
	"github.com/jonathan/ats-matcher/internal/schemas"
	"github.com/jonathan/ats-matcher/internal/types"
	schemafiles "github.com/jonathan/ats-matcher/schemas"
)

// Extraction call settings
const (
	MaxDescriptionChars = 3000
	Temperature         = 0.3
	MaxOutputTokens     = 1500
	MaxPerCategory      = 25
)

// rawKeyword mirrors the model output before sanitizing; models sometimes
// return fractional importance.
type rawKeyword struct {
	Term             string  `json:"term"`
	Importance       float64 `json:"importance"`
	Category         string  `json:"category"`
	RequirementLevel string  `json:"requirementLevel"`
	Context          string  `json:"context"`
}

type rawResult struct {
	HardSkills             []rawKeyword                  `json:"hardSkills"`
	SoftSkills             []rawKeyword                  `json:"softSkills"`
	ExperienceRequirements []types.ExperienceRequirement `json:"experienceRequirements"`
	Certifications         []string                      `json:"certifications"`
}

// ExtractKeywords sends the first MaxDescriptionChars of jobDescription to the
// model and returns the validated extraction plus usage metadata.
func ExtractKeywords(ctx context.Context, client llm.Client, jobDescription string) (*types.ExtractionResult, *types.ExtractionMeta, error) {
	text := strings.TrimSpace(jobDescription)
	if text == "" {
		return nil, nil, &InputError{Field: "jobDescription", Message: "job description is required"}
	}

	system, task, err := prompts.KeywordExtraction()
	if err != nil {
		return nil, nil, &ModelError{Stage: "load prompts", Cause: err}
	}

	resp, err := client.Generate(ctx, llm.Request{
		System:      system,
		Prompt:      buildExtractionPrompt(task, truncate(text, MaxDescriptionChars)),
		Tier:        llm.TierStandard,
		Temperature: Temperature,
		MaxTokens:   MaxOutputTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, nil, &ModelError{Stage: "generate", Cause: err}
	}

	result, err := parseJSONResponse(resp.Text)
	if err != nil {
		return nil, nil, err
	}
	if err := validateResult(result); err != nil {
		return nil, nil, err
	}

	return result, &types.ExtractionMeta{TokensUsed: resp.TokensUsed, Model: resp.Model}, nil
}

func buildExtractionPrompt(task, jobText string) string {
	task = prompts.Format(task, map[string]string{"MaxPerCategory": strconv.Itoa(MaxPerCategory)})
	return llm.BuildExtractionPrompt(llm.KeywordExtractionSchema(task), jobText)
}

// parseJSONResponse decodes and sanitizes the model output.
func parseJSONResponse(text string) (*types.ExtractionResult, error) {
	var raw rawResult
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(text)), &raw); err != nil {
		return nil, &OutputError{Message: "response is not JSON", Cause: err}
	}
	return postProcess(&raw), nil
}

func postProcess(raw *rawResult) *types.ExtractionResult {
	result := &types.ExtractionResult{
		HardSkills:             postProcessKeywords(raw.HardSkills, types.CategoryHard),
		SoftSkills:             postProcessKeywords(raw.SoftSkills, types.CategorySoft),
		ExperienceRequirements: MergeExperienceRequirements(raw.ExperienceRequirements),
		Certifications:         []string{},
	}

	seen := make(map[string]bool)
	for _, cert := range raw.Certifications {
		cert = strings.TrimSpace(cert)
		if cert == "" || seen[strings.ToLower(cert)] {
			continue
		}
		seen[strings.ToLower(cert)] = true
		result.Certifications = append(result.Certifications, cert)
	}
	return result
}

// postProcessKeywords forces the bucket's category, drops terms that break the
// term invariant, and keeps the first of any normalized duplicates.
func postProcessKeywords(raw []rawKeyword, category types.Category) []types.Keyword {
	out := make([]types.Keyword, 0, len(raw))
	seen := make(map[string]bool)

	for _, kw := range raw {
		term := CanonicalTerm(kw.Term)
		if !types.ValidTerm(term) {
			continue
		}
		key := normalize.Normalize(term)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, types.Keyword{
			Term:             term,
			NormalizedKey:    key,
			Category:         category,
			RequirementLevel: requirementLevel(kw.RequirementLevel),
			Importance:       int(math.Round(math.Max(0, math.Min(100, kw.Importance)))),
			Frequency:        1,
			Context:          strings.TrimSpace(kw.Context),
		})
	}
	return out
}

func requirementLevel(s string) types.RequirementLevel {
	switch level := types.RequirementLevel(strings.ToLower(strings.TrimSpace(s))); level {
	case types.LevelRequired, types.LevelPreferred, types.LevelOptional:
		return level
	default:
		return types.LevelNeutral
	}
}

// validateResult checks the sanitized result against the wire schema, so the
// service never returns a payload its own clients would reject.
func validateResult(result *types.ExtractionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return &OutputError{Message: "result cannot be encoded", Cause: err}
	}
	if err := schemas.Validate(schemafiles.ExtractionResult, data); err != nil {
		return &ResultError{Cause: err}
	}
	if err := result.Validate(); err != nil {
		return &ResultError{Cause: err}
	}
	return nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// Summary is a one-line description of a result for logs.
func Summary(result *types.ExtractionResult) string {
	return fmt.Sprintf("%d hard, %d soft, %d experience, %d certifications",
		len(result.HardSkills), len(result.SoftSkills),
		len(result.ExperienceRequirements), len(result.Certifications))
}
