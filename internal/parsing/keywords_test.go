package parsing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonathan/ats-matcher/internal/llm"
	"github.com/jonathan/ats-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	text string
	err  error
	got  llm.Request
}

func (f *fakeClient) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Text: f.text, TokensUsed: 412, Model: "gemini-2.5-flash"}, nil
}

func (f *fakeClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return f.text, f.err
}

func (f *fakeClient) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "gemini-2.5-flash" }

func (f *fakeClient) Close() error { return nil }

const modelOutput = "```json\n" + `{
	"hardSkills": [
		{"term": "golang", "importance": 92.6, "category": "hard", "requirementLevel": "Required", "context": "5+ years of Go"},
		{"term": "Go", "importance": 50, "requirementLevel": "required"},
		{"term": "Kubernetes", "importance": 140, "requirementLevel": "must"},
		{"term": "line one\nline two", "importance": 40}
	],
	"softSkills": [
		{"term": "communication", "importance": 80, "category": "hard", "requirementLevel": "preferred"}
	],
	"experienceRequirements": [{"skill": "golang", "years": 5, "isMinimum": true}],
	"certifications": ["CKA", "cka", ""]
}` + "\n```"

func TestExtractKeywords(t *testing.T) {
	client := &fakeClient{text: modelOutput}

	result, meta, err := ExtractKeywords(context.Background(), client, "  Senior Go engineer. 5+ years of Go.  ")
	require.NoError(t, err)

	assert.Equal(t, &types.ExtractionMeta{TokensUsed: 412, Model: "gemini-2.5-flash"}, meta)

	require.Len(t, result.HardSkills, 2)
	goKw := result.HardSkills[0]
	assert.Equal(t, "Go", goKw.Term)
	assert.Equal(t, 93, goKw.Importance)
	assert.Equal(t, types.LevelRequired, goKw.RequirementLevel)
	assert.Equal(t, "5+ years of Go", goKw.Context)

	k8s := result.HardSkills[1]
	assert.Equal(t, 100, k8s.Importance)
	assert.Equal(t, types.LevelNeutral, k8s.RequirementLevel)

	require.Len(t, result.SoftSkills, 1)
	assert.Equal(t, types.CategorySoft, result.SoftSkills[0].Category)

	assert.Equal(t, []types.ExperienceRequirement{{Skill: "Go", Years: 5, IsMinimum: true}}, result.ExperienceRequirements)
	assert.Equal(t, []string{"CKA"}, result.Certifications)

	assert.Equal(t, float32(Temperature), client.got.Temperature)
	assert.True(t, client.got.JSON)
	assert.Contains(t, client.got.System, "ATS")
	assert.Contains(t, client.got.Prompt, "Senior Go engineer. 5+ years of Go.")
	assert.Contains(t, client.got.Prompt, "at most 25 hard skills")
	assert.NotContains(t, client.got.Prompt, "{{.")
}

func TestExtractKeywords_TruncatesDescription(t *testing.T) {
	client := &fakeClient{text: `{"hardSkills": [], "softSkills": []}`}
	long := strings.Repeat("a", MaxDescriptionChars) + "TAIL_MARKER"

	_, _, err := ExtractKeywords(context.Background(), client, long)
	require.NoError(t, err)
	assert.NotContains(t, client.got.Prompt, "TAIL_MARKER")
}

func TestExtractKeywords_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		client *fakeClient
		check  func(t *testing.T, err error)
	}{
		{
			name:   "empty description",
			input:  "   ",
			client: &fakeClient{},
			check: func(t *testing.T, err error) {
				var inputErr *InputError
				require.ErrorAs(t, err, &inputErr)
				assert.Equal(t, "jobDescription", inputErr.Field)
			},
		},
		{
			name:   "model failure",
			input:  "Go engineer",
			client: &fakeClient{err: errors.New("quota")},
			check: func(t *testing.T, err error) {
				var modelErr *ModelError
				require.ErrorAs(t, err, &modelErr)
				assert.Equal(t, "generate", modelErr.Stage)
				assert.Contains(t, err.Error(), "quota")
			},
		},
		{
			name:   "not json",
			input:  "Go engineer",
			client: &fakeClient{text: "Sorry, I cannot help with that."},
			check: func(t *testing.T, err error) {
				var outErr *OutputError
				require.ErrorAs(t, err, &outErr)
			},
		},
		{
			name:   "experience years out of range",
			input:  "Go engineer",
			client: &fakeClient{text: `{"hardSkills": [], "softSkills": [], "experienceRequirements": [{"skill": "Go", "years": 99}]}`},
			check: func(t *testing.T, err error) {
				var resultErr *ResultError
				require.ErrorAs(t, err, &resultErr)
				assert.Contains(t, err.Error(), "rejected")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ExtractKeywords(context.Background(), tt.client, tt.input)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestParseJSONResponse_MissingBuckets(t *testing.T) {
	result, err := parseJSONResponse(`{"certifications": ["PMP"]}`)
	require.NoError(t, err)
	assert.Empty(t, result.HardSkills)
	assert.NotNil(t, result.HardSkills)
	assert.Equal(t, []string{"PMP"}, result.Certifications)
}

func TestSummary(t *testing.T) {
	result := &types.ExtractionResult{HardSkills: []types.Keyword{{Term: "Go"}}, Certifications: []string{"PMP"}}
	assert.Equal(t, "1 hard, 0 soft, 0 experience, 1 certifications", Summary(result))
}
