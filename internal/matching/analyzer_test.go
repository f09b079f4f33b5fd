package matching

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/jonathan/ats-matcher/internal/extraction"
	"github.com/jonathan/ats-matcher/internal/remote"
	"github.com/jonathan/ats-matcher/internal/semantic"
	"github.com/jonathan/ats-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobText = `Senior Platform Engineer

Requirements:
- 5+ years of Kubernetes experience required
- Strong Terraform and Kubernetes skills
- Experience with GraphQL APIs and PostgreSQL
- Excellent communication and leadership

About Us:
We are a leading company with free snacks.`

const resumeText = `Platform engineer running Kubernetes clusters on AWS.
Built Terraform modules and PostgreSQL backups.
Known for clear communication with stakeholders.`

type fakeRemote struct {
	result *types.ExtractionResult
	err    error
	calls  atomic.Int32
	token  string
}

func (f *fakeRemote) Extract(_ context.Context, _ string, token string) (*types.ExtractionResult, error) {
	f.calls.Add(1)
	f.token = token
	return f.result, f.err
}

type fakeSemantic struct {
	enabled bool
	hits    []semantic.Keyword
	err     error
}

func (f *fakeSemantic) Enabled() bool {
	return f.enabled
}

func (f *fakeSemantic) Extract(context.Context, string) ([]semantic.Keyword, error) {
	return f.hits, f.err
}

func newTestAnalyzer(r RemoteExtractor, s SemanticExtractor, opts Options) *Analyzer {
	return NewAnalyzer(NewLocalExtractor(extraction.DefaultOptions(), nil), r, s, opts, nil)
}

func hardKeys(result *types.ExtractionResult) []string {
	keys := make([]string, 0, len(result.HardSkills))
	for _, kw := range result.HardSkills {
		keys = append(keys, keyOf(kw))
	}
	return keys
}

func TestAnalyze_LocalOnly(t *testing.T) {
	a := newTestAnalyzer(nil, nil, Options{})

	got, err := a.Analyze(context.Background(), jobText, resumeText)
	require.NoError(t, err)

	assert.Equal(t, StrategyLocal, got.Strategy)
	assert.Contains(t, hardKeys(got.JobKeywords), "kubernetes")
	assert.Contains(t, got.MatchedKeywords, "Kubernetes")
	assert.GreaterOrEqual(t, got.Score, 0)
	assert.LessOrEqual(t, got.Score, 100)
	assert.Empty(t, got.RemoteError)
	assert.NoError(t, got.RemoteErr())
}

func TestAnalyze_EmptyInputs(t *testing.T) {
	a := newTestAnalyzer(nil, nil, Options{})

	_, err := a.Analyze(context.Background(), "  \n", resumeText)
	assert.ErrorIs(t, err, ErrEmptyJobDescription)

	_, err = a.Analyze(context.Background(), jobText, "\t")
	assert.ErrorIs(t, err, ErrEmptyResume)

	_, err = a.AnalyzeResume(context.Background(), jobText, nil)
	assert.ErrorIs(t, err, ErrEmptyResume)
}

func TestAnalyze_RemotePreferred(t *testing.T) {
	r := &fakeRemote{result: &types.ExtractionResult{
		HardSkills: []types.Keyword{{Term: "Terraform", NormalizedKey: "terraform", Category: types.CategoryHard, Importance: 90}},
		SoftSkills: []types.Keyword{{Term: "communication", NormalizedKey: "communication", Category: types.CategorySoft, Importance: 60}},
	}}
	a := newTestAnalyzer(r, nil, Options{EnableRemote: true, AuthToken: "user-token"})

	got, err := a.Analyze(context.Background(), jobText, resumeText)
	require.NoError(t, err)

	assert.Equal(t, StrategyRemote, got.Strategy)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, "user-token", r.token)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestAnalyze_FallsBackWhenRemoteFails(t *testing.T) {
	tests := []struct {
		name        string
		remote      *fakeRemote
		wantSurface bool
	}{
		{"server error", &fakeRemote{err: &remote.HTTPError{StatusCode: 503, Body: "unavailable"}}, false},
		{"network error", &fakeRemote{err: &remote.RequestError{Message: "dial", Cause: errors.New("refused")}}, false},
		{"empty result", &fakeRemote{result: &types.ExtractionResult{}}, false},
		{"auth error", &fakeRemote{err: &remote.AuthError{Message: "expired"}}, true},
		{"quota error", &fakeRemote{err: &remote.QuotaError{Message: "limit"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(tt.remote, nil, Options{EnableRemote: true})

			got, err := a.Analyze(context.Background(), jobText, resumeText)
			require.NoError(t, err)

			assert.Equal(t, StrategyLocal, got.Strategy)
			assert.NotEmpty(t, got.JobKeywords.HardSkills)
			assert.GreaterOrEqual(t, got.Score, 0)
			assert.LessOrEqual(t, got.Score, 100)
			if tt.wantSurface {
				assert.True(t, remote.IsTerminal(got.RemoteErr()))
				assert.NotEmpty(t, got.RemoteError)
			} else {
				assert.NoError(t, got.RemoteErr())
			}
		})
	}
}

func TestAnalyze_PreferLocalSkipsRemote(t *testing.T) {
	r := &fakeRemote{err: errors.New("must not be called")}
	a := newTestAnalyzer(r, nil, Options{EnableRemote: true, PreferLocal: true})

	got, err := a.Analyze(context.Background(), jobText, resumeText)
	require.NoError(t, err)
	assert.Equal(t, StrategyLocal, got.Strategy)
	assert.Zero(t, r.calls.Load())
}

func TestAnalyze_RemoteDisabledSkipsRemote(t *testing.T) {
	r := &fakeRemote{err: errors.New("must not be called")}
	a := newTestAnalyzer(r, nil, Options{})

	_, err := a.Analyze(context.Background(), jobText, resumeText)
	require.NoError(t, err)
	assert.Zero(t, r.calls.Load())
}

func TestExtractJob_SemanticHitsRankFirst(t *testing.T) {
	s := &fakeSemantic{enabled: true, hits: []semantic.Keyword{
		{Keyword: "GraphQL", Score: 0.8, Importance: 100},
		{Keyword: "Kubernetes", Score: 0.7, Importance: 40},
	}}
	a := newTestAnalyzer(nil, s, Options{EnableSemantic: true})

	got, err := a.ExtractJob(context.Background(), jobText)
	require.NoError(t, err)

	assert.Equal(t, StrategySemanticLocal, got.Strategy)
	keys := hardKeys(got.Result)
	require.GreaterOrEqual(t, len(keys), 2)
	assert.Equal(t, []string{"graphql", "kubernetes"}, keys[:2])
	assert.Equal(t, 40, got.Result.HardSkills[1].Importance, "semantic importance wins")

	seen := make(map[string]bool)
	for _, key := range keys {
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestExtractJob_SemanticFailureUsesRules(t *testing.T) {
	tests := []struct {
		name string
		sem  *fakeSemantic
	}{
		{"error", &fakeSemantic{enabled: true, err: semantic.ErrWorkerClosed}},
		{"disabled", &fakeSemantic{enabled: false, hits: []semantic.Keyword{{Keyword: "GraphQL", Importance: 100}}}},
		{"no hits", &fakeSemantic{enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(nil, tt.sem, Options{EnableSemantic: true})
			got, err := a.ExtractJob(context.Background(), jobText)
			require.NoError(t, err)
			assert.Equal(t, StrategyLocal, got.Strategy)
			assert.NotEmpty(t, got.Result.HardSkills)
		})
	}
}

func TestExtractJob_NothingExtracted(t *testing.T) {
	a := newTestAnalyzer(nil, nil, Options{})

	_, err := a.ExtractJob(context.Background(), "and the of to")
	var failed *ExtractionFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, StrategyLocal, failed.Strategy)
	assert.ErrorIs(t, err, errNoKeywords)
}

func TestAnalyzeResume_CountsListedSkills(t *testing.T) {
	a := newTestAnalyzer(nil, nil, Options{})
	resume := types.NewResume("main", "Platform engineer.")
	resume.Sections.Skills = []string{"GraphQL", "Kubernetes"}

	got, err := a.AnalyzeResume(context.Background(), jobText, resume)
	require.NoError(t, err)
	assert.Contains(t, got.MatchedKeywords, "GraphQL")
	assert.Contains(t, got.MatchedKeywords, "Kubernetes")
}

func TestLocalExtractor_OrdersByImportance(t *testing.T) {
	l := NewLocalExtractor(extraction.DefaultOptions(), nil)

	got, err := l.Extract(jobText)
	require.NoError(t, err)
	require.NotEmpty(t, got.HardSkills)
	for i := 1; i < len(got.HardSkills); i++ {
		assert.GreaterOrEqual(t, got.HardSkills[i-1].Importance, got.HardSkills[i].Importance)
	}
	for _, kw := range got.HardSkills {
		assert.Equal(t, types.CategoryHard, kw.Category)
	}
	assert.NotNil(t, got.Certifications)
	assert.NotNil(t, got.ExperienceRequirements)
	assert.Positive(t, l.Stats().Hard)
}
