package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/ingestion"
	"github.com/jonathan/ats-matcher/internal/matching"
	"github.com/jonathan/ats-matcher/internal/types"
)

const jobText = `About Us
We are a fast-growing fintech company with a great culture.

Requirements:
- 5+ years of experience with Kubernetes and Terraform
- Strong PostgreSQL skills
- Excellent communication skills`

type memoryStore struct {
	mu      sync.Mutex
	records []db.ScoreRecord
	err     error
}

func (s *memoryStore) SaveScore(_ context.Context, rec db.ScoreRecord) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *memoryStore) ListScores(context.Context, int) ([]db.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records, nil
}

func (s *memoryStore) Close() error { return nil }

type progressLog struct {
	mu    sync.Mutex
	steps []string
}

func (p *progressLog) record(e ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, e.Step)
}

func testResume() *types.Resume {
	return &types.Resume{
		ID: "resume-1",
		Sections: types.ResumeSections{
			Summary: "Platform engineer who was responsible for the deployment team.",
			Experience: []types.ExperienceItem{
				{
					Company: "Acme", Position: "SRE",
					Description: []string{
						"Worked on Kubernetes clusters",
						"Migrated billing data to PostgreSQL",
					},
				},
			},
			Skills: []string{"Kubernetes", "PostgreSQL"},
		},
	}
}

func TestRun_FromText(t *testing.T) {
	progress := &progressLog{}
	store := &memoryStore{}

	result, err := Run(context.Background(), RunOptions{
		JobText:    jobText,
		Resume:     testResume(),
		Store:      store,
		OnProgress: progress.record,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Analysis)
	assert.Equal(t, matching.StrategyLocal, result.Analysis.Strategy)
	assert.NotEmpty(t, result.Analysis.MatchedKeywords)
	assert.GreaterOrEqual(t, result.Analysis.Score, 0)
	assert.LessOrEqual(t, result.Analysis.Score, 100)
	assert.Equal(t, ingestion.Fingerprint(result.Job.Description), result.Metadata.Hash)

	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, result.RecordID, rec.ID.String())
	assert.Equal(t, "resume-1", rec.ResumeID)
	assert.Equal(t, result.Analysis.Score, rec.Score)
	assert.Equal(t, "local", rec.Strategy)

	assert.Equal(t, StepIngest, progress.steps[0])
	assert.Equal(t, StepPrefilter, progress.steps[1])
	assert.ElementsMatch(t, []string{StepScore, StepSuggest}, progress.steps[2:4])
	assert.Equal(t, StepSave, progress.steps[4])
}

func TestRun_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte(jobText), 0644))

	result, err := Run(context.Background(), RunOptions{JobPath: path, Resume: testResume()})
	require.NoError(t, err)
	assert.Equal(t, "file", result.Job.Source)
	assert.Empty(t, result.RecordID)
}

func TestRun_FromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		html := "<html><head><title>SRE</title></head><body><main><p>" +
			strings.ReplaceAll(jobText, "\n", "</p><p>") + "</p></main></body></html>"
		_, _ = w.Write([]byte(html))
	}))
	defer server.Close()

	result, err := Run(context.Background(), RunOptions{JobURL: server.URL, Resume: testResume()})
	require.NoError(t, err)
	assert.Equal(t, "SRE", result.Job.Title)
	assert.Equal(t, server.URL, result.Metadata.URL)
	assert.NotEmpty(t, result.Analysis.MatchedKeywords)
}

func TestRun_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		opts RunOptions
		want error
	}{
		{"no resume", RunOptions{JobText: jobText}, matching.ErrEmptyResume},
		{"no source", RunOptions{Resume: testResume()}, ErrNoJobSource},
		{"two sources", RunOptions{JobText: jobText, JobPath: "job.txt", Resume: testResume()}, ErrNoJobSource},
		{"blank text", RunOptions{JobText: "  ", Resume: testResume()}, ErrNoJobSource},
		{"empty resume", RunOptions{JobText: jobText, Resume: &types.Resume{}}, matching.ErrEmptyResume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRun_SaveFailureIsNotFatal(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}

	result, err := Run(context.Background(), RunOptions{JobText: jobText, Resume: testResume(), Store: store})
	require.NoError(t, err)
	assert.Empty(t, result.RecordID)
	assert.NotNil(t, result.Analysis)
}

func TestSuggest(t *testing.T) {
	got := Suggest(testResume())
	require.NotEmpty(t, got)

	ids := map[string]bool{}
	var summary, experience int
	for _, s := range got {
		assert.False(t, ids[s.ID], "duplicate id %s", s.ID)
		ids[s.ID] = true
		switch s.Section {
		case types.ResumeSummary:
			summary++
		case types.ResumeExperience:
			experience++
		}
	}
	assert.True(t, ids["summary-0-weak-verb-was-responsible-for"])
	assert.True(t, ids["experience-0-weak-verb-worked-on"])
	assert.Positive(t, summary)
	assert.Positive(t, experience)

	assert.Empty(t, Suggest(nil))
	assert.NotNil(t, Suggest(&types.Resume{}))
}
