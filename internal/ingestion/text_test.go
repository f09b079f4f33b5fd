package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-matcher/internal/fetch"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \n  \n  ", ""},
		{"headings kept", "# Title\n## Subtitle\nContent here", "# Title\n## Subtitle\nContent here"},
		{"bullets kept", "- Item 1\n  * Item 2\n\t• Item 3", "- Item 1\n* Item 2\n• Item 3"},
		{"inner spaces collapsed", "Line    with \t multiple    spaces", "Line with multiple spaces"},
		{"blank runs collapsed", "Line 1\n\n\n\n\nLine 2", "Line 1\n\nLine 2"},
		{"line endings", "Line 1\r\nLine 2\rLine 3", "Line 1\nLine 2\nLine 3"},
		{"non-breaking space", "Node.js\u00a0\u00a0and Go", "Node.js and Go"},
		{"unicode kept", "Test with émojis 🚀", "Test with émojis 🚀"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	assert.Equal(t, CleanText(input), CleanText(input))
}

func TestFromText(t *testing.T) {
	posting, meta, err := FromText("  Requirements:\n- Go   and Kubernetes  ")
	require.NoError(t, err)

	assert.Equal(t, "Requirements:\n- Go and Kubernetes", posting.Description)
	assert.Equal(t, "text", posting.Source)
	assert.Contains(t, posting.ID, "job-")
	assert.Equal(t, Fingerprint(posting.Description), meta.Hash)
	assert.Equal(t, len(posting.Description), meta.Chars)

	_, _, err = FromText(" \n\t ")
	assert.ErrorIs(t, err, ErrEmptyPosting)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("# Senior Engineer\n\n\n\n## Requirements\n- Go experience"), 0644))

	posting, meta, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Senior Engineer\n\n## Requirements\n- Go experience", posting.Description)
	assert.Equal(t, "file", posting.Source)
	assert.Equal(t, path, meta.Path)
	assert.Len(t, meta.Hash, 16)
	assert.NotEmpty(t, meta.Timestamp)
}

func TestFromFile_Errors(t *testing.T) {
	_, _, err := FromFile("/nonexistent/file.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n\n  \n"), 0644))
	_, _, err = FromFile(empty)
	assert.ErrorIs(t, err, ErrEmptyPosting)
}

func TestFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Backend Engineer</title></head><body>
<nav>Jobs</nav>
<div class="job-description"><h2>Requirements</h2><ul><li>Go</li><li>PostgreSQL</li></ul></div>
</body></html>`))
	}))
	defer server.Close()

	posting, meta, err := FromURL(context.Background(), server.URL, fetch.JobOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Requirements\nGo\nPostgreSQL", posting.Description)
	assert.Equal(t, "Backend Engineer", posting.Title)
	assert.Equal(t, server.URL, meta.URL)
	assert.Equal(t, "unknown", meta.Platform)
}

func TestFromURL_FetchError(t *testing.T) {
	_, _, err := FromURL(context.Background(), "ftp://example.com/job", fetch.JobOptions{})
	var fetchErr *fetch.Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("test content")
	assert.Len(t, a, 16)
	assert.Equal(t, a, Fingerprint("test content"))
	assert.NotEqual(t, a, Fingerprint("different content"))
}

func TestMetadata_ToJSON(t *testing.T) {
	prev := now
	now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })

	data, err := NewMetadata("Go", "https://example.com/job", "lever").ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"url": "https://example.com/job",
		"platform": "lever",
		"timestamp": "2024-01-01T00:00:00Z",
		"hash": "`+Fingerprint("Go")+`",
		"chars": 2
	}`, string(data))
}
