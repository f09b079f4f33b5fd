package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/file", "https://"} {
		_, err := URL(context.Background(), raw, nil)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr, raw)
		assert.Contains(t, err.Error(), "invalid URL")
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		selectors   []string
		contains    []string
		notContains []string
	}{
		{
			name:        "main element",
			html:        `<html><body><nav>Navigation</nav><main><h1>Main Content</h1><p>This is the important text.</p></main><footer>Footer</footer></body></html>`,
			selectors:   JobPostingSelectors(),
			contains:    []string{"Main Content", "important text"},
			notContains: []string{"Navigation", "Footer"},
		},
		{
			name:      "fallback to body",
			html:      `<html><body><div>Some content here.</div></body></html>`,
			selectors: JobPostingSelectors(),
			contains:  []string{"Some content here"},
		},
		{
			name:        "job description class",
			html:        `<html><body><div class="sidebar">Sidebar junk</div><div class="job-description"><h2>Requirements</h2><p>5 years experience in Go</p></div></body></html>`,
			selectors:   JobPostingSelectors(),
			contains:    []string{"Requirements\n5 years experience in Go"},
			notContains: []string{"Sidebar junk"},
		},
		{
			name:      "empty selector match is skipped",
			html:      `<html><body><div class="job-description"> </div><main><p>Real text</p></main></body></html>`,
			selectors: JobPostingSelectors(),
			contains:  []string{"Real text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractMainText(tt.html, tt.selectors)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestExtractMainText_ListItemsOnSeparateLines(t *testing.T) {
	html := `<main><ul><li>Go</li><li>Kubernetes</li></ul></main>`
	text, err := ExtractMainText(html, []string{"main"})
	require.NoError(t, err)
	assert.Equal(t, "Go\nKubernetes", text)
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a b\n\nc", cleanWhitespace("  a   b \n\n\n\n c  "))
	assert.Equal(t, "", cleanWhitespace("\n \n"))
}
