package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/ats-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `{
	"success": true,
	"data": {
		"hardSkills": [
			{"term": " Kubernetes ", "importance": 90, "category": "hard", "requirementLevel": "required"},
			{"term": "k8s", "importance": 40},
			{"term": "Node.js", "importance": 70}
		],
		"softSkills": [
			{"term": "communication", "importance": 60, "category": "hard"}
		],
		"experienceRequirements": [{"skill": "Go", "years": 5, "isMinimum": true}],
		"certifications": ["CKA", " "]
	},
	"meta": {"tokensUsed": 321, "model": "test-model"}
}`

func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var waits []time.Duration
	orig := sleep
	sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	t.Cleanup(func() { sleep = orig })
	return &waits
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	client, err := NewClient(cfg, nil)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	assert.Error(t, err)
}

func TestExtract_Success(t *testing.T) {
	noSleep(t)
	var gotBody types.ExtractionRequest
	var gotAuth, gotKey, gotPath string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = io.WriteString(w, okBody)
	}, Config{AnonKey: "anon"})

	result, err := client.Extract(context.Background(), "We need Kubernetes and Go.", "user-token")
	require.NoError(t, err)

	assert.Equal(t, ExtractionPath, gotPath)
	assert.Equal(t, "Bearer user-token", gotAuth)
	assert.Equal(t, "anon", gotKey)
	assert.Equal(t, "We need Kubernetes and Go.", gotBody.JobDescription)

	require.Len(t, result.HardSkills, 2, "k8s collapses into kubernetes")
	assert.Equal(t, "Kubernetes", result.HardSkills[0].Term)
	assert.Equal(t, types.LevelRequired, result.HardSkills[0].RequirementLevel)
	assert.Equal(t, "Node.js", result.HardSkills[1].Term)
	assert.Equal(t, types.LevelNeutral, result.HardSkills[1].RequirementLevel)
	assert.Equal(t, types.CategorySoft, result.SoftSkills[0].Category)
	assert.Equal(t, []string{"CKA"}, result.Certifications)
	assert.Equal(t, 5, result.ExperienceRequirements[0].Years)
	assert.NoError(t, result.Validate())
}

func TestExtract_AnonymousUsesAnonKey(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, okBody)
	}, Config{AnonKey: "anon"})

	_, err := client.Extract(context.Background(), "Go developer", "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer anon", gotAuth)
}

func TestExtract_TruncatesDescription(t *testing.T) {
	var got types.ExtractionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, okBody)
	}, Config{})

	_, err := client.Extract(context.Background(), strings.Repeat("é", 6000), "")
	require.NoError(t, err)
	assert.Equal(t, types.MaxRemoteDescriptionChars, len([]rune(got.JobDescription)))
}

func TestExtract_EmptyInput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, Config{})

	_, err := client.Extract(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestExtract_TerminalErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, "token expired", authErr.Message)
			},
		},
		{
			name:   "quota",
			status: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				var quotaErr *QuotaError
				require.ErrorAs(t, err, &quotaErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			waits := noSleep(t)
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error": "token expired"}`)
			}, Config{MaxRetries: 3})

			_, err := client.Extract(context.Background(), "Go developer", "tok")
			require.Error(t, err)
			assert.True(t, IsTerminal(err))
			tt.check(t, err)
			assert.Equal(t, int32(1), calls.Load(), "terminal errors are not retried")
			assert.Empty(t, *waits)
		})
	}
}

func TestExtract_RetriesTransientFailures(t *testing.T) {
	waits := noSleep(t)
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, okBody)
	}, Config{MaxRetries: 3, Backoff: 100 * time.Millisecond})

	result, err := client.Extract(context.Background(), "Go developer", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.HardSkills)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *waits)
}

func TestExtract_GivesUpAfterMaxRetries(t *testing.T) {
	noSleep(t)
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	}, Config{})

	_, err := client.Extract(context.Background(), "Go developer", "")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "boom", httpErr.Body)
	assert.False(t, IsTerminal(err))
	assert.Equal(t, int32(DefaultMaxRetries), calls.Load())
}

func TestExtract_InvalidEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>"},
		{name: "success false", body: `{"success": false, "data": {}}`},
		{name: "missing soft skills", body: `{"success": true, "data": {"hardSkills": []}}`},
		{name: "bad requirement level", body: `{"success": true, "data": {"hardSkills": [{"term": "Go", "requirementLevel": "must"}], "softSkills": []}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noSleep(t)
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}, Config{MaxRetries: 1})

			_, err := client.Extract(context.Background(), "Go developer", "")
			var respErr *ResponseError
			assert.ErrorAs(t, err, &respErr)
		})
	}
}

func TestExtract_CachesByContent(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, okBody)
	}, Config{})
	ctx := context.Background()

	first, err := client.Extract(ctx, "Go developer", "")
	require.NoError(t, err)
	second, err := client.Extract(ctx, "  GO DEVELOPER ", "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int64(1), client.Stats().Hits)

	client.ClearCache(ctx)
	_, err = client.Extract(ctx, "Go developer", "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestExtract_Timeout(t *testing.T) {
	noSleep(t)
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Config{Timeout: 50 * time.Millisecond, MaxRetries: 1})
	// Runs before srv.Close so a stuck handler cannot block shutdown.
	t.Cleanup(func() { close(release) })

	_, err := client.Extract(context.Background(), "Go developer", "")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestExtract_TimeoutCoversRetries(t *testing.T) {
	noSleep(t)
	var calls atomic.Int32
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Config{Timeout: 50 * time.Millisecond, MaxRetries: 3})
	t.Cleanup(func() { close(release) })

	start := time.Now()
	_, err := client.Extract(context.Background(), "Go developer", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), calls.Load(), "no attempt starts after the call deadline")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExtract_CallerCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, Config{MaxRetries: 3})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Extract(ctx, "Go developer", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, client.Stats().Entries)
}

func TestExtract_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	noSleep(t)
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, Config{MaxRetries: 1})

	for i := 0; i < 5; i++ {
		_, err := client.Extract(context.Background(), "Go developer", "")
		require.Error(t, err)
	}
	_, err := client.Extract(context.Background(), "Go developer", "")
	require.Error(t, err)
	assert.Equal(t, int32(5), calls.Load(), "open breaker short-circuits the call")
	assert.False(t, IsTerminal(err))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(&AuthError{}))
	assert.True(t, IsTerminal(&QuotaError{}))
	assert.False(t, IsTerminal(&HTTPError{StatusCode: 500}))
	assert.False(t, IsTerminal(errors.New("x")))
}
