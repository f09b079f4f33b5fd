// Package remote calls the hosted keyword-extraction endpoint, with retry,
// a circuit breaker, and a content-addressed result cache.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/ats-matcher/internal/logger"
	"github.com/jonathan/ats-matcher/internal/normalize"
	"github.com/jonathan/ats-matcher/internal/schemas"
	"github.com/jonathan/ats-matcher/internal/types"
	schemafiles "github.com/jonathan/ats-matcher/schemas"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Client defaults
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	DefaultBackoff    = time.Second
	ExtractionPath    = "/functions/v1/keyword-extraction"

	maxResponseBytes = 1 << 20
	maxErrorBody     = 200
)

// sleep waits for d or until ctx is done. Tests replace it.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Config configures a Client.
type Config struct {
	BaseURL string
	// AnonKey is sent as the apikey header and as the bearer token for anonymous calls.
	AnonKey string
	// Timeout bounds a whole Extract call, retries and backoff included.
	Timeout time.Duration
	// MaxRetries is the total number of attempts per call.
	MaxRetries int
	Backoff    time.Duration
	HTTPClient *http.Client
	Cache      Cache
}

// Client extracts keywords through the hosted endpoint.
type Client struct {
	endpoint string
	cfg      Config
	http     *http.Client
	cache    Cache
	breaker  *gobreaker.CircuitBreaker
	log      *zap.Logger
}

// NewClient builds a client. Zero config values fall back to the defaults.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("remote base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewMemoryCache(DefaultCacheTTL, DefaultCacheSize)
	}
	log = logger.OrNop(log)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "keyword-extraction",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Auth and quota failures say nothing about the endpoint's health.
		IsSuccessful: func(err error) bool {
			return err == nil || IsTerminal(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + ExtractionPath,
		cfg:      cfg,
		http:     httpClient,
		cache:    cache,
		breaker:  breaker,
		log:      log,
	}, nil
}

// Extract returns the categorized keywords for a job description. token is the
// user's bearer token; empty means an anonymous call with the anon key.
// 401 and 429 responses return AuthError and QuotaError without retrying.
func (c *Client) Extract(ctx context.Context, jobDescription, token string) (*types.ExtractionResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyInput
	}

	key := CacheKey(jobDescription)
	if cached, ok := c.cache.Get(ctx, key); ok {
		c.log.Debug("remote extraction cache hit", zap.String("key", key))
		return cached, nil
	}

	body, err := json.Marshal(types.ExtractionRequest{
		JobDescription: truncateRunes(jobDescription, types.MaxRemoteDescriptionChars),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.extractWithRetry(ctx, body, token)
	})
	if err != nil {
		return nil, err
	}

	result := sanitize(out.(*types.ExtractionResult))
	c.cache.Set(ctx, key, result)
	return result, nil
}

// ClearCache drops every cached extraction.
func (c *Client) ClearCache(ctx context.Context) {
	c.cache.Clear(ctx)
}

// Stats returns the cache counters.
func (c *Client) Stats() CacheStats {
	return c.cache.Stats()
}

func (c *Client) extractWithRetry(ctx context.Context, body []byte, token string) (*types.ExtractionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		result, err := c.do(ctx, body, token)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if IsTerminal(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt == c.cfg.MaxRetries-1 {
			break
		}

		wait := time.Duration(float64(c.cfg.Backoff) * math.Pow(2, float64(attempt)))
		c.log.Warn("remote extraction failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", c.cfg.MaxRetries),
			zap.Duration("backoff", wait),
			zap.Error(err))
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, body []byte, token string) (*types.ExtractionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AnonKey != "" {
		req.Header.Set("apikey", c.cfg.AnonKey)
	}
	switch {
	case token != "":
		req.Header.Set("Authorization", "Bearer "+token)
	case c.cfg.AnonKey != "":
		req.Header.Set("Authorization", "Bearer "+c.cfg.AnonKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Message: "POST " + ExtractionPath, Cause: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RequestError{Message: "failed to read response", Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthError{Message: errorMessage(payload, "authentication required")}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &QuotaError{Message: errorMessage(payload, "quota exceeded")}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: truncateRunes(string(payload), maxErrorBody)}
	}

	return decodeEnvelope(payload)
}

func decodeEnvelope(payload []byte) (*types.ExtractionResult, error) {
	if err := schemas.Validate(schemafiles.ExtractionResponse, payload); err != nil {
		return nil, &ResponseError{Message: "envelope does not match schema", Cause: err}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, &ResponseError{Message: "failed to decode envelope", Cause: err}
	}
	if err := schemas.Validate(schemafiles.ExtractionResult, envelope.Data); err != nil {
		return nil, &ResponseError{Message: "data does not match schema", Cause: err}
	}

	var result types.ExtractionResult
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		return nil, &ResponseError{Message: "failed to decode data", Cause: err}
	}
	return &result, nil
}

// sanitize re-buckets and normalizes remote keywords, dropping any that break the term invariant.
func sanitize(in *types.ExtractionResult) *types.ExtractionResult {
	out := &types.ExtractionResult{
		HardSkills:             sanitizeKeywords(in.HardSkills, types.CategoryHard),
		SoftSkills:             sanitizeKeywords(in.SoftSkills, types.CategorySoft),
		ExperienceRequirements: []types.ExperienceRequirement{},
		Certifications:         []string{},
	}
	for _, req := range in.ExperienceRequirements {
		if skill := strings.TrimSpace(req.Skill); skill != "" {
			req.Skill = skill
			out.ExperienceRequirements = append(out.ExperienceRequirements, req)
		}
	}
	for _, cert := range in.Certifications {
		if cert = strings.TrimSpace(cert); cert != "" {
			out.Certifications = append(out.Certifications, cert)
		}
	}
	return out
}

func sanitizeKeywords(in []types.Keyword, category types.Category) []types.Keyword {
	out := make([]types.Keyword, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, kw := range in {
		kw.Term = strings.TrimSpace(kw.Term)
		if !types.ValidTerm(kw.Term) {
			continue
		}
		key := normalize.Normalize(kw.Term)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		kw.NormalizedKey = key
		kw.Category = category
		if kw.RequirementLevel == "" {
			kw.RequirementLevel = types.LevelNeutral
		}
		if kw.Frequency < 1 {
			kw.Frequency = 1
		}
		kw.Importance = min(max(kw.Importance, 0), 100)
		out = append(out, kw)
	}
	return out
}

func errorMessage(payload []byte, fallback string) string {
	var body types.ErrorResponse
	if err := json.Unmarshal(payload, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return fallback
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
