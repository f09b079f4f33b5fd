package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jonathan/ats-matcher/internal/categorize"
	"github.com/jonathan/ats-matcher/internal/config"
	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/extraction"
	"github.com/jonathan/ats-matcher/internal/llm"
	"github.com/jonathan/ats-matcher/internal/matching"
	"github.com/jonathan/ats-matcher/internal/remote"
	"github.com/jonathan/ats-matcher/internal/semantic"
	"github.com/jonathan/ats-matcher/internal/types"
)

func mustBind(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag.Name, err))
	}
}

// app holds the long-lived components a command needs. close releases them.
type app struct {
	analyzer *matching.Analyzer
	llm      llm.Client
	closers  []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newLLMClient builds the Gemini client. It returns nil without an API key.
func newLLMClient(ctx context.Context, c *config.Config) (llm.Client, error) {
	if c.LLM.APIKey == "" {
		return nil, nil
	}
	llmCfg := llm.DefaultConfig()
	if c.LLM.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, c.LLM.Model)
	}
	return llm.NewClient(ctx, llmCfg, c.LLM.APIKey)
}

// newApp wires the analyzer from cfg: rule-based extraction always, the
// hosted service and the semantic worker when enabled.
func newApp(ctx context.Context, c *config.Config, authToken string) (*app, error) {
	a := &app{}

	client, err := newLLMClient(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	if client != nil {
		a.llm = client
		a.closers = append(a.closers, func() { _ = client.Close() })
	}

	local := matching.NewLocalExtractor(extraction.Options{
		SingleOccurrenceFloor:      c.Extraction.SingleOccurrenceFloor,
		SingleOccurrenceMultiplier: c.Extraction.SingleOccurrenceMultiplier,
	}, categorize.New(log))

	var remoteExt matching.RemoteExtractor
	if c.Remote.Enabled && !c.Extraction.PreferLocal {
		cache := remote.NewTieredCache(ctx, c.Remote.RedisURL, remote.NewMemoryCache(c.Remote.CacheTTL, c.Remote.CacheSize), log)
		a.closers = append(a.closers, func() { _ = cache.Close() })
		rc, err := remote.NewClient(remote.Config{
			BaseURL:    c.Remote.URL,
			AnonKey:    c.Remote.AnonKey,
			Timeout:    c.Remote.Timeout,
			MaxRetries: c.Remote.MaxRetries,
			Cache:      cache,
		}, log)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create remote client: %w", err)
		}
		remoteExt = rc
	}

	var semExt matching.SemanticExtractor
	if c.Semantic.Enabled {
		loader, err := embedderLoader(c, a.llm)
		if err != nil {
			a.close()
			return nil, err
		}
		worker := semantic.StartWorker(ctx, semantic.NewModel(loader), semantic.WorkerConfig{}, log)
		ext := semantic.NewExtractor(worker, semantic.Options{
			TopN:        c.Semantic.TopN,
			MinScore:    c.Semantic.MinScore,
			Timeout:     c.Semantic.Timeout,
			InitTimeout: c.Semantic.InitTimeout,
		}, log)
		a.closers = append(a.closers, ext.Close)
		semExt = ext
	}

	a.analyzer = matching.NewAnalyzer(local, remoteExt, semExt, matching.Options{
		EnableRemote:   remoteExt != nil,
		PreferLocal:    c.Extraction.PreferLocal,
		EnableSemantic: semExt != nil,
		AuthToken:      authToken,
	}, log)
	return a, nil
}

func embedderLoader(c *config.Config, client llm.Client) (semantic.Loader, error) {
	switch c.Semantic.Model {
	case "gemini":
		if client == nil {
			return nil, fmt.Errorf("the gemini embedder needs llm.api_key")
		}
		return semantic.StaticLoader(client), nil
	default:
		return semantic.HashLoader(0), nil
	}
}

func openStore(ctx context.Context, c *config.Config) (db.Store, error) {
	store, err := db.Open(ctx, c.Store.Driver, c.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open score history: %w", err)
	}
	return store, nil
}

// loadResume reads a resume. JSON files are decoded as a structured resume;
// anything else is taken as the resume's plain text content.
func loadResume(path string) (*types.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		text := strings.TrimSpace(string(data))
		if text == "" {
			return nil, matching.ErrEmptyResume
		}
		return &types.Resume{ID: filepath.Base(path), Content: text}, nil
	}

	var resume types.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to parse resume JSON: %w", err)
	}
	if err := resume.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resume: %w", err)
	}
	return &resume, nil
}

// writeJSON writes indented JSON to path, or to w when path is empty or "-".
func writeJSON(w io.Writer, path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
