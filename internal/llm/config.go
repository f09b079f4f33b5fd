// Package llm wraps the Gemini models behind the keyword-extraction service
// and the semantic embedder.
package llm

import "maps"

// ModelTier selects a generation model by cost.
type ModelTier string

const (
	// TierLite handles short postings and retries after a quota hit.
	TierLite ModelTier = "lite"
	// TierStandard produces the structured keyword JSON.
	TierStandard ModelTier = "standard"
)

// Provider names the backend behind a Client.
type Provider string

// ProviderGemini is the only backend NewClient builds.
const ProviderGemini Provider = "gemini"

// Config maps tiers to model names.
type Config struct {
	Provider       Provider
	Models         map[ModelTier]string
	EmbeddingModel string
}

// DefaultConfig is the Gemini setup used by the CLI and server.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		EmbeddingModel: "text-embedding-004",
	}
}

// GetModel resolves tier, falling back to the standard and then the lite
// model. It returns "" when nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model := c.Models[t]; model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c with tier overridden.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = maps.Clone(c.Models)
	if out.Models == nil {
		out.Models = make(map[ModelTier]string)
	}
	out.Models[tier] = model
	return &out
}
