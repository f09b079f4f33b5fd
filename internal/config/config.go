// Package config loads application settings from a config file, ATS_*
// environment variables, and bound CLI flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. ATS_REMOTE_URL.
const EnvPrefix = "ATS"

// Config is the full application configuration.
type Config struct {
	Remote     RemoteConfig     `mapstructure:"remote"`
	Semantic   SemanticConfig   `mapstructure:"semantic"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Log        LogConfig        `mapstructure:"log"`
}

// RemoteConfig configures the hosted keyword-extraction client.
type RemoteConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	URL        string        `mapstructure:"url"`
	AnonKey    string        `mapstructure:"anon_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	CacheSize  int           `mapstructure:"cache_size"`
	RedisURL   string        `mapstructure:"redis_url"`
}

// SemanticConfig configures embedding-based extraction. Model is "hash" for
// the local hashing embedder or "gemini" for the LLM embedding model.
type SemanticConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	TopN        int           `mapstructure:"top_n"`
	MinScore    float64       `mapstructure:"min_score"`
	Timeout     time.Duration `mapstructure:"timeout"`
	InitTimeout time.Duration `mapstructure:"init_timeout"`
	Model       string        `mapstructure:"model"`
}

// ExtractionConfig tunes the rule-based extractor.
type ExtractionConfig struct {
	SingleOccurrenceFloor      int  `mapstructure:"single_occurrence_floor"`
	SingleOccurrenceMultiplier int  `mapstructure:"single_occurrence_multiplier"`
	PreferLocal                bool `mapstructure:"prefer_local"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port"`
	// JWTSecret signs and verifies user tokens; empty disables user auth.
	JWTSecret            string `mapstructure:"jwt_secret"`
	TokenExpirationHours int    `mapstructure:"token_expiration_hours"`
	AnonKey              string `mapstructure:"anon_key"`
	// QuotaPerHour is how many keyword extractions an authenticated user may run per hour.
	QuotaPerHour int `mapstructure:"quota_per_hour"`
	// RateLimitPerMinute caps requests per client IP; zero disables it.
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

// StoreConfig selects the score-history backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// LLMConfig configures the Gemini client used by the extraction service and
// the gemini embedder.
type LLMConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// LogConfig selects the logger encoding and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers every key with its default so environment variables
// are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.anon_key", "")
	v.SetDefault("remote.timeout", 30*time.Second)
	v.SetDefault("remote.max_retries", 2)
	v.SetDefault("remote.cache_ttl", time.Hour)
	v.SetDefault("remote.cache_size", 50)
	v.SetDefault("remote.redis_url", "")

	v.SetDefault("semantic.enabled", false)
	v.SetDefault("semantic.top_n", 20)
	v.SetDefault("semantic.min_score", 0.3)
	v.SetDefault("semantic.timeout", 60*time.Second)
	v.SetDefault("semantic.init_timeout", 30*time.Second)
	v.SetDefault("semantic.model", "hash")

	v.SetDefault("extraction.single_occurrence_floor", 50)
	v.SetDefault("extraction.single_occurrence_multiplier", 3)
	v.SetDefault("extraction.prefer_local", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.token_expiration_hours", 24)
	v.SetDefault("server.anon_key", "")
	v.SetDefault("server.quota_per_hour", 50)
	v.SetDefault("server.rate_limit_per_minute", 120)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.5-flash")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// Load reads configuration into a Config. path is an optional YAML or JSON
// file; environment variables override it, and flags bound to v override
// both. A nil v uses a fresh viper instance.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Conventional names used by other tools.
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("server.jwt_secret", EnvPrefix+"_SERVER_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("store.dsn", EnvPrefix+"_STORE_DSN", "DATABASE_URL")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Remote.Enabled && strings.TrimSpace(c.Remote.URL) == "" {
		return fmt.Errorf("config error: 'remote.url' is required when remote extraction is enabled")
	}
	if c.Remote.MaxRetries < 1 {
		return fmt.Errorf("config error: 'remote.max_retries' must be at least 1")
	}
	if c.Remote.CacheSize < 1 {
		return fmt.Errorf("config error: 'remote.cache_size' must be at least 1")
	}
	if c.Semantic.MinScore < 0 || c.Semantic.MinScore > 1 {
		return fmt.Errorf("config error: 'semantic.min_score' must be between 0 and 1")
	}
	if c.Semantic.TopN < 1 {
		return fmt.Errorf("config error: 'semantic.top_n' must be at least 1")
	}
	switch c.Semantic.Model {
	case "hash", "gemini":
	default:
		return fmt.Errorf("config error: 'semantic.model' must be hash or gemini, got %q", c.Semantic.Model)
	}
	if c.Semantic.Model == "gemini" && c.Semantic.Enabled && c.LLM.APIKey == "" {
		return fmt.Errorf("config error: 'llm.api_key' is required for the gemini embedder")
	}
	if c.Extraction.SingleOccurrenceFloor < 0 || c.Extraction.SingleOccurrenceMultiplier < 0 {
		return fmt.Errorf("config error: extraction limits must be non-negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535")
	}
	if c.Server.QuotaPerHour < 0 || c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("config error: server limits must be non-negative")
	}
	switch c.Store.Driver {
	case "sqlite":
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("config error: 'store.dsn' is required for postgres")
		}
	default:
		return fmt.Errorf("config error: 'store.driver' must be sqlite or postgres, got %q", c.Store.Driver)
	}
	return nil
}
