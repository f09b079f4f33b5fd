package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// NewConfig returns an enabled configuration allowing perMinute requests per
// client on endpoints without a specific entry. perMinute <= 0 disables
// limiting entirely.
func NewConfig(perMinute int) *Config {
	if perMinute <= 0 {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    perMinute,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model-backed and fetch-backed calls are the most expensive.
		{Path: "/keyword-extraction", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/analyze/stream", Method: http.MethodPost, Limit: 20, Window: time.Minute, Burst: 5},

		// Local computation only.
		{Path: "/score", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/suggestions/", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/suggestions", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},
	}
}
