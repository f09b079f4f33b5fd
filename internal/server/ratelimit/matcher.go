package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited marks health checks and CORS preflights.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the configuration for path and method, or nil when
// none applies. Exact paths win over prefixes; a config path ending in "/"
// matches every path below it.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodOptions || (path == "/health" && method == http.MethodGet) {
		u := unlimited
		return &u
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}
