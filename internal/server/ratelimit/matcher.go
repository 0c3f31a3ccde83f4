package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Path matching supports prefix matching (e.g., "/extractions/" matches "/extractions/{id}").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Special case: health check endpoint is unlimited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Path: path, Method: method}
	}

	// Try exact match first
	for i := range configs {
		cfg := &configs[i]
		if cfg.Path == path && cfg.Method == method {
			return cfg
		}
	}

	// Longest prefix match (for paths ending with "/")
	var best *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != method || !strings.HasSuffix(cfg.Path, "/") || !strings.HasPrefix(path, cfg.Path) {
			continue
		}
		if best == nil || len(cfg.Path) > len(best.Path) {
			best = cfg
		}
	}
	return best
}
