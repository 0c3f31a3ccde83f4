package ratelimit

import (
	"time"

	"github.com/KhymNad/resume-matcher-api/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// key identifies the bucket family an endpoint config governs, so every path
// under a prefix rule shares one bucket per client.
func (e EndpointConfig) key() string {
	return e.Method + " " + e.Path
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := config.GetEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    config.GetEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   config.GetEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: config.GetEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTimeout:     config.GetEnvDuration("RATE_LIMIT_IDLE_TIMEOUT", time.Hour),
		Whitelist:       toSet(config.GetEnvList("RATE_LIMIT_WHITELIST")),
		Blacklist:       toSet(config.GetEnvList("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(config.GetEnvInt("RATE_LIMIT_EXTRACT_PER_MINUTE", 30)),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations.
// extractPerMinute bounds the endpoints that call the NER provider.
func DefaultEndpointConfigs(extractPerMinute int) []EndpointConfig {
	burst := max(extractPerMinute/6, 1)
	return []EndpointConfig{
		// Tier 1: NER-backed operations (strictest limits)
		{Path: "/extract", Method: "POST", Limit: extractPerMinute, Window: time.Minute, Burst: burst},
		{Path: "/extract/stream", Method: "POST", Limit: extractPerMinute, Window: time.Minute, Burst: burst},

		// Tier 2: Vocabulary reloads hit the store
		{Path: "/vocabulary/reload", Method: "POST", Limit: 6, Window: time.Minute, Burst: 2},

		// Tier 3: In-memory matching and lookups
		{Path: "/skills/match", Method: "POST", Limit: 300, Window: time.Minute, Burst: 50},
		{Path: "/extractions/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 50},

		// Tier 4: Health check (unlimited) - handled by special case in matcher
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
