package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/extract", Method: "POST", Limit: 5},
		{Path: "/extractions/", Method: "GET", Limit: 10},
		{Path: "/extractions/recent/", Method: "GET", Limit: 20},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{name: "exact", path: "/extract", method: "POST", wantLimit: 5},
		{name: "method mismatch", path: "/extract", method: "GET", wantNil: true},
		{name: "prefix", path: "/extractions/123", method: "GET", wantLimit: 10},
		{name: "longest prefix wins", path: "/extractions/recent/5", method: "GET", wantLimit: 20},
		{name: "health unlimited", path: "/health", method: "GET", wantLimit: 0},
		{name: "no match", path: "/vocabulary", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "127.0.0.1, 10.0.0.1")
	t.Setenv("RATE_LIMIT_EXTRACT_PER_MINUTE", "60")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.True(t, cfg.Whitelist["10.0.0.1"])
	assert.Empty(t, cfg.Blacklist)

	extract := MatchEndpoint("/extract", "POST", cfg.EndpointConfigs)
	require.NotNil(t, extract)
	assert.Equal(t, 60, extract.Limit)
	assert.Equal(t, 10, extract.Burst)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
