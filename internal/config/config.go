// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Default values applied by Defaults and MergeWithDefaults.
const (
	DefaultNERURL        = "https://api-inference.huggingface.co/models/dslim/bert-base-NER"
	DefaultMinConfidence = 0.90
	DefaultChunkSize     = 1000
	DefaultMaxNGram      = 3
	DefaultTagMapping    = "v2"
	DefaultOffsetMode    = "tracked"
	DefaultConcurrency   = 4
	DefaultPort          = 8080
	DefaultNERCacheTTL   = 24 * time.Hour
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags or the environment.
type Config struct {
	// NER provider
	NERURL        string  `json:"ner_url,omitempty"`          // Token-classification inference endpoint
	NERAPIKey     string  `json:"ner_api_key,omitempty"`      // Bearer token for the NER endpoint
	NERRatePerSec float64 `json:"ner_rate_per_sec,omitempty"` // Outgoing NER request rate (0 = unlimited)
	Concurrency   int     `json:"ner_concurrency,omitempty"`  // Parallel NER calls per resume

	// Reconciliation
	MinConfidence float64 `json:"min_confidence,omitempty"` // Entities below this merged score are dropped
	ChunkSize     int     `json:"chunk_size,omitempty"`     // Maximum characters per NER call
	MaxNGram      int     `json:"max_ngram,omitempty"`      // Longest vocabulary phrase looked up
	TagMapping    string  `json:"tag_mapping,omitempty"`    // "v1" or "v2"
	OffsetMode    string  `json:"offset_mode,omitempty"`    // "tracked" or "search"

	// Storage
	VocabularyFile string `json:"vocabulary_file,omitempty"` // YAML skill list used instead of the database
	DatabaseURL    string `json:"database_url,omitempty"`    // PostgreSQL connection URL
	RedisURL       string `json:"redis_url,omitempty"`       // Redis URL for the NER response cache
	NERCacheTTL    string `json:"ner_cache_ttl,omitempty"`   // Cache entry lifetime, e.g. "24h"

	// Behavior
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key for skill scoring
	ScoreSkills  bool   `json:"score_skills,omitempty"`   // Rate matched skills with the LLM
	Port         int    `json:"port,omitempty"`           // HTTP listen port
	Verbose      bool   `json:"verbose,omitempty"`        // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		NERURL:        DefaultNERURL,
		MinConfidence: DefaultMinConfidence,
		ChunkSize:     DefaultChunkSize,
		MaxNGram:      DefaultMaxNGram,
		TagMapping:    DefaultTagMapping,
		OffsetMode:    DefaultOffsetMode,
		Concurrency:   DefaultConcurrency,
		Port:          DefaultPort,
		NERCacheTTL:   DefaultNERCacheTTL.String(),
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if math.IsNaN(c.MinConfidence) || c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("config error: 'min_confidence' must be between 0 and 1")
	}

	// Validate numeric ranges
	if c.ChunkSize < 0 {
		return fmt.Errorf("config error: 'chunk_size' must be non-negative")
	}
	if c.MaxNGram < 0 {
		return fmt.Errorf("config error: 'max_ngram' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'ner_concurrency' must be non-negative")
	}
	if c.NERRatePerSec < 0 {
		return fmt.Errorf("config error: 'ner_rate_per_sec' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}

	switch c.TagMapping {
	case "", "v1", "v2":
	default:
		return fmt.Errorf("config error: 'tag_mapping' must be \"v1\" or \"v2\", got %q", c.TagMapping)
	}
	switch c.OffsetMode {
	case "", "tracked", "search":
	default:
		return fmt.Errorf("config error: 'offset_mode' must be \"tracked\" or \"search\", got %q", c.OffsetMode)
	}

	if c.NERCacheTTL != "" {
		if _, err := time.ParseDuration(c.NERCacheTTL); err != nil {
			return fmt.Errorf("config error: invalid 'ner_cache_ttl': %w", err)
		}
	}

	// Validate file paths exist (if specified)
	if c.VocabularyFile != "" {
		if _, err := os.Stat(c.VocabularyFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: vocabulary file not found: %s", c.VocabularyFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.NERURL == "" {
		result.NERURL = defaults.NERURL
	}
	if result.NERAPIKey == "" {
		result.NERAPIKey = defaults.NERAPIKey
	}
	if result.TagMapping == "" {
		result.TagMapping = defaults.TagMapping
	}
	if result.OffsetMode == "" {
		result.OffsetMode = defaults.OffsetMode
	}
	if result.VocabularyFile == "" {
		result.VocabularyFile = defaults.VocabularyFile
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.NERCacheTTL == "" {
		result.NERCacheTTL = defaults.NERCacheTTL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}

	// Numeric fields: use default if zero
	if result.MinConfidence == 0 {
		result.MinConfidence = defaults.MinConfidence
	}
	if result.NERRatePerSec == 0 {
		result.NERRatePerSec = defaults.NERRatePerSec
	}
	if result.ChunkSize == 0 {
		result.ChunkSize = defaults.ChunkSize
	}
	if result.MaxNGram == 0 {
		result.MaxNGram = defaults.MaxNGram
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv fills secrets and connection strings that are still empty from
// the environment.
func (c *Config) ApplyEnv() {
	if c.NERAPIKey == "" {
		c.NERAPIKey = GetEnvString("HF_API_TOKEN", GetEnvString("NER_API_KEY", ""))
	}
	if c.NERURL == "" {
		c.NERURL = GetEnvString("NER_URL", "")
	}
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = GetEnvString("GEMINI_API_KEY", "")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = GetEnvString("DATABASE_URL", "")
	}
	if c.RedisURL == "" {
		c.RedisURL = GetEnvString("REDIS_URL", "")
	}
	if c.MinConfidence == 0 {
		c.MinConfidence = GetEnvFloat("MIN_CONFIDENCE", 0)
	}
}

// CacheTTL returns the parsed NER cache lifetime, or DefaultNERCacheTTL when
// unset or invalid.
func (c *Config) CacheTTL() time.Duration {
	if c.NERCacheTTL == "" {
		return DefaultNERCacheTTL
	}
	ttl, err := time.ParseDuration(c.NERCacheTTL)
	if err != nil || ttl <= 0 {
		return DefaultNERCacheTTL
	}
	return ttl
}
