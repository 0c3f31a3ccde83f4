package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/KhymNad/resume-matcher-api/internal/schemas"
	"github.com/KhymNad/resume-matcher-api/internal/types"
)

const maxResponseBytes = 8 << 20

// Config configures an HTTPClient.
type Config struct {
	// URL is the model inference endpoint.
	URL string
	// APIKey is sent as a bearer token when set.
	APIKey string
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
	// RatePerSecond caps outgoing requests; 0 disables the limit.
	RatePerSecond float64
	// Burst is the limiter bucket size.
	Burst int
	// Retry controls backoff for transient failures.
	Retry RetryConfig
}

// HTTPClient calls a Hugging Face style token-classification endpoint.
type HTTPClient struct {
	url     string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	retry   RetryConfig
}

// NewHTTPClient creates a client for cfg.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("NER endpoint URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := max(cfg.Burst, 1)

	return &HTTPClient{
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		retry:   cfg.Retry,
	}, nil
}

// URL returns the endpoint the client calls.
func (c *HTTPClient) URL() string {
	return c.url
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// prediction is one element of the model response. Token-level pipelines
// report the tag under "entity", aggregated ones under "entity_group".
type prediction struct {
	Entity      *string `json:"entity"`
	EntityGroup *string `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Recognize sends text to the model and returns its predictions.
func (c *HTTPClient) Recognize(ctx context.Context, text string) ([]types.RawEntity, error) {
	if strings.TrimSpace(text) == "" {
		return []types.RawEntity{}, nil
	}

	payload, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode NER request: %w", err)
	}

	body, err := retryDo(ctx, c.retry, func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return c.post(ctx, payload)
	})
	if err != nil {
		return nil, err
	}
	return parsePredictions(body)
}

func (c *HTTPClient) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, &APICallError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APICallError{Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &APICallError{StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APICallError{StatusCode: resp.StatusCode, Message: errorMessage(body, resp.Status)}
	}
	return body, nil
}

func errorMessage(body []byte, fallback string) string {
	var e errorResponse
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return fallback
}

func parsePredictions(body []byte) ([]types.RawEntity, error) {
	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		var e errorResponse
		if json.Unmarshal(trimmed, &e) == nil && e.Error != "" {
			return nil, &APICallError{Message: e.Error}
		}
	}

	if err := schemas.Validate(schemas.NERResponse, trimmed); err != nil {
		return nil, &ParseError{Message: "unexpected response shape", Cause: err}
	}

	var predictions []prediction
	if err := json.Unmarshal(trimmed, &predictions); err != nil {
		return nil, &ParseError{Message: "failed to decode predictions", Cause: err}
	}

	entities := make([]types.RawEntity, 0, len(predictions))
	for _, p := range predictions {
		entities = append(entities, types.RawEntity{
			Tag:        p.tag(),
			Text:       p.Word,
			Confidence: p.Score,
			Start:      p.Start,
			End:        p.End,
		})
	}
	return entities, nil
}

func (p prediction) tag() string {
	if p.EntityGroup != nil && *p.EntityGroup != "" {
		return *p.EntityGroup
	}
	if p.Entity != nil {
		return *p.Entity
	}
	return ""
}
