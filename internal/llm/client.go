package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Request is one JSON-mode generation call.
type Request struct {
	// System is sent as the system instruction when set.
	System string
	Prompt string
	Tier   ModelTier
}

// Client is an abstraction over LLM providers.
type Client interface {
	// GenerateJSON returns the model's JSON answer with any code fence
	// removed.
	GenerateJSON(ctx context.Context, req Request) (string, error)
	Close() error
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a Gemini client. A nil config selects DefaultConfig.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, config: config}, nil
}

// GenerateJSON runs req against the model configured for req.Tier.
func (c *GeminiClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	name := c.config.GetModel(req.Tier)
	if name == "" {
		return "", fmt.Errorf("no model configured for tier %q", req.Tier)
	}

	model := c.client.GenerativeModel(name)
	model.SetTemperature(c.config.Temperature)
	if c.config.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(c.config.MaxOutputTokens)
	}
	model.ResponseMIMEType = "application/json"
	if req.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("%s: generate content: %w", name, err)
	}
	text, err := joinText(resp)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return CleanJSONBlock(text), nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// joinText concatenates the text parts of the first candidate.
func joinText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response")
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return "", fmt.Errorf("candidate has no content (finish reason %v)", resp.Candidates[0].FinishReason)
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("response has no text")
	}
	return sb.String(), nil
}
