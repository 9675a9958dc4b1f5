package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/castroh/pdi-agent/internal/config"
	gen "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client wraps one generative model for facet generation. Every prompt it
// sends asks the model for a single JSON object carrying one named key.
type Client struct {
	client *gen.Client
	model  string
}

// NewClient constructs the Gemini client once at process start.
func NewClient(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini client is not configured (missing API key)")
	}

	client, err := gen.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-pro"
	}

	return &Client{client: client, model: model}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.client.Close()
}

// GenerateValue sends the prompt and returns the value stored under key in
// the single JSON object the model is expected to answer with. Transport
// failures, non-JSON answers and missing keys all surface as errors; callers
// degrade them to error strings in place of the facet value.
func (c *Client) GenerateValue(ctx context.Context, prompt, key string) (any, error) {
	generativeModel := c.client.GenerativeModel(c.model)

	resp, err := generativeModel.GenerateContent(ctx, gen.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var output strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(gen.Text); ok {
			output.WriteString(string(text))
		}
	}

	return ExtractJSONValue(output.String(), key)
}

// ExtractJSONValue strips code-fence wrapping from raw, parses it as one
// JSON object and returns the value under key.
func ExtractJSONValue(raw, key string) (any, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}

	value, ok := parsed[key]
	if !ok {
		return nil, fmt.Errorf("response is missing key %q", key)
	}

	return value, nil
}
