/*
Package ai sends prompts to a text-completion service and returns the generated text.
Two backends are supported: the OpenAI completions endpoint and the Gemini API.
*/
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var (
	ErrMissingAPIKey = errors.New("ai: API key is required")
	ErrEmptyResponse = errors.New("ai: no completion candidates returned")
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOpenAIEngine = "text-davinci-003"
	DefaultGeminiModel  = "gemini-2.5-flash"
)

// Params is the fixed parameter bundle sent with every completion request.
type Params struct {
	Engine      string
	Prompt      string
	MaxTokens   int
	Temperature float32
	Stop        string
}

// Completer returns the trimmed text of the first completion candidate.
type Completer interface {
	Complete(ctx context.Context, p Params) (string, error)
}

// New builds the completer for provider. baseURL overrides the service endpoint
// and may be empty.
func New(ctx context.Context, provider, apiKey, baseURL string) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderOpenAI:
		return NewOpenAIClient(OpenAIConfig{APIKey: apiKey, BaseURL: baseURL})
	case ProviderGemini:
		return NewGeminiClient(ctx, apiKey, baseURL)
	default:
		return nil, fmt.Errorf("ai: unknown provider %q", provider)
	}
}

// DefaultEngine returns the engine used when none is configured.
func DefaultEngine(provider string) string {
	if strings.EqualFold(provider, ProviderGemini) {
		return DefaultGeminiModel
	}
	return DefaultOpenAIEngine
}

// GeminiClient completes prompts with the Gemini API.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient builds a Gemini client. A non-empty baseURL overrides the API endpoint.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Complete sends p as a single-turn request and returns the response text.
func (c *GeminiClient) Complete(ctx context.Context, p Params) (string, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(p.MaxTokens),
		Temperature:     genai.Ptr(p.Temperature),
	}
	if p.Stop != "" {
		cfg.StopSequences = []string{p.Stop}
	}

	resp, err := c.client.Models.GenerateContent(ctx, p.Engine, genai.Text(p.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	return strings.TrimSpace(resp.Text()), nil
}
