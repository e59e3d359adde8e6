package suggest

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider using the Gemini API
type GeminiProvider struct {
	client *genai.Client
	config *Config
}

// NewGeminiProvider creates a new Gemini suggestion provider
func NewGeminiProvider(ctx context.Context, config *Config) (*GeminiProvider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini %w", ErrNoAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Suggest translates a word with a single content generation call
func (p *GeminiProvider) Suggest(ctx context.Context, word string) (string, error) {
	temperature := float32(0.2)
	resp, err := p.client.Models.GenerateContent(ctx, p.config.GeminiModel,
		genai.Text(buildPrompt(p.config, word)),
		&genai.GenerateContentConfig{Temperature: &temperature})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	suggestion := cleanSuggestion(resp.Text())
	if suggestion == "" {
		return "", fmt.Errorf("empty translation returned")
	}
	return suggestion, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks that an API key is configured
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini %w", ErrNoAPIKey)
	}
	return nil
}
