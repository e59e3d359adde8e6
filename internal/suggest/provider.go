package suggest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoAPIKey is returned when a provider has no API key configured
var ErrNoAPIKey = errors.New("API key not found")

// Provider defines the interface for translation suggestion providers
type Provider interface {
	// Suggest returns a translation for a single word
	Suggest(ctx context.Context, word string) (string, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured
	IsAvailable() error
}

// Config holds configuration shared by all providers
type Config struct {
	Provider   string // "openai" or "gemini"
	SourceLang string // Language of the corpus words
	TargetLang string // Language of the translations

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string // OpenAI-compatible endpoint; empty uses api.openai.com

	GeminiKey   string
	GeminiModel string

	Breaker bool      // Wrap the provider in a circuit breaker
	Log     io.Writer // Circuit state changes; nil means stderr
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		SourceLang:  "English",
		TargetLang:  "French",
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
		Breaker:     true,
	}
}

// NewProvider creates the provider selected in config
func NewProvider(ctx context.Context, config *Config) (Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var provider Provider
	var err error

	switch config.Provider {
	case "openai":
		provider, err = NewOpenAIProvider(config)
	case "gemini":
		provider, err = NewGeminiProvider(ctx, config)
	default:
		return nil, fmt.Errorf("unknown suggestion provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.Breaker {
		provider = NewBreakerProvider(provider, config.Log)
	}
	return provider, nil
}

// buildPrompt asks for a bare single-word translation
func buildPrompt(config *Config, word string) string {
	return fmt.Sprintf(
		"Translate the %s word '%s' to %s. Respond with only the %s translation as a single word, nothing else.",
		config.SourceLang, word, config.TargetLang, config.TargetLang)
}

// cleanSuggestion strips quotes, punctuation and extra lines from a model answer
func cleanSuggestion(answer string) string {
	answer = strings.TrimSpace(answer)
	if i := strings.IndexAny(answer, "\r\n"); i >= 0 {
		answer = answer[:i]
	}
	return strings.Trim(answer, " \t\"'`.,;:!?")
}
