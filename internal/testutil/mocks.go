package testutil

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider mocks a translation suggestion provider. It is safe for
// concurrent use.
type MockProvider struct {
	ProviderName string
	Suggestions  map[string]string
	Errors       map[string]error
	Unavailable  error
	Calls        []string

	mu sync.Mutex
}

// Suggest returns the canned suggestion for word
func (m *MockProvider) Suggest(ctx context.Context, word string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, word)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err, ok := m.Errors[word]; ok {
		return "", err
	}

	if suggestion, ok := m.Suggestions[word]; ok {
		return suggestion, nil
	}

	return "", fmt.Errorf("no suggestion for %q", word)
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// IsAvailable reports the configured availability error
func (m *MockProvider) IsAvailable() error {
	return m.Unavailable
}
