package suggest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ListChatModels returns the sorted IDs of OpenAI models usable for suggestions
func ListChatModels(ctx context.Context, apiKey string) ([]string, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI %w. Set OPENAI_API_KEY environment variable or configure in .corpustrans.yaml", ErrNoAPIKey)
	}

	client := openai.NewClient(apiKey)
	models, err := client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	return filterChatModels(models.Models), nil
}

func filterChatModels(models []openai.Model) []string {
	chatModels := []string{}
	for _, model := range models {
		id := model.ID
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") || strings.Contains(id, "realtime") {
			continue
		}
		if strings.Contains(id, "gpt") || strings.Contains(id, "chat") {
			chatModels = append(chatModels, id)
		}
	}
	sort.Strings(chatModels)
	return chatModels
}
