package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vbonduro/mealvision/internal/vision"
)

// OpenAICompleter implements vision.Completer with the chat completions API.
// The image reference and detail hint are sent exactly as given.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter builds a completer. An empty baseURL keeps the SDK default.
func NewOpenAICompleter(apiKey, model, baseURL string) *OpenAICompleter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func buildMessages(p vision.Prompt) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    p.Image,
					Detail: openai.ImageURLDetail(p.Detail),
				},
			},
			{Type: openai.ChatMessagePartTypeText, Text: p.Text},
		},
	}}
}

func (c *OpenAICompleter) Complete(ctx context.Context, p vision.Prompt) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    buildMessages(p),
		Temperature: vision.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
