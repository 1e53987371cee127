package openaillm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultModel = "gpt-4o-mini"

// Adapter wraps the official OpenAI SDK.
type Adapter struct {
	model  string
	apiKey string
	client openai.Client
}

func New(model, apiKey string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	return &Adapter{
		model:  model,
		apiKey: apiKey,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (a *Adapter) Name() string  { return "OpenAI" }
func (a *Adapter) Model() string { return a.model }

func (a *Adapter) IsAvailable(_ context.Context) bool { return a.apiKey != "" }

func (a *Adapter) Generate(ctx context.Context, prompt, systemPrompt string, temperature float64, maxTokens int) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               a.model,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai returned empty content")
	}
	return content, nil
}
