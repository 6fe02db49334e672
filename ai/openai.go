package ai

import (
	"context"
	"fmt"
	"log/slog"

	"linklet/entity"
	"linklet/internal/config"
	"linklet/internal/lib/sl"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider answers chats through the OpenAI completion API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

func NewOpenAIProvider(conf *config.Config, logger *slog.Logger) *OpenAIProvider {
	model := conf.AI.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAIProvider{
		client: openai.NewClient(conf.AI.ApiKey),
		model:  model,
		log:    logger.With(sl.Module("ai.openai")),
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) GenerateChatResponse(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	return generateChatResponse(ctx, p.client, p.model, messages)
}

// generateChatResponse is shared by both providers since Deepseek speaks
// the OpenAI chat completion protocol.
func generateChatResponse(ctx context.Context, client *openai.Client, model string, messages []entity.ChatMessage) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		request.Messages = append(request.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
