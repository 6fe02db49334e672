package ai

import (
	"context"
	"log/slog"

	"linklet/entity"
	"linklet/internal/config"
	"linklet/internal/lib/sl"

	"github.com/sashabaranov/go-openai"
)

const deepseekBaseURL = "https://api.deepseek.com/v1"

// DeepseekProvider answers chats through the Deepseek API, which is wire
// compatible with the OpenAI chat completion endpoint.
type DeepseekProvider struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

func NewDeepseekProvider(conf *config.Config, logger *slog.Logger) *DeepseekProvider {
	clientConfig := openai.DefaultConfig(conf.AI.ApiKey)
	clientConfig.BaseURL = deepseekBaseURL

	model := conf.AI.Model
	if model == "" {
		model = "deepseek-chat"
	}
	return &DeepseekProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		log:    logger.With(sl.Module("ai.deepseek")),
	}
}

func (p *DeepseekProvider) Name() string {
	return "deepseek"
}

func (p *DeepseekProvider) GenerateChatResponse(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	return generateChatResponse(ctx, p.client, p.model, messages)
}
