package ai

import (
	"context"
	"fmt"
	"log/slog"

	"linklet/entity"
	"linklet/internal/config"
)

// Provider generates chat completions. Implementations are interchangeable
// and selected once at startup, never per call.
type Provider interface {
	GenerateChatResponse(ctx context.Context, messages []entity.ChatMessage) (string, error)
	Name() string
}

const systemPrompt = "Tu es Linklet, un assistant IA spécialisé dans l'automatisation et les workflows. " +
	"Réponds de manière concise et utile en français."

// NewProvider builds the configured provider.
func NewProvider(conf *config.Config, logger *slog.Logger) (Provider, error) {
	switch conf.AI.Provider {
	case "openai", "":
		return NewOpenAIProvider(conf, logger), nil
	case "deepseek":
		return NewDeepseekProvider(conf, logger), nil
	}
	return nil, fmt.Errorf("unknown ai provider: %q", conf.AI.Provider)
}

// WithSystemPrompt prepends the assistant persona to a conversation.
func WithSystemPrompt(messages []entity.ChatMessage) []entity.ChatMessage {
	out := make([]entity.ChatMessage, 0, len(messages)+1)
	out = append(out, entity.SystemMessage(systemPrompt))
	return append(out, messages...)
}
