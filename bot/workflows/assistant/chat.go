package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"strings"

	"linklet/ai"
	"linklet/bot/workflow"
	"linklet/entity"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

const maxPayloadPreview = 600

// ChatStep - Free-form AI conversation mode
type ChatStep struct {
	BaseStep
	chat ChatProvider
}

func NewChatStep(chat ChatProvider) *ChatStep {
	return &ChatStep{
		BaseStep: BaseStep{id: StepChat},
		chat:     chat,
	}
}

func (s *ChatStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	if s.chat == nil {
		b.SendMessage(state.ChatID, "L'assistant IA n'est pas configuré.", nil)
		return workflow.StepResult{NextStep: StepMainMenu}
	}

	_, err := b.SendMessage(state.ChatID, "💬 Mode assistant IA activé. Posez vos questions !\nEnvoyez /stop pour revenir au menu.", nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{} // Wait for user input
}

func (s *ChatStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	text := strings.TrimSpace(c.EffectiveMessage.Text)
	if text == "/stop" {
		b.SendMessage(state.ChatID, "💬 Mode assistant IA terminé.", nil)
		return workflow.StepResult{NextStep: StepMainMenu}
	}

	b.SendChatAction(state.ChatID, "typing", nil)

	answer, err := s.chat.GenerateChatResponse(ctx, ai.WithSystemPrompt([]entity.ChatMessage{
		entity.UserMessage(text),
	}))
	if err != nil {
		b.SendMessage(state.ChatID, "L'assistant IA est indisponible pour le moment. Réessayez plus tard.", nil)
		return workflow.StepResult{}
	}

	_, err = b.SendMessage(state.ChatID, answer, nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *ChatStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	if cb.IsCancel() || cb.MenuID() == MenuMain {
		return workflow.StepResult{NextStep: StepMainMenu}
	}
	return workflow.StepResult{}
}

// payloadPreview renders an execution payload for Telegram, indented and
// truncated so large results stay readable.
func payloadPreview(payload json.RawMessage) string {
	if len(payload) == 0 {
		return ""
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		buf.Reset()
		buf.Write(payload)
	}

	preview := buf.String()
	if len(preview) > maxPayloadPreview {
		preview = preview[:maxPayloadPreview] + "…"
	}
	return html.EscapeString(preview)
}
