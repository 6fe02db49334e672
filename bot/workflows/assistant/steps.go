package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"linklet/bot/workflow"
	"linklet/bot/workflow/ui"
	"linklet/entity"
	"linklet/internal/service/automation"
	"linklet/internal/service/n8n"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// BaseStep provides common functionality for all steps.
type BaseStep struct {
	id workflow.StepID
}

func (s *BaseStep) ID() workflow.StepID {
	return s.id
}

func (s *BaseStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	return workflow.StepResult{}
}

// RequestNameStep - Ask for the new workflow's name
type RequestNameStep struct {
	BaseStep
}

func NewRequestNameStep() *RequestNameStep {
	return &RequestNameStep{BaseStep: BaseStep{id: StepRequestName}}
}

func (s *RequestNameStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "✏️ Quel <b>nom</b> donner à votre workflow ?", &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: ui.CancelKeyboard("✖️ Annuler"),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{} // Wait for user input
}

func (s *RequestNameStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	name, err := entity.ValidateWorkflowName(c.EffectiveMessage.Text)
	if err != nil {
		b.SendMessage(state.ChatID, fmt.Sprintf("Le nom doit contenir au moins %d caractères. Essayez encore :", entity.MinWorkflowNameLen), nil)
		return workflow.StepResult{}
	}

	return workflow.StepResult{
		NextStep:    StepRequestDescription,
		UpdateState: map[string]any{KeyName: name},
	}
}

func (s *RequestNameStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	if cb.IsCancel() {
		return cancelCreation(b, state)
	}
	return workflow.StepResult{}
}

// RequestDescriptionStep - Ask what the workflow should do
type RequestDescriptionStep struct {
	BaseStep
}

func NewRequestDescriptionStep() *RequestDescriptionStep {
	return &RequestDescriptionStep{BaseStep: BaseStep{id: StepRequestDescription}}
}

func (s *RequestDescriptionStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "📝 Décrivez en quelques mots ce que ce workflow doit faire :", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.CancelKeyboard("✖️ Annuler"),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{} // Wait for user input
}

func (s *RequestDescriptionStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	description := strings.TrimSpace(c.EffectiveMessage.Text)
	if description == "" {
		b.SendMessage(state.ChatID, "La description ne peut pas être vide. Essayez encore :", nil)
		return workflow.StepResult{}
	}

	return workflow.StepResult{
		NextStep:    StepCreate,
		UpdateState: map[string]any{KeyDescription: description},
	}
}

func (s *RequestDescriptionStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	if cb.IsCancel() {
		return cancelCreation(b, state)
	}
	return workflow.StepResult{}
}

// CreateStep - Create the workflow on the engine, no user input expected
type CreateStep struct {
	BaseStep
	automation AutomationService
}

func NewCreateStep(automation AutomationService) *CreateStep {
	return &CreateStep{
		BaseStep:   BaseStep{id: StepCreate},
		automation: automation,
	}
}

func (s *CreateStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	name := state.GetString(KeyName)
	description := state.GetString(KeyDescription)

	w, err := s.automation.CreateWorkflow(ctx, state.UserID, name, description)
	if err != nil {
		b.SendMessage(state.ChatID, userMessage(err), nil)
		// Keep the collected name, only the description gets re-asked
		return workflow.StepResult{NextStep: StepRequestDescription}
	}

	_, err = b.SendMessage(state.ChatID, fmt.Sprintf("✅ Workflow <b>%s</b> créé !", w.Name), &tgbotapi.SendMessageOpts{
		ParseMode: "HTML",
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}

	return workflow.StepResult{
		NextStep: StepSelectTrigger,
		UpdateState: map[string]any{
			KeyWorkflowID: w.UUID,
			KeySelected:   w.UUID,
		},
	}
}

// SelectTriggerStep - Choose how the workflow gets triggered
type SelectTriggerStep struct {
	BaseStep
	automation AutomationService
}

func NewSelectTriggerStep(automation AutomationService) *SelectTriggerStep {
	return &SelectTriggerStep{
		BaseStep:   BaseStep{id: StepSelectTrigger},
		automation: automation,
	}
}

func (s *SelectTriggerStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "⚡ Choisissez le déclencheur de ce workflow :", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.TriggerTypeKeyboard(),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{} // Wait for user selection
}

func (s *SelectTriggerStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	if cb.IsCancel() {
		// The workflow already exists, only the configuration is abandoned
		return keepWorkflow(b, state)
	}

	if !cb.IsTrigger() {
		return workflow.StepResult{}
	}

	switch cb.TriggerType() {
	case entity.TriggerManual:
		workflowUUID := state.GetString(KeyWorkflowID)
		if _, err := s.automation.ConfigureManual(ctx, workflowUUID, state.UserID); err != nil {
			b.SendMessage(state.ChatID, userMessage(err), nil)
			return workflow.StepResult{}
		}
		b.SendMessage(state.ChatID, "🤚 Déclencheur manuel configuré.", nil)
		return workflow.StepResult{NextStep: StepWorkflowActions}

	case entity.TriggerSchedule:
		return workflow.StepResult{NextStep: StepSchedule}

	case entity.TriggerWebhook:
		return workflow.StepResult{NextStep: StepWebhookAck}
	}

	return workflow.StepResult{}
}

// ScheduleStep - Ask for the schedule in plain text
type ScheduleStep struct {
	BaseStep
	automation AutomationService
}

func NewScheduleStep(automation AutomationService) *ScheduleStep {
	return &ScheduleStep{
		BaseStep:   BaseStep{id: StepSchedule},
		automation: automation,
	}
}

func (s *ScheduleStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "⏰ À quelle heure lancer ce workflow ?\nFormat attendu : <b>HH:MM tous les jours</b> (ex. <i>9:00 tous les jours</i>)", &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: ui.CancelKeyboard("✖️ Annuler"),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{} // Wait for user input
}

func (s *ScheduleStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	workflowUUID := state.GetString(KeyWorkflowID)

	_, err := s.automation.ConfigureSchedule(ctx, workflowUUID, state.UserID, c.EffectiveMessage.Text)
	if err != nil {
		if errors.Is(err, automation.ErrInvalidInput) {
			b.SendMessage(state.ChatID, "Format non reconnu. Écrivez par exemple : 9:00 tous les jours", nil)
			return workflow.StepResult{}
		}
		b.SendMessage(state.ChatID, userMessage(err), nil)
		return workflow.StepResult{}
	}

	b.SendMessage(state.ChatID, "⏰ Planning configuré.", nil)
	return workflow.StepResult{NextStep: StepWorkflowActions}
}

func (s *ScheduleStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	if cb.IsCancel() {
		return keepWorkflow(b, state)
	}
	return workflow.StepResult{}
}

// WebhookAckStep - Show the webhook URL and wait for confirmation
type WebhookAckStep struct {
	BaseStep
	automation AutomationService
}

func NewWebhookAckStep(automation AutomationService) *WebhookAckStep {
	return &WebhookAckStep{
		BaseStep:   BaseStep{id: StepWebhookAck},
		automation: automation,
	}
}

func (s *WebhookAckStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	url := s.automation.WebhookURL(state.GetString(KeyWorkflowID))

	msg := fmt.Sprintf("🔗 Ce workflow sera déclenché par un appel HTTP à cette adresse :\n<code>%s</code>\n\nConfirmer ?", url)
	_, err := b.SendMessage(state.ChatID, msg, &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: ui.ConfirmKeyboard("✅ Confirmer", "✖️ Annuler"),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{} // Wait for user confirmation
}

func (s *WebhookAckStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	if cb.IsCancel() {
		return keepWorkflow(b, state)
	}

	if cb.IsSelect() && cb.SelectedID() == "confirm" {
		workflowUUID := state.GetString(KeyWorkflowID)
		if _, err := s.automation.ConfigureWebhook(ctx, workflowUUID, state.UserID); err != nil {
			b.SendMessage(state.ChatID, userMessage(err), nil)
			return workflow.StepResult{}
		}
		b.SendMessage(state.ChatID, "🔗 Webhook configuré.", nil)
		return workflow.StepResult{NextStep: StepWorkflowActions}
	}

	return workflow.StepResult{}
}

// Helper functions

// cancelCreation abandons a creation that has not reached the engine yet.
func cancelCreation(b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	b.SendMessage(state.ChatID, "✖️ Création annulée.", nil)
	return workflow.StepResult{
		NextStep: StepMainMenu,
		UpdateState: map[string]any{
			KeyName:        "",
			KeyDescription: "",
			KeyWorkflowID:  "",
		},
	}
}

// keepWorkflow abandons the trigger configuration of an already created
// workflow and falls back to its actions view.
func keepWorkflow(b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	b.SendMessage(state.ChatID, "Très bien, vous pourrez configurer le déclencheur plus tard.", nil)
	return workflow.StepResult{NextStep: StepWorkflowActions}
}

// userMessage maps service errors to a message the user can act on.
func userMessage(err error) string {
	switch {
	case errors.Is(err, automation.ErrInvalidInput):
		return "⚠️ Entrée invalide, vérifiez votre saisie."
	case errors.Is(err, automation.ErrNotFound):
		return "Workflow introuvable."
	case errors.Is(err, automation.ErrNotActive):
		return "⚠️ Ce workflow est inactif. Activez-le avant de l'exécuter."
	case errors.Is(err, n8n.ErrUnavailable):
		return "🔌 Le moteur d'automatisation est injoignable. Réessayez dans quelques instants."
	case errors.Is(err, n8n.ErrRejected):
		return "Le moteur d'automatisation a refusé la demande."
	default:
		return "Une erreur technique est survenue. Réessayez plus tard."
	}
}
