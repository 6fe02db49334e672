package assistant

import (
	"context"
	"errors"
	"fmt"

	"linklet/bot/workflow"
	"linklet/bot/workflow/ui"
	"linklet/entity"
	"linklet/internal/service/automation"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// MainMenuStep - Entry point of the conversation
type MainMenuStep struct {
	BaseStep
}

func NewMainMenuStep() *MainMenuStep {
	return &MainMenuStep{BaseStep: BaseStep{id: StepMainMenu}}
}

func (s *MainMenuStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	keyboard := ui.MenuKeyboard([][]ui.MenuItem{
		{{ID: MenuCreate, Text: "➕ Créer un workflow"}},
		{{ID: MenuList, Text: "📋 Mes workflows"}},
		{{ID: MenuChat, Text: "💬 Assistant IA"}},
	})

	_, err := b.SendMessage(state.ChatID, "🤖 <b>Linklet</b>, votre assistant d'automatisation.\nQue souhaitez-vous faire ?", &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{} // Wait for user selection
}

func (s *MainMenuStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	b.SendMessage(state.ChatID, "Utilisez le menu ci-dessus, ou lancez le mode 💬 Assistant IA pour discuter.", nil)
	return workflow.StepResult{}
}

func (s *MainMenuStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	switch cb.MenuID() {
	case MenuCreate:
		return workflow.StepResult{
			NextStep: StepRequestName,
			UpdateState: map[string]any{
				KeyName:        "",
				KeyDescription: "",
				KeyWorkflowID:  "",
			},
		}
	case MenuList:
		return workflow.StepResult{NextStep: StepListWorkflows}
	case MenuChat:
		return workflow.StepResult{NextStep: StepChat}
	}

	return workflow.StepResult{}
}

// ListWorkflowsStep - Show the user's workflows
type ListWorkflowsStep struct {
	BaseStep
	automation AutomationService
}

func NewListWorkflowsStep(automation AutomationService) *ListWorkflowsStep {
	return &ListWorkflowsStep{
		BaseStep:   BaseStep{id: StepListWorkflows},
		automation: automation,
	}
}

func (s *ListWorkflowsStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	workflows, err := s.automation.ListWorkflows(ctx, state.UserID)
	if err != nil {
		b.SendMessage(state.ChatID, userMessage(err), nil)
		return workflow.StepResult{NextStep: StepMainMenu}
	}

	if len(workflows) == 0 {
		keyboard := ui.MenuKeyboard([][]ui.MenuItem{
			{{ID: MenuCreate, Text: "➕ Créer un workflow"}},
			{{ID: MenuMain, Text: "◀️ Retour"}},
		})
		_, err := b.SendMessage(state.ChatID, "Vous n'avez encore aucun workflow.", &tgbotapi.SendMessageOpts{
			ReplyMarkup: keyboard,
		})
		if err != nil {
			return workflow.StepResult{Error: err}
		}
		return workflow.StepResult{}
	}

	_, err = b.SendMessage(state.ChatID, fmt.Sprintf("📋 Vos workflows (%d) :", len(workflows)), &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.WorkflowListKeyboard(workflows),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{} // Wait for user selection
}

func (s *ListWorkflowsStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	if cb.IsSelect() {
		return workflow.StepResult{
			NextStep:    StepWorkflowActions,
			UpdateState: map[string]any{KeySelected: cb.SelectedID()},
		}
	}

	switch cb.MenuID() {
	case MenuMain:
		return workflow.StepResult{NextStep: StepMainMenu}
	case MenuCreate:
		return workflow.StepResult{NextStep: StepRequestName}
	}

	return workflow.StepResult{}
}

// WorkflowActionsStep - Detail view and actions for one workflow
type WorkflowActionsStep struct {
	BaseStep
	automation AutomationService
}

func NewWorkflowActionsStep(automation AutomationService) *WorkflowActionsStep {
	return &WorkflowActionsStep{
		BaseStep:   BaseStep{id: StepWorkflowActions},
		automation: automation,
	}
}

func (s *WorkflowActionsStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	return s.render(ctx, b, state)
}

// render sends the workflow detail card with its actions keyboard.
func (s *WorkflowActionsStep) render(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	w, err := s.automation.GetWorkflow(ctx, state.GetString(KeySelected), state.UserID)
	if err != nil {
		if errors.Is(err, automation.ErrNotFound) {
			b.SendMessage(state.ChatID, "Workflow introuvable.", nil)
			return workflow.StepResult{NextStep: StepListWorkflows}
		}
		b.SendMessage(state.ChatID, userMessage(err), nil)
		return workflow.StepResult{NextStep: StepMainMenu}
	}

	trigger := "non configuré"
	if w.Trigger != nil {
		trigger = w.Trigger.Describe()
	}

	msg := fmt.Sprintf("<b>%s</b>\n%s\n\nStatut : %s\nDéclencheur : %s",
		w.Name, w.Description, w.StatusLabel(), trigger)
	if w.Trigger != nil && w.Trigger.Type == entity.TriggerWebhook {
		msg += fmt.Sprintf("\nURL : <code>%s</code>", w.Trigger.URL)
	}

	_, err = b.SendMessage(state.ChatID, msg, &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: ui.WorkflowActionsKeyboard(w),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{} // Wait for user action
}

func (s *WorkflowActionsStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	switch cb.MenuID() {
	case MenuList:
		return workflow.StepResult{NextStep: StepListWorkflows}
	case MenuMain:
		return workflow.StepResult{NextStep: StepMainMenu}
	}

	if !cb.IsRun() {
		return workflow.StepResult{}
	}

	verb, workflowUUID := cb.RunAction()
	if workflowUUID == "" {
		workflowUUID = state.GetString(KeySelected)
	}

	switch verb {
	case workflow.RunActivate:
		if _, err := s.automation.ActivateWorkflow(ctx, workflowUUID, state.UserID); err != nil {
			b.SendMessage(state.ChatID, userMessage(err), nil)
			return workflow.StepResult{}
		}
		b.SendMessage(state.ChatID, "🟢 Workflow activé.", nil)
		return s.render(ctx, b, state)

	case workflow.RunDeactivate:
		if _, err := s.automation.DeactivateWorkflow(ctx, workflowUUID, state.UserID); err != nil {
			b.SendMessage(state.ChatID, userMessage(err), nil)
			return workflow.StepResult{}
		}
		b.SendMessage(state.ChatID, "🔴 Workflow désactivé.", nil)
		return s.render(ctx, b, state)

	case workflow.RunExecute:
		result, err := s.automation.ExecuteWorkflow(ctx, workflowUUID, state.UserID, nil)
		if err != nil {
			b.SendMessage(state.ChatID, userMessage(err), nil)
			return workflow.StepResult{}
		}
		msg := "🚀 Exécution terminée."
		if preview := payloadPreview(result.Payload); preview != "" {
			msg += fmt.Sprintf("\n<pre>%s</pre>", preview)
		}
		b.SendMessage(state.ChatID, msg, &tgbotapi.SendMessageOpts{
			ParseMode: "HTML",
		})
		return workflow.StepResult{}

	case workflow.RunConfigure:
		return workflow.StepResult{
			NextStep:    StepSelectTrigger,
			UpdateState: map[string]any{KeyWorkflowID: workflowUUID},
		}

	case workflow.RunDelete:
		if err := s.automation.DeleteWorkflow(ctx, workflowUUID, state.UserID); err != nil {
			b.SendMessage(state.ChatID, userMessage(err), nil)
			return workflow.StepResult{}
		}
		b.SendMessage(state.ChatID, "🗑️ Workflow supprimé.", nil)
		return workflow.StepResult{NextStep: StepListWorkflows}
	}

	return workflow.StepResult{}
}
