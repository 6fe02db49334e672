package assistant

import (
	"context"
	"log/slog"

	"linklet/bot/workflow"
	"linklet/entity"
)

// Flow ID
const (
	FlowID workflow.FlowID = "assistant"
)

// Step IDs
const (
	StepMainMenu           workflow.StepID = "main_menu"
	StepListWorkflows      workflow.StepID = "list_workflows"
	StepWorkflowActions    workflow.StepID = "workflow_actions"
	StepChat               workflow.StepID = "ai_chat"
	StepRequestName        workflow.StepID = "request_name"
	StepRequestDescription workflow.StepID = "request_description"
	StepCreate             workflow.StepID = "create"
	StepSelectTrigger      workflow.StepID = "select_trigger"
	StepSchedule           workflow.StepID = "schedule"
	StepWebhookAck         workflow.StepID = "webhook_ack"
)

// State data keys
const (
	KeyName        = "name"
	KeyDescription = "description"
	KeyWorkflowID  = "workflow_uuid"
	KeySelected    = "selected_uuid"
)

// Menu item IDs
const (
	MenuMain   = "main"
	MenuCreate = "create"
	MenuList   = "list"
	MenuChat   = "chat"
)

// AutomationService defines the workflow operations the conversation drives.
type AutomationService interface {
	CreateWorkflow(ctx context.Context, ownerID int64, name, description string) (*entity.Workflow, error)
	ListWorkflows(ctx context.Context, ownerID int64) ([]entity.Workflow, error)
	GetWorkflow(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error)
	ConfigureManual(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error)
	ConfigureSchedule(ctx context.Context, workflowUUID string, ownerID int64, text string) (*entity.Workflow, error)
	ConfigureWebhook(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error)
	ActivateWorkflow(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error)
	DeactivateWorkflow(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error)
	ExecuteWorkflow(ctx context.Context, workflowUUID string, ownerID int64, payload map[string]any) (*entity.ExecutionResult, error)
	DeleteWorkflow(ctx context.Context, workflowUUID string, ownerID int64) error
	WebhookURL(workflowUUID string) string
}

// ChatProvider defines the interface for AI chat completions.
type ChatProvider interface {
	GenerateChatResponse(ctx context.Context, messages []entity.ChatMessage) (string, error)
	Name() string
}

// AssistantWorkflow implements the bot's single conversation flow: main
// menu, workflow management and the AI chat mode.
type AssistantWorkflow struct {
	steps      map[workflow.StepID]workflow.Step
	automation AutomationService
	chat       ChatProvider
	log        *slog.Logger
}

// NewAssistantWorkflow creates the assistant flow.
func NewAssistantWorkflow(automation AutomationService, chat ChatProvider, log *slog.Logger) *AssistantWorkflow {
	w := &AssistantWorkflow{
		steps:      make(map[workflow.StepID]workflow.Step),
		automation: automation,
		chat:       chat,
		log:        log,
	}

	// Register all steps
	w.registerSteps()

	return w
}

// ID returns the flow ID.
func (w *AssistantWorkflow) ID() workflow.FlowID {
	return FlowID
}

// InitialStep returns the first step.
func (w *AssistantWorkflow) InitialStep() workflow.StepID {
	return StepMainMenu
}

// GetStep returns a step by ID.
func (w *AssistantWorkflow) GetStep(id workflow.StepID) (workflow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}

// Steps returns all steps.
func (w *AssistantWorkflow) Steps() []workflow.Step {
	steps := make([]workflow.Step, 0, len(w.steps))
	for _, step := range w.steps {
		steps = append(steps, step)
	}
	return steps
}

// registerSteps registers all flow steps.
func (w *AssistantWorkflow) registerSteps() {
	w.steps[StepMainMenu] = NewMainMenuStep()
	w.steps[StepListWorkflows] = NewListWorkflowsStep(w.automation)
	w.steps[StepWorkflowActions] = NewWorkflowActionsStep(w.automation)
	w.steps[StepChat] = NewChatStep(w.chat)
	w.steps[StepRequestName] = NewRequestNameStep()
	w.steps[StepRequestDescription] = NewRequestDescriptionStep()
	w.steps[StepCreate] = NewCreateStep(w.automation)
	w.steps[StepSelectTrigger] = NewSelectTriggerStep(w.automation)
	w.steps[StepSchedule] = NewScheduleStep(w.automation)
	w.steps[StepWebhookAck] = NewWebhookAckStep(w.automation)
}
