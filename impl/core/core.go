package core

import (
	"context"
	"log/slog"

	"linklet/entity"
	"linklet/internal/lib/sl"
)

type Repository interface {
	AuthenticateByToken(token string) (*entity.UserAuth, error)
	GenerateApiKey(username string) (string, error)
}

type WorkflowService interface {
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
}

// Core aggregates the services behind the management API.
type Core struct {
	repo      Repository
	workflows WorkflowService
	authKey   string
	log       *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

// SetAuthKey sets the static fallback API key used when no key store is
// available.
func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

func (c *Core) SetWorkflowService(workflows WorkflowService) {
	c.workflows = workflows
}
