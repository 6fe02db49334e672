package workflow

import (
	"context"

	"linklet/entity"
)

type Core interface {
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
