package core

import (
	"context"
	"fmt"

	"linklet/entity"
)

func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if c.authKey != "" && token == c.authKey {
		return &entity.UserAuth{Username: "admin", Token: token}, nil
	}
	if c.repo == nil {
		return nil, fmt.Errorf("not set Repository")
	}
	return c.repo.AuthenticateByToken(token)
}

func (c *Core) GenerateApiKey(username string) (string, error) {
	if c.repo == nil {
		return "", fmt.Errorf("not set Repository")
	}
	return c.repo.GenerateApiKey(username)
}

func (c *Core) CreateWorkflow(ctx context.Context, ownerID int64, name, description string) (*entity.Workflow, error) {
	if c.workflows == nil {
		return nil, fmt.Errorf("not set WorkflowService")
	}
	return c.workflows.CreateWorkflow(ctx, ownerID, name, description)
}

func (c *Core) ListWorkflows(ctx context.Context, ownerID int64) ([]entity.Workflow, error) {
	if c.workflows == nil {
		return nil, fmt.Errorf("not set WorkflowService")
	}
	return c.workflows.ListWorkflows(ctx, ownerID)
}

func (c *Core) GetWorkflow(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error) {
	if c.workflows == nil {
		return nil, fmt.Errorf("not set WorkflowService")
	}
	return c.workflows.GetWorkflow(ctx, workflowUUID, ownerID)
}

func (c *Core) ConfigureManual(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error) {
	if c.workflows == nil {
		return nil, fmt.Errorf("not set WorkflowService")
	}
	return c.workflows.ConfigureManual(ctx, workflowUUID, ownerID)
}

func (c *Core) ConfigureSchedule(ctx context.Context, workflowUUID string, ownerID int64, text string) (*entity.Workflow, error) {
	if c.workflows == nil {
		return nil, fmt.Errorf("not set WorkflowService")
	}
	return c.workflows.ConfigureSchedule(ctx, workflowUUID, ownerID, text)
}

func (c *Core) ConfigureWebhook(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error) {
	if c.workflows == nil {
		return nil, fmt.Errorf("not set WorkflowService")
	}
	return c.workflows.ConfigureWebhook(ctx, workflowUUID, ownerID)
}

func (c *Core) ActivateWorkflow(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error) {
	if c.workflows == nil {
		return nil, fmt.Errorf("not set WorkflowService")
	}
	return c.workflows.ActivateWorkflow(ctx, workflowUUID, ownerID)
}

func (c *Core) DeactivateWorkflow(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error) {
	if c.workflows == nil {
		return nil, fmt.Errorf("not set WorkflowService")
	}
	return c.workflows.DeactivateWorkflow(ctx, workflowUUID, ownerID)
}

func (c *Core) ExecuteWorkflow(ctx context.Context, workflowUUID string, ownerID int64, payload map[string]any) (*entity.ExecutionResult, error) {
	if c.workflows == nil {
		return nil, fmt.Errorf("not set WorkflowService")
	}
	return c.workflows.ExecuteWorkflow(ctx, workflowUUID, ownerID, payload)
}

func (c *Core) DeleteWorkflow(ctx context.Context, workflowUUID string, ownerID int64) error {
	if c.workflows == nil {
		return fmt.Errorf("not set WorkflowService")
	}
	return c.workflows.DeleteWorkflow(ctx, workflowUUID, ownerID)
}
