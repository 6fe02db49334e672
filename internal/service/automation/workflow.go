package automation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"linklet/entity"
	"linklet/internal/lib/sl"
)

// CreateWorkflow creates the workflow in the remote engine first and
// persists the local record only on remote success, so the repository can
// never hold a record without a remote counterpart.
func (s *Service) CreateWorkflow(ctx context.Context, ownerID int64, name, description string) (*entity.Workflow, error) {
	name, err := entity.ValidateWorkflowName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	remoteID, err := s.engine.CreateWorkflow(ctx, name)
	if err != nil {
		s.log.With(
			slog.Int64("owner_id", ownerID),
			slog.String("name", name),
			sl.Err(err),
		).Error("remote workflow creation failed")
		return nil, err
	}

	workflow := entity.NewWorkflow(ownerID, name, description, remoteID)
	if err := s.repo.InsertWorkflow(ctx, workflow); err != nil {
		// Local persistence failed after the remote object was created.
		// Remove the remote orphan so the invariant holds in both directions.
		if delErr := s.engine.Delete(ctx, remoteID); delErr != nil {
			s.log.With(
				slog.String("remote_id", remoteID),
				sl.Err(delErr),
			).Error("orphan remote workflow could not be removed")
		}
		return nil, fmt.Errorf("persisting workflow: %w", err)
	}

	s.log.With(
		slog.String("uuid", workflow.UUID),
		slog.Int64("owner_id", ownerID),
		slog.String("remote_id", remoteID),
	).Info("workflow created")

	return workflow, nil
}

// ListWorkflows returns the caller's workflows in creation order. An empty
// list is a valid result.
func (s *Service) ListWorkflows(ctx context.Context, ownerID int64) ([]entity.Workflow, error) {
	workflows, err := s.repo.GetWorkflowsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing workflows: %w", err)
	}
	return workflows, nil
}

// GetWorkflow returns one workflow after an ownership check.
func (s *Service) GetWorkflow(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error) {
	return s.owned(ctx, workflowUUID, ownerID)
}

// ConfigureTrigger pushes the trigger to the remote engine and stores it
// locally only after the engine acknowledged. Ownership is verified before
// any remote call.
func (s *Service) ConfigureTrigger(ctx context.Context, workflowUUID string, ownerID int64, trigger entity.Trigger) (*entity.Workflow, error) {
	if trigger.IsZero() {
		return nil, fmt.Errorf("%w: trigger type missing", ErrInvalidInput)
	}

	workflow, err := s.owned(ctx, workflowUUID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.engine.UpdateTrigger(ctx, workflow.RemoteID, trigger); err != nil {
		return nil, err
	}

	workflow.Trigger = &trigger
	if err := s.repo.UpdateWorkflow(ctx, workflow); err != nil {
		return nil, fmt.Errorf("persisting trigger: %w", err)
	}

	s.log.With(
		slog.String("uuid", workflow.UUID),
		slog.String("trigger", trigger.Type),
	).Info("trigger configured")

	return workflow, nil
}

// ConfigureManual sets a manual trigger.
func (s *Service) ConfigureManual(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error) {
	return s.ConfigureTrigger(ctx, workflowUUID, ownerID, entity.ManualTrigger())
}

// ConfigureSchedule converts the natural language schedule text to cron
// and sets a schedule trigger. Unsupported phrasing is InvalidInput.
func (s *Service) ConfigureSchedule(ctx context.Context, workflowUUID string, ownerID int64, text string) (*entity.Workflow, error) {
	cronExpr, err := s.converter(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	trigger, err := entity.ScheduleTrigger(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.ConfigureTrigger(ctx, workflowUUID, ownerID, trigger)
}

// ConfigureWebhook sets a webhook trigger with the URL derived from the
// workflow id.
func (s *Service) ConfigureWebhook(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error) {
	return s.ConfigureTrigger(ctx, workflowUUID, ownerID, entity.WebhookTrigger(s.WebhookURL(workflowUUID)))
}

// ActivateWorkflow flips the remote active flag on, then mirrors it
// locally. Activating an already active workflow is not an error; the
// remote call is still issued since cached state is not assumed safe.
func (s *Service) ActivateWorkflow(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error) {
	return s.setActive(ctx, workflowUUID, ownerID, true)
}

// DeactivateWorkflow flips the remote active flag off, then mirrors it
// locally.
func (s *Service) DeactivateWorkflow(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error) {
	return s.setActive(ctx, workflowUUID, ownerID, false)
}

func (s *Service) setActive(ctx context.Context, workflowUUID string, ownerID int64, active bool) (*entity.Workflow, error) {
	workflow, err := s.owned(ctx, workflowUUID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.engine.SetActive(ctx, workflow.RemoteID, active); err != nil {
		return nil, err
	}

	workflow.IsActive = active
	if err := s.repo.UpdateWorkflow(ctx, workflow); err != nil {
		return nil, fmt.Errorf("persisting active flag: %w", err)
	}

	s.log.With(
		slog.String("uuid", workflow.UUID),
		slog.Bool("active", active),
	).Info("workflow activation changed")

	return workflow, nil
}

// ExecuteWorkflow runs an active workflow and returns the engine's result
// payload verbatim. No remote call is issued for an inactive workflow.
func (s *Service) ExecuteWorkflow(ctx context.Context, workflowUUID string, ownerID int64, payload map[string]any) (*entity.ExecutionResult, error) {
	workflow, err := s.owned(ctx, workflowUUID, ownerID)
	if err != nil {
		return nil, err
	}
	if !workflow.IsActive {
		return nil, ErrNotActive
	}

	started := time.Now()
	s.publish(entity.ExecutionEvent{
		Type:         entity.EventExecutionStarted,
		WorkflowUUID: workflow.UUID,
		WorkflowName: workflow.Name,
		OwnerID:      workflow.OwnerID,
		At:           started,
	})

	raw, err := s.engine.Execute(ctx, workflow.RemoteID, payload)
	if err != nil {
		s.publish(entity.ExecutionEvent{
			Type:         entity.EventExecutionFailed,
			WorkflowUUID: workflow.UUID,
			WorkflowName: workflow.Name,
			OwnerID:      workflow.OwnerID,
			Error:        err.Error(),
			At:           time.Now(),
		})
		return nil, err
	}

	finished := time.Now()
	s.publish(entity.ExecutionEvent{
		Type:         entity.EventExecutionFinished,
		WorkflowUUID: workflow.UUID,
		WorkflowName: workflow.Name,
		OwnerID:      workflow.OwnerID,
		At:           finished,
	})

	return &entity.ExecutionResult{
		WorkflowUUID: workflow.UUID,
		RemoteID:     workflow.RemoteID,
		Payload:      raw,
		StartedAt:    started,
		FinishedAt:   finished,
	}, nil
}

// DeleteWorkflow removes the remote object first, then the local record.
// A locally absent workflow is already deleted, so a repeated call
// succeeds; a foreign workflow is reported as not found.
func (s *Service) DeleteWorkflow(ctx context.Context, workflowUUID string, ownerID int64) error {
	workflow, err := s.repo.GetWorkflow(ctx, workflowUUID)
	if err != nil {
		return fmt.Errorf("loading workflow: %w", err)
	}
	if workflow == nil {
		return nil
	}
	if workflow.OwnerID != ownerID {
		return ErrNotFound
	}

	// The engine treats an already absent remote object as deleted. Any
	// other remote failure keeps the local record so it can never point
	// at an unresolved remote state.
	if err := s.engine.Delete(ctx, workflow.RemoteID); err != nil {
		return err
	}

	if err := s.repo.DeleteWorkflow(ctx, workflowUUID); err != nil {
		return fmt.Errorf("deleting workflow record: %w", err)
	}

	s.log.With(
		slog.String("uuid", workflowUUID),
		slog.Int64("owner_id", ownerID),
	).Info("workflow deleted")

	return nil
}
