package automation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"linklet/entity"
	"linklet/internal/config"
	"linklet/internal/lib/schedule"
	"linklet/internal/lib/sl"
)

// Caller-facing error taxonomy. Remote failures from the engine client
// (n8n.ErrUnavailable, n8n.ErrRejected) pass through unwrapped.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("workflow not found")
	ErrNotActive    = errors.New("workflow is not active")
)

// Repository is the local persistence contract. Every operation is
// individually atomic; no multi-record transactions are required.
type Repository interface {
	InsertWorkflow(ctx context.Context, workflow *entity.Workflow) error
	GetWorkflow(ctx context.Context, uuid string) (*entity.Workflow, error)
	GetWorkflowsByOwner(ctx context.Context, ownerID int64) ([]entity.Workflow, error)
	UpdateWorkflow(ctx context.Context, workflow *entity.Workflow) error
	DeleteWorkflow(ctx context.Context, uuid string) error
}

// EngineClient is the remote workflow engine contract.
type EngineClient interface {
	CreateWorkflow(ctx context.Context, name string) (string, error)
	UpdateTrigger(ctx context.Context, remoteID string, trigger entity.Trigger) error
	SetActive(ctx context.Context, remoteID string, active bool) error
	Execute(ctx context.Context, remoteID string, payload map[string]any) (json.RawMessage, error)
	Delete(ctx context.Context, remoteID string) error
}

// EventSink receives execution lifecycle events. Optional.
type EventSink interface {
	PublishExecution(event entity.ExecutionEvent)
}

// Service coordinates user-driven workflow mutations, keeping the local
// repository consistent with the remote engine. Local state changes only
// after the corresponding remote call succeeded.
type Service struct {
	repo        Repository
	engine      EngineClient
	events      EventSink
	converter   schedule.Converter
	webhookBase string
	log         *slog.Logger
}

func NewService(conf *config.Config, engine EngineClient, logger *slog.Logger) *Service {
	webhookBase := conf.N8N.WebhookBaseURL
	if webhookBase == "" {
		webhookBase = conf.N8N.BaseURL
	}
	return &Service{
		engine:      engine,
		converter:   schedule.ToCron,
		webhookBase: webhookBase,
		log:         logger.With(sl.Module("automation")),
	}
}

func (s *Service) SetRepository(repo Repository) {
	s.repo = repo
}

func (s *Service) SetEventSink(events EventSink) {
	s.events = events
}

// SetConverter replaces the natural-language schedule converter.
func (s *Service) SetConverter(converter schedule.Converter) {
	s.converter = converter
}

// WebhookURL derives the webhook trigger URL for a workflow. Never
// user-supplied.
func (s *Service) WebhookURL(workflowUUID string) string {
	return fmt.Sprintf("%s/workflow/%s", s.webhookBase, workflowUUID)
}

// owned loads a workflow and verifies ownership. A missing record and a
// foreign record are indistinguishable to the caller.
func (s *Service) owned(ctx context.Context, workflowUUID string, ownerID int64) (*entity.Workflow, error) {
	workflow, err := s.repo.GetWorkflow(ctx, workflowUUID)
	if err != nil {
		return nil, fmt.Errorf("loading workflow: %w", err)
	}
	if workflow == nil || workflow.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return workflow, nil
}

func (s *Service) publish(event entity.ExecutionEvent) {
	if s.events != nil {
		s.events.PublishExecution(event)
	}
}
