package n8n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"linklet/entity"
	"log/slog"
	"net/http"
)

// remoteWorkflow is the engine's workflow representation.
type remoteWorkflow struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Nodes       []any          `json:"nodes"`
	Connections map[string]any `json:"connections"`
	Active      bool           `json:"active"`
}

type triggerPayload struct {
	Trigger entity.Trigger `json:"trigger"`
}

// CreateWorkflow creates a remote workflow with an empty action graph and
// returns the engine-assigned id. New workflows start inactive.
func (s *Service) CreateWorkflow(ctx context.Context, name string) (string, error) {
	payload := remoteWorkflow{
		Name:        name,
		Nodes:       []any{},
		Connections: map[string]any{},
		Active:      false,
	}

	body, err := s.request(ctx, http.MethodPost, "workflows", payload)
	if err != nil {
		return "", err
	}

	var created remoteWorkflow
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to parse response: %v", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: engine returned no workflow id", ErrRejected)
	}

	s.Log.With(
		slog.String("remote_id", created.ID),
		slog.String("name", name),
	).Debug("remote workflow created")

	return created.ID, nil
}

// UpdateTrigger pushes a new trigger definition into the remote workflow.
func (s *Service) UpdateTrigger(ctx context.Context, remoteID string, trigger entity.Trigger) error {
	path := fmt.Sprintf("workflows/%s", remoteID)
	_, err := s.request(ctx, http.MethodPut, path, triggerPayload{Trigger: trigger})
	return err
}

// SetActive flips the remote activation flag.
func (s *Service) SetActive(ctx context.Context, remoteID string, active bool) error {
	path := fmt.Sprintf("workflows/%s", remoteID)
	_, err := s.request(ctx, http.MethodPut, path, map[string]bool{"active": active})
	return err
}

// Execute runs the remote workflow and returns the engine's raw response.
func (s *Service) Execute(ctx context.Context, remoteID string, payload map[string]any) (json.RawMessage, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	path := fmt.Sprintf("workflows/%s/execute", remoteID)
	body, err := s.request(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Delete removes the remote workflow. An already absent workflow is
// treated as deleted.
func (s *Service) Delete(ctx context.Context, remoteID string) error {
	path := fmt.Sprintf("workflows/%s", remoteID)
	_, err := s.request(ctx, http.MethodDelete, path, nil)
	if errors.Is(err, ErrNotFound) {
		s.Log.With(slog.String("remote_id", remoteID)).Debug("remote workflow already absent")
		return nil
	}
	return err
}
