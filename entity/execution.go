package entity

import (
	"encoding/json"
	"time"
)

// ExecutionResult carries the engine's raw execution response. The payload
// is opaque to the orchestrator and forwarded to the caller unchanged.
type ExecutionResult struct {
	WorkflowUUID string          `json:"workflow_uuid"`
	RemoteID     string          `json:"remote_id"`
	Payload      json.RawMessage `json:"payload"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
}

// Execution event types broadcast to dashboard clients.
const (
	EventExecutionStarted  = "execution_started"
	EventExecutionFinished = "execution_finished"
	EventExecutionFailed   = "execution_failed"
)

// ExecutionEvent is pushed to the websocket hub around each execution.
type ExecutionEvent struct {
	Type         string    `json:"type"`
	WorkflowUUID string    `json:"workflow_uuid"`
	WorkflowName string    `json:"workflow_name"`
	OwnerID      int64     `json:"owner_id"`
	Error        string    `json:"error,omitempty"`
	At           time.Time `json:"at"`
}
