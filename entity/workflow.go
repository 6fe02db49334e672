package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Trigger type constants, mirrored in the engine payload.
const (
	TriggerManual   = "manual"
	TriggerSchedule = "schedule"
	TriggerWebhook  = "webhook"
)

const MinWorkflowNameLen = 3

var (
	ErrShortName   = errors.New("workflow name must be at least 3 characters")
	ErrInvalidCron = errors.New("invalid cron expression")
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Trigger describes when a workflow runs. Type is always one of the
// trigger constants; Cron is set only for schedule triggers and URL only
// for webhook triggers. Construct through the helpers so an invalid
// combination can never be stored.
type Trigger struct {
	Type string `json:"type" bson:"type"`
	Cron string `json:"cron,omitempty" bson:"cron,omitempty"`
	URL  string `json:"url,omitempty" bson:"url,omitempty"`
}

func ManualTrigger() Trigger {
	return Trigger{Type: TriggerManual}
}

// ScheduleTrigger builds a schedule trigger from a 5-field cron expression.
func ScheduleTrigger(cronExpr string) (Trigger, error) {
	if _, err := cronParser.Parse(cronExpr); err != nil {
		return Trigger{}, fmt.Errorf("%w: %q", ErrInvalidCron, cronExpr)
	}
	return Trigger{Type: TriggerSchedule, Cron: cronExpr}, nil
}

func WebhookTrigger(url string) Trigger {
	return Trigger{Type: TriggerWebhook, URL: url}
}

func (t Trigger) IsZero() bool {
	return t.Type == ""
}

// Describe returns a short human readable description of the trigger.
func (t Trigger) Describe() string {
	switch t.Type {
	case TriggerManual:
		return "manuel"
	case TriggerSchedule:
		return fmt.Sprintf("planifié (%s)", t.Cron)
	case TriggerWebhook:
		return fmt.Sprintf("webhook (%s)", t.URL)
	}
	return "non configuré"
}

// Workflow is the local record of an automation delegated to the remote
// engine. RemoteID is set at creation time; a record without it is never
// persisted.
type Workflow struct {
	UUID        string    `json:"uuid" bson:"uuid"`
	OwnerID     int64     `json:"owner_id" bson:"owner_id"`
	Name        string    `json:"name" bson:"name" validate:"required,min=3"`
	Description string    `json:"description" bson:"description" validate:"omitempty"`
	RemoteID    string    `json:"remote_id" bson:"remote_id"`
	Trigger     *Trigger  `json:"trigger,omitempty" bson:"trigger,omitempty"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// NewWorkflow builds a local workflow record for a successful remote
// creation. The name must already be validated with ValidateWorkflowName.
func NewWorkflow(ownerID int64, name, description, remoteID string) *Workflow {
	return &Workflow{
		UUID:        uuid.NewString(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		RemoteID:    remoteID,
		IsActive:    false,
		CreatedAt:   time.Now(),
	}
}

// ValidateWorkflowName checks the minimal name constraint on the trimmed
// input and returns the trimmed name.
func ValidateWorkflowName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < MinWorkflowNameLen {
		return "", ErrShortName
	}
	return name, nil
}

func (w *Workflow) StatusLabel() string {
	if w.IsActive {
		return "🟢 Actif"
	}
	return "🔴 Inactif"
}

func (w *Workflow) ShortID() string {
	if len(w.UUID) < 8 {
		return w.UUID
	}
	return w.UUID[:8]
}
