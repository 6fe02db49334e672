package workflow

import (
	"context"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// StepID is a unique identifier for a step within a flow.
type StepID string

// FlowID is a unique identifier for a conversation flow.
type FlowID string

// StepResult represents the outcome of handling an event in a step.
type StepResult struct {
	NextStep    StepID
	UpdateState map[string]any
	Complete    bool
	Error       error
}

// Step defines the interface for a single conversation step.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// Enter is called when the user enters this step.
	// It should send any initial messages/keyboards to the user.
	// Return a StepResult with NextStep set to auto-transition without waiting for user input.
	Enter(ctx context.Context, b *tgbotapi.Bot, state *UserState) StepResult

	// HandleMessage processes a text message from the user.
	HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *UserState) StepResult

	// HandleCallback processes a callback query from inline keyboard buttons.
	HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *UserState, data string) StepResult
}

// Flow defines the interface for a complete conversation flow.
type Flow interface {
	// ID returns the unique identifier for this flow.
	ID() FlowID

	// InitialStep returns the first step of the flow.
	InitialStep() StepID

	// GetStep returns a step by its ID.
	GetStep(id StepID) (Step, bool)

	// Steps returns all steps in this flow.
	Steps() []Step
}

// Engine manages flow execution and state persistence.
type Engine interface {
	// RegisterFlow adds a flow to the engine.
	RegisterFlow(f Flow)

	// StartFlow begins a new flow for a user.
	StartFlow(ctx context.Context, b *tgbotapi.Bot, userID, chatID int64, flowID FlowID) error

	// HandleMessage routes a message to the current flow step.
	HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context) error

	// HandleCallback routes a callback to the current flow step.
	HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, data string) error

	// GetState retrieves the current state for a user.
	GetState(ctx context.Context, userID int64) (*UserState, error)

	// HasActiveFlow checks if a user has an active flow.
	HasActiveFlow(ctx context.Context, userID int64) (bool, error)

	// ClearState removes the flow state for a user.
	ClearState(ctx context.Context, userID int64) error
}

// StateStorage handles persistence of conversation states.
type StateStorage interface {
	// Save persists a user's conversation state.
	Save(ctx context.Context, state *UserState) error

	// Load retrieves a user's conversation state.
	Load(ctx context.Context, userID int64) (*UserState, error)

	// Delete removes a user's conversation state.
	Delete(ctx context.Context, userID int64) error

	// Exists checks if a user has a saved state.
	Exists(ctx context.Context, userID int64) (bool, error)
}
