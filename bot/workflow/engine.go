package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// FlowEngine is the default implementation of the Engine interface.
type FlowEngine struct {
	flows   map[FlowID]Flow
	storage StateStorage
	log     *slog.Logger
}

// NewFlowEngine creates a new conversation flow engine.
func NewFlowEngine(storage StateStorage, log *slog.Logger) *FlowEngine {
	return &FlowEngine{
		flows:   make(map[FlowID]Flow),
		storage: storage,
		log:     log,
	}
}

// RegisterFlow adds a flow to the engine.
func (e *FlowEngine) RegisterFlow(f Flow) {
	e.flows[f.ID()] = f
	e.log.Info("registered flow", slog.String("flow_id", string(f.ID())))
}

// StartFlow begins a new flow for a user.
func (e *FlowEngine) StartFlow(ctx context.Context, b *tgbotapi.Bot, userID, chatID int64, flowID FlowID) error {
	f, ok := e.flows[flowID]
	if !ok {
		return fmt.Errorf("flow not found: %s", flowID)
	}

	state := NewUserState(userID, chatID, flowID, f.InitialStep())

	if err := e.storage.Save(ctx, state); err != nil {
		return fmt.Errorf("saving initial state: %w", err)
	}

	step, ok := f.GetStep(f.InitialStep())
	if !ok {
		return fmt.Errorf("initial step not found: %s", f.InitialStep())
	}

	e.log.Info("starting flow",
		slog.Int64("user_id", userID),
		slog.String("flow_id", string(flowID)),
		slog.String("step_id", string(f.InitialStep())),
	)

	return e.processResult(ctx, b, state, f, step.Enter(ctx, b, state))
}

// HandleMessage routes a message to the current flow step.
func (e *FlowEngine) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context) error {
	state, f, step, err := e.resolve(ctx, c.EffectiveUser.Id)
	if err != nil || step == nil {
		return err
	}

	result := step.HandleMessage(ctx, b, c, state)
	return e.processResult(ctx, b, state, f, result)
}

// HandleCallback routes a callback to the current flow step.
func (e *FlowEngine) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, data string) error {
	state, f, step, err := e.resolve(ctx, c.EffectiveUser.Id)
	if err != nil || step == nil {
		return err
	}

	result := step.HandleCallback(ctx, b, c, state, data)
	return e.processResult(ctx, b, state, f, result)
}

// resolve loads the user's state and looks up the current flow and step.
// A nil step with nil error means no active flow.
func (e *FlowEngine) resolve(ctx context.Context, userID int64) (*UserState, Flow, Step, error) {
	state, err := e.storage.Load(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return nil, nil, nil, nil
	}

	f, ok := e.flows[state.FlowID]
	if !ok {
		return nil, nil, nil, fmt.Errorf("flow not found: %s", state.FlowID)
	}

	step, ok := f.GetStep(state.CurrentStep)
	if !ok {
		return nil, nil, nil, fmt.Errorf("step not found: %s", state.CurrentStep)
	}

	return state, f, step, nil
}

// GetState retrieves the current state for a user.
func (e *FlowEngine) GetState(ctx context.Context, userID int64) (*UserState, error) {
	return e.storage.Load(ctx, userID)
}

// HasActiveFlow checks if a user has an active flow.
func (e *FlowEngine) HasActiveFlow(ctx context.Context, userID int64) (bool, error) {
	return e.storage.Exists(ctx, userID)
}

// ClearState removes the flow state for a user.
func (e *FlowEngine) ClearState(ctx context.Context, userID int64) error {
	return e.storage.Delete(ctx, userID)
}

// processResult handles the result of a step handler, following
// auto-transitions until a step waits for input or the flow completes.
func (e *FlowEngine) processResult(ctx context.Context, b *tgbotapi.Bot, state *UserState, f Flow, result StepResult) error {
	for {
		if result.Error != nil {
			e.log.Error("step error",
				slog.Int64("user_id", state.UserID),
				slog.String("step_id", string(state.CurrentStep)),
				slog.String("error", result.Error.Error()),
			)
			return result.Error
		}

		if result.UpdateState != nil {
			state.MergeData(result.UpdateState)
		}
		state.UpdatedAt = time.Now()

		if result.Complete {
			e.log.Info("flow completed",
				slog.Int64("user_id", state.UserID),
				slog.String("flow_id", string(state.FlowID)),
			)
			return e.storage.Delete(ctx, state.UserID)
		}

		if result.NextStep == "" || result.NextStep == state.CurrentStep {
			return e.storage.Save(ctx, state)
		}

		state.CurrentStep = result.NextStep

		if err := e.storage.Save(ctx, state); err != nil {
			return fmt.Errorf("saving state after transition: %w", err)
		}

		step, ok := f.GetStep(result.NextStep)
		if !ok {
			return fmt.Errorf("next step not found: %s", result.NextStep)
		}

		e.log.Debug("transitioning to step",
			slog.Int64("user_id", state.UserID),
			slog.String("step_id", string(result.NextStep)),
		)

		result = step.Enter(ctx, b, state)
	}
}
