package workflow

import (
	"strings"
)

// Callback action constants
const (
	CallbackPrefix = "wf:"
	ActionCancel   = "cancel"
	ActionMenu     = "menu"
	ActionSelect   = "select"
	ActionTrigger  = "trigger"
	ActionRun      = "run"
	ActionNoop     = "noop"
)

// Workflow run sub-actions, encoded as "wf:run:<verb>:<uuid>".
const (
	RunActivate   = "activate"
	RunDeactivate = "deactivate"
	RunExecute    = "execute"
	RunDelete     = "delete"
	RunConfigure  = "configure"
)

// CallbackData represents parsed callback data.
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses a callback data string.
// Format: "wf:action:value" or "wf:action"
func ParseCallback(data string) *CallbackData {
	if !strings.HasPrefix(data, CallbackPrefix) {
		return nil
	}

	data = strings.TrimPrefix(data, CallbackPrefix)
	parts := strings.SplitN(data, ":", 2)

	cb := &CallbackData{
		Action: parts[0],
	}

	if len(parts) > 1 {
		cb.Value = parts[1]
	}

	return cb
}

// IsWorkflowCallback checks if the callback data belongs to a flow.
func IsWorkflowCallback(data string) bool {
	return strings.HasPrefix(data, CallbackPrefix)
}

// BuildCallback creates a callback data string.
func BuildCallback(action string, value ...string) string {
	if len(value) > 0 && value[0] != "" {
		return CallbackPrefix + action + ":" + strings.Join(value, ":")
	}
	return CallbackPrefix + action
}

// IsCancel checks if the callback is a "cancel" action.
func (c *CallbackData) IsCancel() bool {
	return c.Action == ActionCancel
}

// IsMenu checks if the callback is a "menu" action.
func (c *CallbackData) IsMenu() bool {
	return c.Action == ActionMenu
}

// IsSelect checks if the callback is a "select" action.
func (c *CallbackData) IsSelect() bool {
	return c.Action == ActionSelect
}

// IsTrigger checks if the callback selects a trigger type.
func (c *CallbackData) IsTrigger() bool {
	return c.Action == ActionTrigger
}

// IsRun checks if the callback is a workflow run action.
func (c *CallbackData) IsRun() bool {
	return c.Action == ActionRun
}

// MenuID returns the menu item ID for menu callbacks.
func (c *CallbackData) MenuID() string {
	if c.Action != ActionMenu {
		return ""
	}
	return c.Value
}

// SelectedID returns the selected item ID for select callbacks.
func (c *CallbackData) SelectedID() string {
	if c.Action != ActionSelect {
		return ""
	}
	return c.Value
}

// TriggerType returns the trigger type for trigger callbacks.
func (c *CallbackData) TriggerType() string {
	if c.Action != ActionTrigger {
		return ""
	}
	return c.Value
}

// RunAction splits a run callback into its verb and workflow id.
func (c *CallbackData) RunAction() (verb, workflowID string) {
	if c.Action != ActionRun {
		return "", ""
	}
	parts := strings.SplitN(c.Value, ":", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
