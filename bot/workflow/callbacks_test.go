package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantNil    bool
		wantAction string
		wantValue  string
	}{
		{
			name:       "plain action",
			data:       "wf:cancel",
			wantAction: ActionCancel,
		},
		{
			name:       "action with value",
			data:       "wf:menu:main",
			wantAction: ActionMenu,
			wantValue:  "main",
		},
		{
			name:       "run action keeps compound value",
			data:       "wf:run:activate:abc-123",
			wantAction: ActionRun,
			wantValue:  "activate:abc-123",
		},
		{
			name:    "foreign callback",
			data:    "other:thing",
			wantNil: true,
		},
		{
			name:    "empty",
			data:    "",
			wantNil: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cb := ParseCallback(tc.data)
			if tc.wantNil {
				assert.Nil(t, cb)
				return
			}
			require.NotNil(t, cb)
			assert.Equal(t, tc.wantAction, cb.Action)
			assert.Equal(t, tc.wantValue, cb.Value)
		})
	}
}

func TestBuildCallbackRoundTrip(t *testing.T) {
	data := BuildCallback(ActionRun, RunExecute, "abc-123")
	assert.Equal(t, "wf:run:execute:abc-123", data)

	cb := ParseCallback(data)
	require.NotNil(t, cb)
	assert.True(t, cb.IsRun())

	verb, id := cb.RunAction()
	assert.Equal(t, RunExecute, verb)
	assert.Equal(t, "abc-123", id)
}

func TestCallbackHelpers(t *testing.T) {
	assert.Equal(t, "main", ParseCallback("wf:menu:main").MenuID())
	assert.Equal(t, "abc", ParseCallback("wf:select:abc").SelectedID())
	assert.Equal(t, "schedule", ParseCallback("wf:trigger:schedule").TriggerType())
	assert.True(t, ParseCallback("wf:cancel").IsCancel())
	assert.True(t, IsWorkflowCallback("wf:noop"))
	assert.False(t, IsWorkflowCallback("nope"))
}
