package assistant

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"linklet/bot/workflow"
	"linklet/internal/service/automation"
	"linklet/internal/service/n8n"

	"github.com/stretchr/testify/assert"
)

func TestUserMessageMapsServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid input", automation.ErrInvalidInput, "Entrée invalide"},
		{"not found", automation.ErrNotFound, "introuvable"},
		{"not active", automation.ErrNotActive, "inactif"},
		{"engine down", n8n.ErrUnavailable, "injoignable"},
		{"engine rejected", n8n.ErrRejected, "refusé"},
		{"unknown", fmt.Errorf("boom"), "erreur technique"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, userMessage(tt.err), tt.want)
		})
	}
}

func TestUserMessageMapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("configure trigger: %w", n8n.ErrUnavailable)
	assert.Contains(t, userMessage(err), "injoignable")
}

func TestPayloadPreviewIndentsJSON(t *testing.T) {
	preview := payloadPreview(json.RawMessage(`{"a":1}`))
	assert.Contains(t, preview, "\n")
	assert.Contains(t, preview, `"a": 1`)
}

func TestPayloadPreviewEscapesHTML(t *testing.T) {
	preview := payloadPreview(json.RawMessage(`{"msg":"<b>hi</b>"}`))
	assert.NotContains(t, preview, "<b>")
	assert.Contains(t, preview, "&lt;b&gt;")
}

func TestPayloadPreviewTruncatesLargeResults(t *testing.T) {
	big := fmt.Sprintf(`{"data":%q}`, strings.Repeat("x", 2*maxPayloadPreview))
	preview := payloadPreview(json.RawMessage(big))
	assert.LessOrEqual(t, len(preview), maxPayloadPreview+len("…"))
	assert.True(t, strings.HasSuffix(preview, "…"))
}

func TestPayloadPreviewEmpty(t *testing.T) {
	assert.Empty(t, payloadPreview(nil))
	assert.Empty(t, payloadPreview(json.RawMessage{}))
}

func TestAssistantFlowStepsRegistered(t *testing.T) {
	flow := NewAssistantWorkflow(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ids := []string{
		string(StepMainMenu),
		string(StepListWorkflows),
		string(StepWorkflowActions),
		string(StepChat),
		string(StepRequestName),
		string(StepRequestDescription),
		string(StepCreate),
		string(StepSelectTrigger),
		string(StepSchedule),
		string(StepWebhookAck),
	}
	assert.Len(t, flow.Steps(), len(ids))

	for _, id := range ids {
		step, ok := flow.GetStep(workflow.StepID(id))
		assert.True(t, ok, "step %s not registered", id)
		assert.Equal(t, id, string(step.ID()))
	}

	assert.Equal(t, StepMainMenu, flow.InitialStep())
}
