package n8n

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linklet/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(url string) *Service {
	return &Service{
		BaseURL: url,
		ApiKey:  "test-key",
		Client:  &http.Client{Timeout: time.Second},
		Log:     slog.New(slog.NewTextHandler(testWriter{}, nil)),
	}
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestCreateWorkflow(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody remoteWorkflow

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("X-N8N-API-KEY")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(remoteWorkflow{ID: "r-1", Name: gotBody.Name})
	}))
	defer srv.Close()

	s := testService(srv.URL)
	remoteID, err := s.CreateWorkflow(context.Background(), "Daily Backup")
	require.NoError(t, err)

	assert.Equal(t, "r-1", remoteID)
	assert.Equal(t, "test-key", gotAuth)
	assert.Equal(t, "/api/v1/workflows", gotPath)
	assert.Equal(t, "Daily Backup", gotBody.Name)
	assert.NotNil(t, gotBody.Nodes)
	assert.Empty(t, gotBody.Nodes)
	assert.False(t, gotBody.Active)
}

func TestCreateWorkflowErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "validation failure", status: http.StatusBadRequest, wantErr: ErrRejected},
		{name: "engine down", status: http.StatusBadGateway, wantErr: ErrUnavailable},
		{name: "missing endpoint", status: http.StatusNotFound, wantErr: ErrNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			_, err := testService(srv.URL).CreateWorkflow(context.Background(), "wf")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateWorkflowTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := testService(srv.URL).CreateWorkflow(context.Background(), "wf")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUpdateTrigger(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody triggerPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	trigger, err := entity.ScheduleTrigger("0 9 * * *")
	require.NoError(t, err)

	require.NoError(t, testService(srv.URL).UpdateTrigger(context.Background(), "r-1", trigger))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/v1/workflows/r-1", gotPath)
	assert.Equal(t, entity.TriggerSchedule, gotBody.Trigger.Type)
	assert.Equal(t, "0 9 * * *", gotBody.Trigger.Cron)
}

func TestSetActive(t *testing.T) {
	var gotBody map[string]bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	require.NoError(t, testService(srv.URL).SetActive(context.Background(), "r-1", true))
	assert.True(t, gotBody["active"])
}

func TestExecuteReturnsPayloadVerbatim(t *testing.T) {
	raw := `{"run":"ok","items":[1,2,3]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/workflows/r-1/execute", r.URL.Path)
		w.Write([]byte(raw))
	}))
	defer srv.Close()

	got, err := testService(srv.URL).Execute(context.Background(), "r-1", map[string]any{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(got))
}

func TestDeleteTreatsAbsentAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.NoError(t, testService(srv.URL).Delete(context.Background(), "r-gone"))
}

func TestDeleteSurfacesEngineFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.ErrorIs(t, testService(srv.URL).Delete(context.Background(), "r-1"), ErrUnavailable)
}
