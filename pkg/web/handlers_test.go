package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukex/flowbit/pkg/config"
	"github.com/dukex/flowbit/pkg/engines"
	"github.com/dukex/flowbit/pkg/engines/langflow"
	"github.com/dukex/flowbit/pkg/engines/n8n"
	"github.com/dukex/flowbit/pkg/models"
	"github.com/dukex/flowbit/pkg/services"
	"github.com/dukex/flowbit/pkg/session"
	"github.com/dukex/flowbit/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type problem struct {
	Type     string `json:"type"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	opts := []engines.Option{engines.WithLogger(logger), engines.WithLocation(time.UTC)}

	executionsService := services.NewExecutions(
		[]engines.Source{
			n8n.New(config.Engine{}, opts...),
			langflow.New(config.Engine{}, opts...),
		},
		services.WithLogger(logger),
		services.WithLocation(time.UTC),
	)

	handlers := web.NewAPIHandlers(
		executionsService,
		session.NewStore(),
		validator.New(validator.WithRequiredStructEnabled()),
		web.NewIntegrationGuide(config.Engine{}, config.Engine{BaseURL: "https://langflow.example.com"}),
	)

	app := fiber.New()

	api := app.Group("/api")
	api.Get("/executions", handlers.ListExecutions)
	api.Get("/executions/:id", handlers.GetExecution)
	api.Post("/trigger", handlers.TriggerWorkflow)
	api.Get("/integration-guide", handlers.IntegrationGuide)

	s := api.Group("/sessions")
	s.Post("/", handlers.CreateSession)
	s.Get("/:id", handlers.GetSession)
	s.Delete("/:id", handlers.DeleteSession)
	s.Post("/:id/folders", handlers.CreateFolder)
	s.Patch("/:id/folders/:folderId", handlers.RenameFolder)
	s.Delete("/:id/folders/:folderId", handlers.DeleteFolder)
	s.Patch("/:id/filters", handlers.UpdateFilters)
	s.Get("/:id/executions", handlers.SessionExecutions)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader

	switch value := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(value)
	default:
		payload, err := json.Marshal(value)
		require.NoError(t, err)

		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBody
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var value T
	require.NoError(t, json.Unmarshal(body, &value))

	return value
}

func TestAPIHandlers_ListExecutions(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/api/executions", nil)
	require.Equal(t, http.StatusOK, status)

	list := decode[services.ExecutionList](t, body)
	assert.True(t, list.UsingMockData)
	assert.Equal(t, "Using mock data due to API configuration or connection issues", list.Message)
	require.Len(t, list.Executions, 6)
	assert.Equal(t, "n8n-exec-3", list.Executions[0].ID)
	assert.NotEmpty(t, list.Executions[0].ExecutionData)
}

func TestAPIHandlers_GetExecution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		validate       func(t *testing.T, body []byte)
	}{
		{
			name:           "n8n execution",
			target:         "/api/executions/n8n-exec-2?engine=n8n",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body []byte) {
				t.Helper()

				var response struct {
					Execution map[string]any         `json:"execution"`
					Details   models.ExecutionDetail `json:"details"`
				}
				require.NoError(t, json.Unmarshal(body, &response))

				assert.Equal(t, "n8n-exec-2", response.Execution["id"])
				assert.Equal(t, "Lead Scoring", response.Details.WorkflowName)
				require.Len(t, response.Details.Nodes, 2)
				assert.Equal(t, models.ExecutionStatusError, response.Details.Nodes[1].Status)
			},
		},
		{
			name:           "langflow execution",
			target:         "/api/executions/langflow-exec-2?engine=langflow",
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body []byte) {
				t.Helper()

				var response struct {
					Details models.ExecutionDetail `json:"details"`
				}
				require.NoError(t, json.Unmarshal(body, &response))

				assert.Equal(t, "12.7s", response.Details.Duration)
				assert.Len(t, response.Details.Logs, 2)
			},
		},
		{
			name:           "unknown id",
			target:         "/api/executions/nope?engine=n8n",
			expectedStatus: http.StatusNotFound,
			validate: func(t *testing.T, body []byte) {
				t.Helper()

				got := decode[problem](t, body)
				assert.Equal(t, "execution_not_found", got.Type)
				assert.Equal(t, "Execution not found", got.Detail)
			},
		},
		{
			name:           "missing engine",
			target:         "/api/executions/n8n-exec-1",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown engine",
			target:         "/api/executions/n8n-exec-1?engine=airflow",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := setupTestApp(t)

			status, body := doRequest(t, app, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.expectedStatus, status)

			if tt.validate != nil {
				tt.validate(t, body)
			}
		})
	}
}

func TestAPIHandlers_TriggerWorkflow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		requestBody    any
		expectedStatus int
		expectedDetail string
		expectedResult string
	}{
		{
			name:           "n8n",
			requestBody:    web.TriggerWorkflowRequest{WorkflowID: "wf-1", Engine: "n8n"},
			expectedStatus: http.StatusOK,
			expectedResult: `{"success": true, "executionId": "mock-execution-id", "message": "Workflow triggered successfully (mock)"}`,
		},
		{
			name:           "langflow",
			requestBody:    web.TriggerWorkflowRequest{WorkflowID: "flow-1", Engine: "langflow"},
			expectedStatus: http.StatusOK,
			expectedResult: `{"success": true, "run_id": "mock-run-id", "message": "Flow triggered successfully (mock)"}`,
		},
		{
			name:           "numeric workflow id",
			requestBody:    `{"workflowId": 42, "engine": "n8n"}`,
			expectedStatus: http.StatusOK,
			expectedResult: `{"success": true, "executionId": "mock-execution-id", "message": "Workflow triggered successfully (mock)"}`,
		},
		{
			name:           "missing engine",
			requestBody:    web.TriggerWorkflowRequest{WorkflowID: "wf-1"},
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Missing workflowId or engine",
		},
		{
			name:           "missing workflow",
			requestBody:    web.TriggerWorkflowRequest{Engine: "n8n"},
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Missing workflowId or engine",
		},
		{
			name:           "unsupported engine",
			requestBody:    web.TriggerWorkflowRequest{WorkflowID: "wf-1", Engine: "zapier"},
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Unsupported engine",
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid-json",
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Invalid JSON format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := setupTestApp(t)

			status, body := doRequest(t, app, http.MethodPost, "/api/trigger", tt.requestBody)
			require.Equal(t, tt.expectedStatus, status)

			if tt.expectedDetail != "" {
				got := decode[problem](t, body)
				assert.Equal(t, "validation_error", got.Type)
				assert.Equal(t, tt.expectedDetail, got.Detail)
				assert.Equal(t, "/api/trigger", got.Instance)

				return
			}

			var response struct {
				Success bool            `json:"success"`
				Result  json.RawMessage `json:"result"`
			}
			require.NoError(t, json.Unmarshal(body, &response))
			assert.True(t, response.Success)
			assert.JSONEq(t, tt.expectedResult, string(response.Result))
		})
	}
}

func TestAPIHandlers_IntegrationGuide(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/api/integration-guide", nil)
	require.Equal(t, http.StatusOK, status)

	guide := decode[web.IntegrationGuide](t, body)
	assert.Equal(t, "http://localhost:5678", guide.N8n.BaseURL)
	assert.Equal(t, "https://langflow.example.com", guide.Langflow.BaseURL)
	assert.Equal(t, "/rest/workflows/:id/run", guide.N8n.Endpoints["triggerWorkflow"])
	assert.Equal(t, "outputs", guide.Langflow.DataMapping["nodes"])
	assert.Contains(t, guide.Langflow.SampleCurl, "https://langflow.example.com/api/v1/runs")
	assert.Len(t, guide.Implementation.Steps, 5)
}

func TestAPIHandlers_HealthCheck(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)

	health := decode[map[string]any](t, body)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, map[string]any{"engines": "using mock data"}, health["checkers"])
}

func TestAPIHandlers_Sessions(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	status, body := doRequest(t, app, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, status)

	created := decode[session.Session](t, body)
	require.NotEmpty(t, created.ID)
	base := "/api/sessions/" + created.ID

	status, body = doRequest(t, app, http.MethodPost, base+"/folders", web.FolderRequest{Name: " Finance "})
	require.Equal(t, http.StatusCreated, status)

	folder := decode[models.Folder](t, body)
	assert.Equal(t, "Finance", folder.Name)

	status, _ = doRequest(t, app, http.MethodPost, base+"/folders", web.FolderRequest{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doRequest(t, app, http.MethodPatch, base+"/folders/"+folder.ID, web.FolderRequest{Name: "Billing"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Billing", decode[models.Folder](t, body).Name)

	status, body = doRequest(t, app, http.MethodPatch, base+"/folders/unassigned", web.FolderRequest{Name: "Other"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", decode[problem](t, body).Type)

	status, _ = doRequest(t, app, http.MethodDelete, base+"/folders/unassigned", nil)
	assert.Equal(t, http.StatusConflict, status)

	status, body = doRequest(t, app, http.MethodDelete, base+"/folders/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "folder_not_found", decode[problem](t, body).Type)

	status, _ = doRequest(t, app, http.MethodDelete, base+"/folders/"+folder.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = doRequest(t, app, http.MethodPatch, base+"/filters", map[string]any{"status": "failed"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doRequest(t, app, http.MethodPatch, base+"/filters", map[string]any{"engine": "n8n", "perPage": 10})
	require.Equal(t, http.StatusOK, status)

	updated := decode[session.Session](t, body)
	assert.Equal(t, "n8n", updated.Filters.Engine)
	assert.Equal(t, 10, updated.PerPage)

	status, body = doRequest(t, app, http.MethodGet, base+"/executions", nil)
	require.Equal(t, http.StatusOK, status)

	view := decode[web.SessionExecutionsResponse](t, body)
	assert.True(t, view.UsingMockData)
	assert.Len(t, view.Executions, 3)
	assert.Equal(t, session.Stats{Total: 3, Success: 1, Error: 1, Running: 1}, view.Stats)
	assert.Equal(t, 1, view.TotalPages)

	status, _ = doRequest(t, app, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = doRequest(t, app, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "session_not_found", decode[problem](t, body).Type)

	status, _ = doRequest(t, app, http.MethodGet, base+"/executions", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
