package main

import (
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
	"github.com/dukex/flowbit/pkg/services"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(cfg config.Config) *fiber.App {
	logger := slog.New(slog.DiscardHandler)
	opts := []engines.Option{engines.WithLogger(logger), engines.WithLocation(time.UTC)}

	executions := services.NewExecutions(
		[]engines.Source{
			n8n.New(cfg.N8n, opts...),
			langflow.New(cfg.Langflow, opts...),
		},
		services.WithLogger(logger),
		services.WithLocation(time.UTC),
	)

	return NewAPI(logger, executions, cfg).App()
}

func get(t *testing.T, app *fiber.App, target string) (int, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func TestAPI_RootEndpoint(t *testing.T) {
	t.Parallel()

	status, body := get(t, setupTestApp(config.Default()), "/")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "FlowBit API", string(body))
}

func TestAPI_HealthEndpoints(t *testing.T) {
	t.Parallel()

	app := setupTestApp(config.Default())

	for _, target := range []string{"/livez", "/readyz"} {
		status, body := get(t, app, target)

		assert.Equal(t, http.StatusOK, status, target)
		assert.Equal(t, "OK", string(body), target)
	}
}

func TestAPI_Executions(t *testing.T) {
	t.Parallel()

	status, body := get(t, setupTestApp(config.Default()), "/api/executions")
	require.Equal(t, http.StatusOK, status)

	var list services.ExecutionList
	require.NoError(t, json.Unmarshal(body, &list))

	assert.True(t, list.UsingMockData)
	assert.Len(t, list.Executions, 6)
}

func TestAPI_IntegrationGuideUsesConfiguredURLs(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.N8n = config.Engine{BaseURL: "http://n8n.internal:5678", APIKey: "secret"}

	status, body := get(t, setupTestApp(cfg), "/api/integration-guide")
	require.Equal(t, http.StatusOK, status)

	assert.Contains(t, string(body), "http://n8n.internal:5678")
	assert.Contains(t, string(body), "http://localhost:7860")
	assert.NotContains(t, string(body), "secret")
}

func TestAPI_UnknownRoute(t *testing.T) {
	t.Parallel()

	status, _ := get(t, setupTestApp(config.Default()), "/api/workflows")

	assert.Equal(t, http.StatusNotFound, status)
}
