package web

import (
	"fmt"

	"github.com/dukex/flowbit/pkg/config"
)

const (
	DefaultN8nBaseURL      = "http://localhost:5678"
	DefaultLangflowBaseURL = "http://localhost:7860"
)

// IntegrationGuide documents how the dashboard talks to each engine.
type IntegrationGuide struct {
	N8n            EngineGuide         `json:"n8n"`
	Langflow       EngineGuide         `json:"langflow"`
	Implementation ImplementationGuide `json:"implementation"`
}

type EngineGuide struct {
	BaseURL     string            `json:"baseUrl"`
	APIKey      string            `json:"apiKey"`
	Endpoints   map[string]string `json:"endpoints"`
	DataMapping map[string]string `json:"dataMapping"`
	SampleCurl  string            `json:"sampleCurl"`
}

type ImplementationGuide struct {
	Steps     []string `json:"steps"`
	Endpoints []string `json:"endpoints"`
}

// NewIntegrationGuide builds the guide for the configured engine addresses.
// API keys are never echoed back.
func NewIntegrationGuide(n8n, langflow config.Engine) IntegrationGuide {
	n8nBaseURL := n8n.BaseURL
	if n8nBaseURL == "" {
		n8nBaseURL = DefaultN8nBaseURL
	}

	langflowBaseURL := langflow.BaseURL
	if langflowBaseURL == "" {
		langflowBaseURL = DefaultLangflowBaseURL
	}

	return IntegrationGuide{
		N8n: EngineGuide{
			BaseURL: n8nBaseURL,
			APIKey:  "YOUR_N8N_API_KEY",
			Endpoints: map[string]string{
				"listExecutions":  "/rest/executions",
				"getExecution":    "/rest/executions/:id",
				"triggerWorkflow": "/rest/workflows/:id/run",
			},
			DataMapping: map[string]string{
				"id":           "id",
				"workflowId":   "workflowId",
				"workflowName": "workflowData.name",
				"status":       "finished ? (stoppedAt ? 'success' : 'error') : 'running'",
				"startTime":    "startedAt (format as dd.MM.yyyy HH:mm:ss)",
				"duration":     "calculate from startedAt and stoppedAt",
				"nodes":        "data.resultData.runData",
				"logs":         "extract from execution data",
			},
			SampleCurl: sampleCurl(n8nBaseURL+"/rest/executions", "YOUR_N8N_API_KEY"),
		},
		Langflow: EngineGuide{
			BaseURL: langflowBaseURL,
			APIKey:  "YOUR_LANGFLOW_API_KEY",
			Endpoints: map[string]string{
				"listRuns":    "/api/v1/runs",
				"getRun":      "/api/v1/runs/:id",
				"triggerFlow": "/api/v1/run/:id",
			},
			DataMapping: map[string]string{
				"id":           "id",
				"workflowId":   "flow_id",
				"workflowName": "flow_name",
				"status":       "status (map 'SUCCESS' to 'success', 'ERROR' to 'error')",
				"startTime":    "timestamp (format as dd.MM.yyyy HH:mm:ss)",
				"duration":     "duration + 's'",
				"nodes":        "outputs",
				"logs":         "logs",
			},
			SampleCurl: sampleCurl(langflowBaseURL+"/api/v1/runs", "YOUR_LANGFLOW_API_KEY"),
		},
		Implementation: ImplementationGuide{
			Steps: []string{
				"1. Configure environment variables for API endpoints and keys",
				"2. Create API routes for fetching executions and execution details",
				"3. Implement data transformation functions for each engine",
				"4. Add real-time updates using polling or webhooks",
				"5. Connect the UI components to the API routes",
			},
			Endpoints: []string{
				"GET /api/executions - Fetch all executions",
				"GET /api/executions/:id?engine= - Fetch execution details",
				"POST /api/trigger - Trigger workflows",
				"GET /api/sessions/:id/executions - Filtered and paginated executions",
			},
		},
	}
}

func sampleCurl(url, apiKey string) string {
	return fmt.Sprintf("curl -X GET %q \\\n  -H \"Authorization: Bearer %s\"", url, apiKey)
}
