// Package n8n reads executions from the n8n REST API.
package n8n

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dukex/flowbit/pkg/config"
	"github.com/dukex/flowbit/pkg/engines"
	"github.com/dukex/flowbit/pkg/models"
	"github.com/dukex/flowbit/pkg/normalize"
)

const (
	executionsPath = "/rest/executions"
	executionPath  = "/rest/executions/%s"
	runPath        = "/rest/workflows/%s/run"
)

var (
	//go:embed mocks/executions.json
	mockExecutions []byte
	//go:embed mocks/details.json
	mockDetails []byte
	//go:embed mocks/trigger.json
	mockTrigger []byte

	mocks = engines.MustLoadMockSet(mockExecutions, mockDetails, mockTrigger)

	listSchema = engines.MustCompileSchema(`{
		"type": "object",
		"required": ["data"],
		"properties": {
			"data": {"type": "array", "items": {"type": "object"}}
		}
	}`)
)

type executionsPage struct {
	Data []*models.N8nExecution `json:"data"`
}

type Source struct {
	engines.Base
}

func New(cfg config.Engine, opts ...engines.Option) *Source {
	return &Source{
		Base: engines.NewBase(models.EngineN8n, cfg, opts...),
	}
}

// MockExecutions returns the list served while n8n is unavailable.
func (s *Source) MockExecutions() []models.ExecutionSummary {
	return mocks.Executions()
}

// ListExecutions fetches recent executions. Any upstream failure yields the mock list.
func (s *Source) ListExecutions(ctx context.Context) ([]models.ExecutionSummary, error) {
	if !s.Configured() {
		s.Fallback(ctx, engines.OperationList, nil)

		return s.MockExecutions(), nil
	}

	body, err := s.Fetch(ctx, http.MethodGet, s.Endpoint(executionsPath), nil, listSchema)
	if err != nil {
		s.Fallback(ctx, engines.OperationList, err)

		return s.MockExecutions(), nil
	}

	var page executionsPage
	if err := json.Unmarshal(body, &page); err != nil {
		s.Fallback(ctx, engines.OperationList, fmt.Errorf("%w: %w", engines.ErrInvalidPayload, err))

		return s.MockExecutions(), nil
	}

	s.Logger().InfoContext(ctx, "fetched executions", "count", len(page.Data))

	executions := make([]models.ExecutionSummary, 0, len(page.Data))
	for _, execution := range page.Data {
		if execution == nil {
			continue
		}

		executions = append(executions, normalize.N8nSummary(execution, s.Location()))
	}

	return executions, nil
}

// ExecutionDetail fetches one execution. Under fallback the id is looked up in the
// mock detail table and ErrExecutionNotFound is returned when it is absent.
func (s *Source) ExecutionDetail(ctx context.Context, id string) (models.RawExecution, error) {
	if !s.Configured() {
		s.Fallback(ctx, engines.OperationDetail, nil)

		return s.mockDetail(id)
	}

	body, err := s.Fetch(ctx, http.MethodGet, s.Endpoint(executionPath, id), nil, engines.ObjectSchema)
	if err != nil {
		s.Fallback(ctx, engines.OperationDetail, err)

		return s.mockDetail(id)
	}

	execution, err := models.DecodeN8nExecution(body)
	if err != nil {
		s.Fallback(ctx, engines.OperationDetail, fmt.Errorf("%w: %w", engines.ErrInvalidPayload, err))

		return s.mockDetail(id)
	}

	return execution, nil
}

// Trigger starts a workflow run and returns the engine's answer as is.
func (s *Source) Trigger(ctx context.Context, workflowID string) (json.RawMessage, error) {
	if !s.Configured() {
		s.Fallback(ctx, engines.OperationTrigger, nil)

		return mocks.Trigger(), nil
	}

	body, err := s.Fetch(ctx, http.MethodPost, s.Endpoint(runPath, workflowID), nil, engines.AnySchema)
	if err != nil {
		s.Fallback(ctx, engines.OperationTrigger, err)

		return mocks.Trigger(), nil
	}

	s.Logger().InfoContext(ctx, "workflow triggered", "workflow_id", workflowID)

	return body, nil
}

func (s *Source) mockDetail(id string) (models.RawExecution, error) {
	raw, ok := mocks.Detail(id)
	if !ok {
		return nil, fmt.Errorf("%w: n8n execution %q", engines.ErrExecutionNotFound, id)
	}

	execution, err := models.DecodeN8nExecution(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mock execution %q: %w", id, err)
	}

	return execution, nil
}

var _ engines.Source = (*Source)(nil)
