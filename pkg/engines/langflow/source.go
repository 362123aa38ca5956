// Package langflow reads flow runs from the Langflow API.
package langflow

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
	runsPath = "/api/v1/runs"
	runPath  = "/api/v1/runs/%s"
	flowPath = "/api/v1/run/%s"

	TriggerInput = "Manual trigger from FlowBit Dashboard"
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
		"required": ["runs"],
		"properties": {
			"runs": {"type": "array", "items": {"type": "object"}}
		}
	}`)
)

type runsPage struct {
	Runs []*models.LangflowRun `json:"runs"`
}

// RunRequest is the body of a flow run.
type RunRequest struct {
	InputValue string `json:"input_value"`
	InputType  string `json:"input_type"`
	OutputType string `json:"output_type"`
}

type Source struct {
	engines.Base
}

func New(cfg config.Engine, opts ...engines.Option) *Source {
	return &Source{
		Base: engines.NewBase(models.EngineLangflow, cfg, opts...),
	}
}

func (s *Source) MockExecutions() []models.ExecutionSummary {
	return mocks.Executions()
}

// ListExecutions fetches recent runs. Any upstream failure yields the mock list.
func (s *Source) ListExecutions(ctx context.Context) ([]models.ExecutionSummary, error) {
	if !s.Configured() {
		s.Fallback(ctx, engines.OperationList, nil)

		return s.MockExecutions(), nil
	}

	body, err := s.Fetch(ctx, http.MethodGet, s.Endpoint(runsPath), nil, listSchema)
	if err != nil {
		s.Fallback(ctx, engines.OperationList, err)

		return s.MockExecutions(), nil
	}

	var page runsPage
	if err := json.Unmarshal(body, &page); err != nil {
		s.Fallback(ctx, engines.OperationList, fmt.Errorf("%w: %w", engines.ErrInvalidPayload, err))

		return s.MockExecutions(), nil
	}

	s.Logger().InfoContext(ctx, "fetched runs", "count", len(page.Runs))

	executions := make([]models.ExecutionSummary, 0, len(page.Runs))
	for _, run := range page.Runs {
		if run == nil {
			continue
		}

		executions = append(executions, normalize.LangflowSummary(run, s.Location()))
	}

	return executions, nil
}

// ExecutionDetail fetches one run, falling back to the mock detail table.
func (s *Source) ExecutionDetail(ctx context.Context, id string) (models.RawExecution, error) {
	if !s.Configured() {
		s.Fallback(ctx, engines.OperationDetail, nil)

		return s.mockDetail(id)
	}

	body, err := s.Fetch(ctx, http.MethodGet, s.Endpoint(runPath, id), nil, engines.ObjectSchema)
	if err != nil {
		s.Fallback(ctx, engines.OperationDetail, err)

		return s.mockDetail(id)
	}

	run, err := models.DecodeLangflowRun(body)
	if err != nil {
		s.Fallback(ctx, engines.OperationDetail, fmt.Errorf("%w: %w", engines.ErrInvalidPayload, err))

		return s.mockDetail(id)
	}

	return run, nil
}

// Trigger runs a flow with a chat input naming the dashboard as the caller.
func (s *Source) Trigger(ctx context.Context, flowID string) (json.RawMessage, error) {
	if !s.Configured() {
		s.Fallback(ctx, engines.OperationTrigger, nil)

		return mocks.Trigger(), nil
	}

	request := RunRequest{
		InputValue: TriggerInput,
		InputType:  "chat",
		OutputType: "chat",
	}

	body, err := s.Fetch(ctx, http.MethodPost, s.Endpoint(flowPath, flowID), request, engines.AnySchema)
	if err != nil {
		s.Fallback(ctx, engines.OperationTrigger, err)

		return mocks.Trigger(), nil
	}

	s.Logger().InfoContext(ctx, "flow triggered", "flow_id", flowID)

	return body, nil
}

func (s *Source) mockDetail(id string) (models.RawExecution, error) {
	raw, ok := mocks.Detail(id)
	if !ok {
		return nil, fmt.Errorf("%w: langflow run %q", engines.ErrExecutionNotFound, id)
	}

	run, err := models.DecodeLangflowRun(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mock run %q: %w", id, err)
	}

	return run, nil
}

var _ engines.Source = (*Source)(nil)
