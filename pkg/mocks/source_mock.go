package mocks

import (
	"context"
	"encoding/json"

	"github.com/dukex/flowbit/pkg/engines"
	"github.com/dukex/flowbit/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockSource is a mock implementation of engines.Source interface.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Engine() models.Engine {
	args := m.Called()

	return args.Get(0).(models.Engine)
}

func (m *MockSource) Configured() bool {
	args := m.Called()

	return args.Bool(0)
}

func (m *MockSource) ListExecutions(ctx context.Context) ([]models.ExecutionSummary, error) {
	args := m.Called(ctx)

	executions, _ := args.Get(0).([]models.ExecutionSummary)

	return executions, args.Error(1)
}

func (m *MockSource) ExecutionDetail(ctx context.Context, id string) (models.RawExecution, error) {
	args := m.Called(ctx, id)

	execution, _ := args.Get(0).(models.RawExecution)

	return execution, args.Error(1)
}

func (m *MockSource) Trigger(ctx context.Context, workflowID string) (json.RawMessage, error) {
	args := m.Called(ctx, workflowID)

	result, _ := args.Get(0).(json.RawMessage)

	return result, args.Error(1)
}

func (m *MockSource) MockExecutions() []models.ExecutionSummary {
	args := m.Called()

	executions, _ := args.Get(0).([]models.ExecutionSummary)

	return executions
}

var _ engines.Source = (*MockSource)(nil)
