package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dukex/flowbit/pkg/engines"
	"github.com/dukex/flowbit/pkg/eventbus"
	"github.com/dukex/flowbit/pkg/events"
	"github.com/dukex/flowbit/pkg/models"
	"github.com/dukex/flowbit/pkg/normalize"
)

// MaxExecutions caps the aggregated feed.
const MaxExecutions = 50

const (
	MessageLive       = "Live data"
	MessageMockData   = "Using mock data due to API configuration or connection issues"
	MessageUnexpected = "Using mock data due to unexpected error"
)

// ExecutionList is the aggregated executions feed.
type ExecutionList struct {
	Executions    []models.ExecutionSummary `json:"executions"`
	UsingMockData bool                      `json:"usingMockData"`
	Message       string                    `json:"message"`
}

// ExecutionDetail pairs the engine payload with its normalized form.
type ExecutionDetail struct {
	Execution json.RawMessage        `json:"execution"`
	Details   models.ExecutionDetail `json:"details"`
}

// TriggerRequest asks an engine to run a workflow.
type TriggerRequest struct {
	WorkflowID string `json:"workflowId"`
	Engine     string `json:"engine"`
}

type TriggerResult struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
}

type ExecutionsOption func(*Executions)

// WithEventBus publishes dashboard events on bus. Without it nothing is published.
func WithEventBus(bus eventbus.EventBus) ExecutionsOption {
	return func(e *Executions) {
		e.bus = bus
	}
}

// WithLocation sets the zone formatted start times are read back in when sorting.
func WithLocation(location *time.Location) ExecutionsOption {
	return func(e *Executions) {
		if location != nil {
			e.location = location
		}
	}
}

func WithLogger(logger *slog.Logger) ExecutionsOption {
	return func(e *Executions) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Executions aggregates the engine sources.
type Executions struct {
	sources  []engines.Source
	bus      eventbus.EventBus
	location *time.Location
	logger   *slog.Logger
}

// NewExecutions creates the service. Feed rows keep the order of sources before sorting.
func NewExecutions(sources []engines.Source, opts ...ExecutionsOption) *Executions {
	service := &Executions{
		sources:  sources,
		location: time.Local,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Configured reports whether every engine has its address and key.
func (e *Executions) Configured() bool {
	for _, source := range e.sources {
		if !source.Configured() {
			return false
		}
	}

	return true
}

// List queries every engine concurrently and merges the answers into the most
// recent MaxExecutions rows. It always returns a well-formed feed.
func (e *Executions) List(ctx context.Context) (list ExecutionList) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "unexpected error while aggregating executions", "error", r)

			list = e.mockList()
		}
	}()

	ctx, fallbacks := engines.TrackFallbacks(ctx)

	results := make([][]models.ExecutionSummary, len(e.sources))
	rejected := make([]bool, len(e.sources))

	var wg sync.WaitGroup

	for i, source := range e.sources {
		wg.Add(1)

		go func() {
			defer wg.Done()

			defer func() {
				if r := recover(); r != nil {
					e.logger.ErrorContext(ctx, "engine list panicked", "engine", source.Engine(), "error", r)

					rejected[i] = true
					results[i] = source.MockExecutions()
				}
			}()

			executions, err := source.ListExecutions(ctx)
			if err != nil {
				e.logger.ErrorContext(ctx, "engine list failed", "engine", source.Engine(), "error", err)

				rejected[i] = true
				results[i] = source.MockExecutions()

				return
			}

			results[i] = executions
		}()
	}

	wg.Wait()

	usingMockData := slices.Contains(rejected, true) || !e.Configured()

	executions := e.sortByStartTime(slices.Concat(results...))
	if len(executions) > MaxExecutions {
		executions = executions[:MaxExecutions]
	}

	list = ExecutionList{
		Executions:    executions,
		UsingMockData: usingMockData,
		Message:       MessageLive,
	}

	if usingMockData {
		list.Message = MessageMockData
	}

	e.logger.InfoContext(ctx, "executions aggregated",
		"count", len(executions),
		"using_mock_data", usingMockData,
	)

	e.publishFallbacks(ctx, fallbacks)
	e.publish(ctx, "executions", events.ExecutionsListed{
		BaseEvent:     e.baseEvent(events.ExecutionsListedEvent),
		Count:         len(executions),
		UsingMockData: usingMockData,
		Message:       list.Message,
		EngineCounts:  countBy(executions, func(s models.ExecutionSummary) string { return string(s.Engine) }),
		StatusCounts:  countBy(executions, func(s models.ExecutionSummary) string { return string(s.Status) }),
	})

	return list
}

// Detail fetches one execution from the selected engine and normalizes it.
func (e *Executions) Detail(ctx context.Context, id string, engine string) (*ExecutionDetail, error) {
	if id == "" {
		return nil, NewValidationError("detail", "missing_id", "execution id is required", ErrInvalidRequest)
	}

	source, ok := e.source(engine)
	if !ok {
		return nil, fmt.Errorf("%w: no engine %q", engines.ErrExecutionNotFound, engine)
	}

	ctx, fallbacks := engines.TrackFallbacks(ctx)

	raw, err := source.ExecutionDetail(ctx, id)

	e.publishFallbacks(ctx, fallbacks)

	if err != nil {
		return nil, err
	}

	return &ExecutionDetail{
		Execution: raw.Raw(),
		Details:   normalize.Detail(raw, e.location),
	}, nil
}

// Trigger starts a workflow on the requested engine.
func (e *Executions) Trigger(ctx context.Context, request TriggerRequest) (*TriggerResult, error) {
	if request.WorkflowID == "" || request.Engine == "" {
		return nil, NewValidationError("trigger", "missing_fields", "Missing workflowId or engine", ErrInvalidRequest)
	}

	source, ok := e.source(request.Engine)
	if !ok {
		return nil, NewValidationError("trigger", "unsupported_engine", "Unsupported engine", ErrUnsupportedEngine)
	}

	ctx, fallbacks := engines.TrackFallbacks(ctx)

	result, err := source.Trigger(ctx, request.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to trigger workflow %s: %w", request.WorkflowID, err)
	}

	mock := fallbacks.Used(source.Engine())

	e.logger.InfoContext(ctx, "workflow triggered",
		"engine", source.Engine(),
		"workflow_id", request.WorkflowID,
		"mock", mock,
	)

	e.publishFallbacks(ctx, fallbacks)
	e.publish(ctx, request.WorkflowID, events.WorkflowTriggered{
		BaseEvent:  e.baseEvent(events.WorkflowTriggeredEvent),
		Engine:     string(source.Engine()),
		WorkflowID: request.WorkflowID,
		Mock:       mock,
	})

	return &TriggerResult{Success: true, Result: result}, nil
}

func (e *Executions) source(engine string) (engines.Source, bool) {
	selected, ok := models.ParseEngine(engine)
	if !ok {
		return nil, false
	}

	for _, source := range e.sources {
		if source.Engine() == selected {
			return source, true
		}
	}

	return nil, false
}

// mockList is the last-resort answer: every engine's mock list, sorted.
func (e *Executions) mockList() ExecutionList {
	var executions []models.ExecutionSummary
	for _, source := range e.sources {
		executions = append(executions, source.MockExecutions()...)
	}

	return ExecutionList{
		Executions:    e.sortByStartTime(executions),
		UsingMockData: true,
		Message:       MessageUnexpected,
	}
}

// sortByStartTime orders rows newest first. Rows whose start time does not parse go last;
// ties keep their input order.
func (e *Executions) sortByStartTime(executions []models.ExecutionSummary) []models.ExecutionSummary {
	type keyed struct {
		execution models.ExecutionSummary
		start     time.Time
		ok        bool
	}

	rows := make([]keyed, len(executions))
	for i, execution := range executions {
		start, ok := normalize.ParseStartTime(execution.StartTime, e.location)
		rows[i] = keyed{execution: execution, start: start, ok: ok}
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		switch {
		case a.ok && b.ok:
			return b.start.Compare(a.start)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	sorted := make([]models.ExecutionSummary, len(rows))
	for i, row := range rows {
		sorted[i] = row.execution
	}

	return sorted
}

func (e *Executions) baseEvent(eventType events.EventType) events.BaseEvent {
	if e.bus == nil {
		return events.NewBaseEvent("", eventType)
	}

	return events.NewBaseEvent(e.bus.GenerateID(), eventType)
}

func (e *Executions) publishFallbacks(ctx context.Context, fallbacks *engines.Fallbacks) {
	if e.bus == nil {
		return
	}

	for _, fallback := range fallbacks.Entries() {
		reason := "not configured"
		if fallback.Reason != nil {
			reason = fallback.Reason.Error()
		}

		e.publish(ctx, string(fallback.Engine), events.EngineFallback{
			BaseEvent: e.baseEvent(events.EngineFallbackEvent),
			Engine:    string(fallback.Engine),
			Operation: string(fallback.Operation),
			Reason:    reason,
		})
	}
}

func (e *Executions) publish(ctx context.Context, key string, event eventbus.Event) {
	if e.bus == nil {
		return
	}

	err := e.bus.Publish(ctx, key, event)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to publish event", "event_type", event.GetType(), "error", err)
	}
}

func countBy(executions []models.ExecutionSummary, key func(models.ExecutionSummary) string) map[string]int {
	counts := make(map[string]int)
	for _, execution := range executions {
		counts[key(execution)]++
	}

	return counts
}
