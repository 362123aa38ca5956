// Package models defines the normalized execution records served by the dashboard
package models

import "encoding/json"

// Engine identifies the automation engine an execution belongs to.
type Engine string

const (
	EngineN8n      Engine = "n8n"
	EngineLangflow Engine = "langflow"
)

// Engines lists the supported engines in aggregation order.
var Engines = []Engine{EngineN8n, EngineLangflow}

// ParseEngine returns the engine for the given selector and whether it is supported.
func ParseEngine(value string) (Engine, bool) {
	switch Engine(value) {
	case EngineN8n:
		return EngineN8n, true
	case EngineLangflow:
		return EngineLangflow, true
	default:
		return Engine(value), false
	}
}

// ExecutionStatus is the normalized state of an execution or one of its nodes.
type ExecutionStatus string

const (
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusError   ExecutionStatus = "error"
	ExecutionStatusRunning ExecutionStatus = "running"
	ExecutionStatusUnknown ExecutionStatus = "unknown"
)

const (
	// DurationRunning is shown while an execution has not finished.
	DurationRunning = "Running..."
	// DurationUnavailable is shown when the duration cannot be computed.
	DurationUnavailable = "N/A"

	DefaultTriggerType      = "manual"
	DefaultFolderID         = "unassigned"
	UnknownWorkflowName     = "Unknown Workflow"
	UnknownFlowName         = "Unknown Flow"
	DefaultLogLevel         = "INFO"
	StartTimeLayout         = "02.01.2006 15:04:05"
	placeholderWorkflowName = "Unknown"
)

// ExecutionSummary is one row of the aggregated executions feed.
type ExecutionSummary struct {
	ID            string          `json:"id"`
	WorkflowID    string          `json:"workflowId"`
	WorkflowName  string          `json:"workflowName"`
	Engine        Engine          `json:"engine"`
	Status        ExecutionStatus `json:"status"`
	Duration      string          `json:"duration"`
	StartTime     string          `json:"startTime"`
	TriggerType   string          `json:"triggerType"`
	FolderID      string          `json:"folderId"`
	ExecutionData json.RawMessage `json:"executionData,omitempty"`
}

// ExecutionDetail is the drill-down view of a single execution.
type ExecutionDetail struct {
	ID           string          `json:"id"`
	WorkflowID   string          `json:"workflowId,omitempty"`
	WorkflowName string          `json:"workflowName"`
	Engine       Engine          `json:"engine,omitempty"`
	Status       ExecutionStatus `json:"status"`
	StartTime    string          `json:"startTime"`
	EndTime      string          `json:"endTime,omitempty"`
	Duration     string          `json:"duration"`
	TriggerType  string          `json:"triggerType"`
	FolderID     string          `json:"folderId,omitempty"`
	Nodes        []NodeResult    `json:"nodes"`
	Logs         []LogEntry      `json:"logs"`
	Error        string          `json:"error,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
}

// PlaceholderDetail is returned for payloads of an unrecognized engine.
func PlaceholderDetail(id string) ExecutionDetail {
	return ExecutionDetail{
		ID:           id,
		WorkflowName: placeholderWorkflowName,
		Status:       ExecutionStatusUnknown,
		TriggerType:  "unknown",
		Nodes:        []NodeResult{},
		Logs:         []LogEntry{},
	}
}

// NodeResult is the outcome of one step inside an execution.
type NodeResult struct {
	Name          string          `json:"name"`
	Status        ExecutionStatus `json:"status"`
	ExecutionTime *int64          `json:"executionTime,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
	Error         json.RawMessage `json:"error,omitempty"`
}

// LogEntry is a single log line reported by an engine.
type LogEntry struct {
	Level     string `json:"level"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// UnmarshalJSON defaults a missing level to INFO.
func (l *LogEntry) UnmarshalJSON(data []byte) error {
	type alias LogEntry

	var entry alias
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}

	if entry.Level == "" {
		entry.Level = DefaultLogLevel
	}

	*l = LogEntry(entry)

	return nil
}
