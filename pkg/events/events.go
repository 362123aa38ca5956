// Package events defines the notifications published while serving the dashboard.
package events

import (
	"time"
)

type EventType string

const Topic = "flowbit.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionsListedEvent  EventType = "executions.listed"
	EngineFallbackEvent    EventType = "engine.fallback"
	WorkflowTriggeredEvent EventType = "workflow.triggered"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(id string, eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        id,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

// ExecutionsListed is published after every aggregation of the executions feed.
type ExecutionsListed struct {
	BaseEvent

	Count         int            `json:"count"`
	UsingMockData bool           `json:"using_mock_data"`
	Message       string         `json:"message"`
	EngineCounts  map[string]int `json:"engine_counts"`
	StatusCounts  map[string]int `json:"status_counts"`
}

func (e ExecutionsListed) GetType() EventType {
	return ExecutionsListedEvent
}

// EngineFallback is published when mock data replaced an engine's answer.
type EngineFallback struct {
	BaseEvent

	Engine    string `json:"engine"`
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
}

func (e EngineFallback) GetType() EventType {
	return EngineFallbackEvent
}

type WorkflowTriggered struct {
	BaseEvent

	Engine     string `json:"engine"`
	WorkflowID string `json:"workflow_id"`
	Mock       bool   `json:"mock"`
}

func (e WorkflowTriggered) GetType() EventType {
	return WorkflowTriggeredEvent
}
