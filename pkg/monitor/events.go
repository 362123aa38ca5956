package monitor

import (
	"context"
	"fmt"

	"github.com/dukex/flowbit/pkg/eventbus"
	"github.com/dukex/flowbit/pkg/events"
)

// EventSink receives the engine events the monitor reports alongside its polls.
type EventSink interface {
	EngineFallback(event events.EngineFallback)
	WorkflowTriggered(event events.WorkflowTriggered)
}

// WatchEvents forwards engine.fallback and workflow.triggered events from the bus to sink
// until ctx is done. With a shared broker this includes triggers sent through the API.
func WatchEvents(ctx context.Context, bus eventbus.EventSubscriber, sink EventSink) error {
	err := bus.Handle(events.EngineFallbackEvent, func(_ context.Context, event any) error {
		fallback, ok := event.(*events.EngineFallback)
		if !ok {
			return fmt.Errorf("unexpected event %T for %s", event, events.EngineFallbackEvent)
		}

		sink.EngineFallback(*fallback)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to handle %s: %w", events.EngineFallbackEvent, err)
	}

	err = bus.Handle(events.WorkflowTriggeredEvent, func(_ context.Context, event any) error {
		triggered, ok := event.(*events.WorkflowTriggered)
		if !ok {
			return fmt.Errorf("unexpected event %T for %s", event, events.WorkflowTriggeredEvent)
		}

		sink.WorkflowTriggered(*triggered)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to handle %s: %w", events.WorkflowTriggeredEvent, err)
	}

	if err := bus.Subscribe(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.Topic, err)
	}

	return nil
}
