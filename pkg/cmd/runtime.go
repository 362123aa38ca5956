package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/flowbit/pkg/config"
	"github.com/dukex/flowbit/pkg/engines"
	"github.com/dukex/flowbit/pkg/engines/langflow"
	"github.com/dukex/flowbit/pkg/engines/n8n"
	"github.com/dukex/flowbit/pkg/eventbus"
	"github.com/dukex/flowbit/pkg/otelhelper"
	"github.com/dukex/flowbit/pkg/remote"
	"github.com/dukex/flowbit/pkg/services"
)

// RuntimeOptions are the process level settings that are not part of config.Config.
type RuntimeOptions struct {
	KafkaBrokers string
	OtelEnabled  bool
}

// Runtime holds the components built from a resolved configuration.
type Runtime struct {
	Config     config.Config
	Executions *services.Executions
	EventBus   eventbus.EventBus

	logger   *slog.Logger
	shutdown otelhelper.Shutdown
}

// NewRuntime wires the remote client, both engine adapters, the event bus and
// the executions service.
func NewRuntime(ctx context.Context, cfg config.Config, options RuntimeOptions, logger *slog.Logger) (*Runtime, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	runtime := &Runtime{
		Config: cfg,
		logger: logger,
	}

	clientOptions := []remote.Option{remote.WithTimeout(cfg.RequestTimeout)}

	if options.OtelEnabled {
		tracer, shutdown, err := otelhelper.NewTracer(ctx, serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to create tracer: %w", err)
		}

		runtime.shutdown = shutdown
		clientOptions = append(clientOptions, remote.WithTracer(tracer))
	}

	eventBus, err := NewEventBus(cfg.EventBus, options.KafkaBrokers, logger)
	if err != nil {
		_ = runtime.Close(ctx)

		return nil, err
	}

	runtime.EventBus = eventBus

	sourceOptions := []engines.Option{
		engines.WithClient(remote.NewClient(clientOptions...)),
		engines.WithLogger(logger),
		engines.WithLocation(location),
	}

	runtime.Executions = services.NewExecutions(
		[]engines.Source{
			n8n.New(cfg.N8n, sourceOptions...),
			langflow.New(cfg.Langflow, sourceOptions...),
		},
		services.WithEventBus(eventBus),
		services.WithLocation(location),
		services.WithLogger(logger),
	)

	if !cfg.FullyConfigured() {
		logger.InfoContext(ctx, "Engines not fully configured, serving mock data where needed",
			"n8n_configured", cfg.N8n.Configured(),
			"langflow_configured", cfg.Langflow.Configured(),
		)
	}

	return runtime, nil
}

// Close releases the event bus and flushes traces.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error

	if r.EventBus != nil {
		if err := r.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event bus: %w", err))
		}
	}

	if r.shutdown != nil {
		if err := r.shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to close runtime", "error", err)
	}

	return err
}
