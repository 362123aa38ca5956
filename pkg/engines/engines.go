// Package engines holds what the n8n and Langflow adapters share: the Source contract,
// configuration checks, bounded fetching and the mock fallback policy.
package engines

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dukex/flowbit/pkg/config"
	"github.com/dukex/flowbit/pkg/models"
	"github.com/dukex/flowbit/pkg/otelhelper"
	"github.com/dukex/flowbit/pkg/remote"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Operation string

const (
	OperationList    Operation = "list"
	OperationDetail  Operation = "detail"
	OperationTrigger Operation = "trigger"
)

// Source is one upstream engine. Implementations fall back to mock data on
// missing configuration and on any upstream failure instead of returning an error.
type Source interface {
	Engine() models.Engine
	Configured() bool
	ListExecutions(ctx context.Context) ([]models.ExecutionSummary, error)
	ExecutionDetail(ctx context.Context, id string) (models.RawExecution, error)
	Trigger(ctx context.Context, workflowID string) (json.RawMessage, error)
	MockExecutions() []models.ExecutionSummary
}

type Option func(*Base)

func WithClient(client *remote.Client) Option {
	return func(b *Base) {
		if client != nil {
			b.client = client
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLocation sets the zone start times are displayed in.
func WithLocation(location *time.Location) Option {
	return func(b *Base) {
		if location != nil {
			b.location = location
		}
	}
}

// Base carries the state common to every adapter.
type Base struct {
	engine   models.Engine
	config   config.Engine
	client   *remote.Client
	logger   *slog.Logger
	location *time.Location
}

func NewBase(engine models.Engine, cfg config.Engine, opts ...Option) Base {
	base := Base{
		engine:   engine,
		config:   cfg,
		client:   remote.NewClient(),
		logger:   slog.Default(),
		location: time.Local,
	}

	for _, opt := range opts {
		opt(&base)
	}

	base.logger = base.logger.With("engine", string(engine))

	return base
}

func (b *Base) Engine() models.Engine {
	return b.engine
}

// Configured reports whether the engine has both a base URL and an API key.
func (b *Base) Configured() bool {
	return b.config.Configured()
}

func (b *Base) Logger() *slog.Logger {
	return b.logger
}

func (b *Base) Location() *time.Location {
	return b.location
}

// Endpoint joins the base URL with path. Every %s verb in path is replaced by
// the matching id, escaped as a single path segment.
func (b *Base) Endpoint(path string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}

	return strings.TrimRight(b.config.BaseURL, "/") + fmt.Sprintf(path, args...)
}

// Fetch performs one bounded call and checks the body against schema.
func (b *Base) Fetch(ctx context.Context, method, endpoint string, body any, schema *Schema) (json.RawMessage, error) {
	b.logger.DebugContext(ctx, "calling engine", "method", method, "url", endpoint)

	response, err := b.client.Do(ctx, method, endpoint, b.config.APIKey, body)
	if err != nil {
		return nil, err
	}

	if schema != nil {
		if err := schema.Validate(response.Body); err != nil {
			return nil, err
		}
	}

	return response.Body, nil
}

// Fallback records that mock data replaces the upstream answer.
// A nil reason means the engine is not configured.
func (b *Base) Fallback(ctx context.Context, operation Operation, reason error) {
	span := trace.SpanFromContext(ctx)

	if reason == nil {
		b.logger.DebugContext(ctx, "engine not configured, using mock data", "operation", string(operation))
		otelhelper.RecordFallback(span, "not configured",
			attribute.String(otelhelper.EngineKey, string(b.engine)),
			attribute.String(otelhelper.OperationKey, string(operation)),
		)
	} else {
		b.logger.WarnContext(ctx, "engine call failed, using mock data",
			"operation", string(operation),
			"error", reason,
		)
		otelhelper.RecordFallback(span, reason.Error(),
			attribute.String(otelhelper.EngineKey, string(b.engine)),
			attribute.String(otelhelper.OperationKey, string(operation)),
		)
	}

	recordFallback(ctx, Fallback{Engine: b.engine, Operation: operation, Reason: reason})
}
