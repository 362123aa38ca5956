package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dukex/flowbit/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBodySize = 10 * 1024 * 1024

// HTTPError is returned for upstream responses outside the 2xx range.
// Status is the upstream status line, reason phrase included.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e.Status != "" {
		return "HTTP " + e.Status
	}

	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client issues bearer-authenticated JSON requests bounded by a timeout.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	tracer     trace.Tracer
}

type Option func(*Client)

// WithTimeout sets the per-call deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithTracer sets the tracer used for upstream spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// NewClient creates a client with DefaultTimeout and the global tracer provider.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		tracer:     otel.Tracer("github.com/dukex/flowbit/pkg/remote"),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do performs one request and reads the whole body before the deadline.
// Non-2xx responses are returned as *HTTPError.
func (c *Client) Do(ctx context.Context, method, url, apiKey string, body any) (*Response, error) {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "remote."+method,
		attribute.String(otelhelper.HTTPMethodKey, method),
		attribute.String(otelhelper.HTTPURLKey, url),
	)
	defer span.End()

	var payload []byte

	if body != nil {
		var err error

		payload, err = json.Marshal(body)
		if err != nil {
			otelhelper.SetError(span, err)

			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	response, err := Race(ctx, c.timeout, func(ctx context.Context) (*Response, error) {
		return c.perform(ctx, method, url, apiKey, payload)
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.Int(otelhelper.HTTPStatusKey, response.StatusCode))

	return response, nil
}

func (c *Client) perform(ctx context.Context, method, url, apiKey string, payload []byte) (*Response, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       respBody,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
