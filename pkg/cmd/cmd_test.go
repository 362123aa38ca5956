package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dukex/flowbit/pkg/channels/kafka"
	"github.com/dukex/flowbit/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v3"
)

func resolve(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()

	var (
		cfg        config.Config
		resolveErr error
	)

	command := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, command *cli.Command) error {
			cfg, resolveErr = ResolveConfig(command)

			return nil
		},
	}

	require.NoError(t, command.Run(context.Background(), append([]string{"test"}, args...)))

	return cfg, resolveErr
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := resolve(t)
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.False(t, cfg.FullyConfigured())
}

func TestResolveConfig_Flags(t *testing.T) {
	cfg, err := resolve(t,
		"--n8n-base-url", "http://n8n.internal:5678",
		"--n8n-api-key", "n8n-key",
		"--langflow-base-url", "https://langflow.internal",
		"--langflow-api-key", "lf-key",
		"--request-timeout", "2s",
		"--display-timezone", "Europe/Berlin",
	)
	require.NoError(t, err)

	assert.True(t, cfg.FullyConfigured())
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "Europe/Berlin", cfg.DisplayTimezone)
}

func TestResolveConfig_FileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowbit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
n8n:
  base_url: http://from-file:5678
  api_key: file-key
request_timeout: 10s
poll_schedule: "@every 1m"
`), 0o600))

	cfg, err := resolve(t, "--config", path, "--n8n-api-key", "flag-key")
	require.NoError(t, err)

	assert.Equal(t, "http://from-file:5678", cfg.N8n.BaseURL)
	assert.Equal(t, "flag-key", cfg.N8n.APIKey)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "@every 1m", cfg.PollSchedule)
	assert.Equal(t, config.DefaultEventBus, cfg.EventBus)
}

func TestResolveConfig_Invalid(t *testing.T) {
	_, err := resolve(t, "--n8n-base-url", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve configuration")

	_, err = resolve(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestNewEventBus(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)

	bus, err := NewEventBus("memory", "", logger)
	require.NoError(t, err)
	assert.NotEmpty(t, bus.GenerateID())
	require.NoError(t, bus.Close())

	_, err = NewEventBus("kafka", " , ", logger)
	require.ErrorIs(t, err, kafka.ErrNoBrokers)

	_, err = NewEventBus("redis", "", logger)
	require.Error(t, err)
}

func TestNewRuntime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	runtime, err := NewRuntime(ctx, config.Default(), RuntimeOptions{}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	assert.False(t, runtime.Executions.Configured())

	list := runtime.Executions.List(ctx)
	assert.True(t, list.UsingMockData)
	assert.Len(t, list.Executions, 6)

	require.NoError(t, runtime.Close(ctx))

	cfg := config.Default()
	cfg.DisplayTimezone = "Mars/Olympus"

	_, err = NewRuntime(ctx, cfg, RuntimeOptions{}, slog.New(slog.DiscardHandler))
	require.Error(t, err)
}
