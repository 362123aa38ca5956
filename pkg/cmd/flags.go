package cmd

import (
	"fmt"

	"github.com/dukex/flowbit/pkg/config"
	"github.com/dukex/flowbit/pkg/log"
	cli "github.com/urfave/cli/v3"
)

// Flags returns the engine, logging and event bus flags shared by every binary.
func Flags() []cli.Flag {
	defaults := config.Default()

	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML configuration file",
		},
		&cli.StringFlag{
			Name:    "n8n-base-url",
			Usage:   "n8n base URL",
			Sources: cli.EnvVars("N8N_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "n8n-api-key",
			Usage:   "n8n API key",
			Sources: cli.EnvVars("N8N_API_KEY"),
		},
		&cli.StringFlag{
			Name:    "langflow-base-url",
			Usage:   "Langflow base URL",
			Sources: cli.EnvVars("LANGFLOW_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "langflow-api-key",
			Usage:   "Langflow API key",
			Sources: cli.EnvVars("LANGFLOW_API_KEY"),
		},
		&cli.DurationFlag{
			Name:    "request-timeout",
			Usage:   "Deadline for each upstream call",
			Value:   defaults.RequestTimeout,
			Sources: cli.EnvVars("REQUEST_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "display-timezone",
			Usage:   "IANA zone start times are displayed in (default: local zone)",
			Sources: cli.EnvVars("DISPLAY_TIMEZONE"),
		},
		&cli.StringFlag{
			Name:    "poll-schedule",
			Usage:   "Cron schedule used by the monitor",
			Value:   defaults.PollSchedule,
			Sources: cli.EnvVars("POLL_SCHEDULE"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus provider (memory, kafka)",
			Value:   defaults.EventBus,
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringFlag{
			Name:    "kafka-brokers",
			Usage:   "Comma separated Kafka brokers",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
		&cli.BoolFlag{
			Name:    "otel-enabled",
			Usage:   "Export traces over OTLP/HTTP",
			Sources: cli.EnvVars("OTEL_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format (text, json)",
			Value:   log.FormatText,
			Sources: cli.EnvVars("LOG_FORMAT"),
		},
	}
}

// ResolveConfig reads the optional config file and applies explicitly set flags
// and environment variables on top of it.
func ResolveConfig(command *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if path := command.String("config"); path != "" {
		var err error

		cfg, err = config.LoadFile(path)
		if err != nil {
			return cfg, err
		}
	}

	overrides := []struct {
		flag  string
		value *string
	}{
		{"n8n-base-url", &cfg.N8n.BaseURL},
		{"n8n-api-key", &cfg.N8n.APIKey},
		{"langflow-base-url", &cfg.Langflow.BaseURL},
		{"langflow-api-key", &cfg.Langflow.APIKey},
		{"display-timezone", &cfg.DisplayTimezone},
		{"poll-schedule", &cfg.PollSchedule},
		{"event-bus", &cfg.EventBus},
	}

	for _, override := range overrides {
		if command.IsSet(override.flag) {
			*override.value = command.String(override.flag)
		}
	}

	if command.IsSet("request-timeout") {
		cfg.RequestTimeout = command.Duration("request-timeout")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("failed to resolve configuration: %w", err)
	}

	return cfg, nil
}
