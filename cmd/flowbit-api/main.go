package main

import (
	"context"
	"os"

	"github.com/dukex/flowbit/pkg/cmd"
	"github.com/dukex/flowbit/pkg/config"
	"github.com/dukex/flowbit/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 3000

func main() {
	logger := log.WithModule("api")

	if err := config.LoadEnvFiles(config.DefaultEnvFiles...); err != nil {
		logger.Error("Failed to load env files", "error", err)
	}

	command := &cli.Command{
		Name:                  "flowbit-api",
		Usage:                 "Serve the FlowBit executions dashboard API",
		EnableShellCompletion: true,
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
		}, cmd.Flags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))

			logger = log.WithModule("api")
			logger.InfoContext(ctx, "Initializing FlowBit API")

			cfg, err := cmd.ResolveConfig(command)
			if err != nil {
				return err
			}

			runtime, err := cmd.NewRuntime(ctx, cfg, cmd.RuntimeOptions{
				KafkaBrokers: command.String("kafka-brokers"),
				OtelEnabled:  command.Bool("otel-enabled"),
			}, logger)
			if err != nil {
				return err
			}

			defer func() {
				_ = runtime.Close(context.Background())
			}()

			api := NewAPI(logger, runtime.Executions, cfg)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return err
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("FlowBit API stopped", "error", err)
		os.Exit(1)
	}
}
