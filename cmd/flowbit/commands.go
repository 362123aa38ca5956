package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukex/flowbit/pkg/cmd"
	"github.com/dukex/flowbit/pkg/log"
	"github.com/dukex/flowbit/pkg/monitor"
	"github.com/dukex/flowbit/pkg/services"
	cli "github.com/urfave/cli/v3"
)

var (
	errMissingExecutionID = errors.New("execution id is required")
	errMissingWorkflowID  = errors.New("workflow id is required")
)

func setup(ctx context.Context, command *cli.Command) (*cmd.Runtime, *slog.Logger, error) {
	log.Setup(command.String("log-level"), command.String("log-format"))

	logger := log.WithModule("cli")

	cfg, err := cmd.ResolveConfig(command)
	if err != nil {
		return nil, nil, err
	}

	runtime, err := cmd.NewRuntime(ctx, cfg, cmd.RuntimeOptions{
		KafkaBrokers: command.String("kafka-brokers"),
		OtelEnabled:  command.Bool("otel-enabled"),
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	return runtime, logger, nil
}

func listExecutions(ctx context.Context, command *cli.Command) error {
	runtime, _, err := setup(ctx, command)
	if err != nil {
		return err
	}

	defer func() {
		_ = runtime.Close(ctx)
	}()

	list := runtime.Executions.List(ctx)

	if command.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(list)
	}

	newPrinter(os.Stdout, true).executions(list)

	return nil
}

func showExecution(ctx context.Context, command *cli.Command) error {
	id := command.Args().First()
	if id == "" {
		return errMissingExecutionID
	}

	runtime, _, err := setup(ctx, command)
	if err != nil {
		return err
	}

	defer func() {
		_ = runtime.Close(ctx)
	}()

	detail, err := runtime.Executions.Detail(ctx, id, command.String("engine"))
	if err != nil {
		return err
	}

	newPrinter(os.Stdout, true).detail(detail.Details)

	return nil
}

func triggerWorkflow(ctx context.Context, command *cli.Command) error {
	workflowID := command.Args().First()
	if workflowID == "" {
		return errMissingWorkflowID
	}

	runtime, _, err := setup(ctx, command)
	if err != nil {
		return err
	}

	defer func() {
		_ = runtime.Close(ctx)
	}()

	result, err := runtime.Executions.Trigger(ctx, services.TriggerRequest{
		WorkflowID: workflowID,
		Engine:     command.String("engine"),
	})
	if err != nil {
		return err
	}

	newPrinter(os.Stdout, true).triggered(workflowID, result)

	return nil
}

func monitorExecutions(ctx context.Context, command *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runtime, logger, err := setup(ctx, command)
	if err != nil {
		return err
	}

	defer func() {
		_ = runtime.Close(context.Background())
	}()

	printer := newPrinter(os.Stdout, true)

	poller, err := monitor.New(runtime.Executions, runtime.Config.PollSchedule,
		monitor.WithLogger(logger),
		monitor.WithNotify(printer.snapshot),
	)
	if err != nil {
		return err
	}

	if err := monitor.WatchEvents(ctx, runtime.EventBus, printer); err != nil {
		return err
	}

	poller.Poll(ctx)

	if err := poller.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	return poller.Stop(context.Background())
}
