package main

import (
	"context"
	"os"

	"github.com/dukex/flowbit/pkg/cmd"
	"github.com/dukex/flowbit/pkg/config"
	"github.com/fatih/color"
	cli "github.com/urfave/cli/v3"
)

func main() {
	if err := config.LoadEnvFiles(config.DefaultEnvFiles...); err != nil {
		color.Red("Error: %v", err)
	}

	command := &cli.Command{
		Name:                  "flowbit",
		Usage:                 "Inspect and trigger n8n and Langflow executions",
		EnableShellCompletion: true,
		Flags:                 cmd.Flags(),
		Commands: []*cli.Command{
			{
				Name:    "executions",
				Aliases: []string{"e"},
				Usage:   "Browse the combined executions feed",
				Commands: []*cli.Command{
					{
						Name:    "list",
						Aliases: []string{"ls"},
						Usage:   "List the most recent executions of both engines",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "json",
								Usage: "Print the raw API response",
							},
						},
						Action: listExecutions,
					},
					{
						Name:      "show",
						Usage:     "Show the nodes and logs of one execution",
						ArgsUsage: "<execution-id>",
						Flags: []cli.Flag{
							engineFlag(),
						},
						Action: showExecution,
					},
				},
			},
			{
				Name:      "trigger",
				Aliases:   []string{"t"},
				Usage:     "Start a workflow run",
				ArgsUsage: "<workflow-id>",
				Flags: []cli.Flag{
					engineFlag(),
				},
				Action: triggerWorkflow,
			},
			{
				Name:    "monitor",
				Aliases: []string{"m"},
				Usage:   "Poll the executions feed on the configured schedule",
				Action:  monitorExecutions,
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func engineFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "engine",
		Usage:    "Engine the workflow belongs to (n8n, langflow)",
		Required: true,
	}
}
