package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dukex/flowbit/pkg/events"
	"github.com/dukex/flowbit/pkg/models"
	"github.com/dukex/flowbit/pkg/monitor"
	"github.com/dukex/flowbit/pkg/services"
	"github.com/fatih/color"
)

type printer struct {
	out io.Writer

	header  *color.Color
	success *color.Color
	failure *color.Color
	running *color.Color
	warning *color.Color
	muted   *color.Color
}

var _ monitor.EventSink = (*printer)(nil)

// newPrinter writes to out. With colorize false no escape codes are emitted.
func newPrinter(out io.Writer, colorize bool) *printer {
	p := &printer{
		out:     out,
		header:  color.New(color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		running: color.New(color.FgYellow),
		warning: color.New(color.FgMagenta),
		muted:   color.New(color.FgHiBlack),
	}

	if !colorize {
		for _, c := range []*color.Color{p.header, p.success, p.failure, p.running, p.warning, p.muted} {
			c.DisableColor()
		}
	}

	return p
}

func (p *printer) status(status models.ExecutionStatus) *color.Color {
	switch status {
	case models.ExecutionStatusSuccess:
		return p.success
	case models.ExecutionStatusError:
		return p.failure
	default:
		return p.running
	}
}

func (p *printer) executions(list services.ExecutionList) {
	if list.UsingMockData {
		_, _ = p.warning.Fprintln(p.out, list.Message)
	}

	if len(list.Executions) == 0 {
		_, _ = p.muted.Fprintln(p.out, "No executions")

		return
	}

	columns := []string{"ID", "WORKFLOW", "ENGINE", "STATUS", "STARTED", "DURATION", "TRIGGER"}
	rows := make([][]string, 0, len(list.Executions))

	for _, execution := range list.Executions {
		rows = append(rows, []string{
			execution.ID,
			execution.WorkflowName,
			string(execution.Engine),
			string(execution.Status),
			execution.StartTime,
			execution.Duration,
			execution.TriggerType,
		})
	}

	widths := make([]int, len(columns))
	for i, column := range columns {
		widths[i] = len(column)
	}

	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	cells := make([]string, len(columns))
	for i, column := range columns {
		cells[i] = p.header.Sprint(pad(column, widths[i]))
	}

	_, _ = fmt.Fprintln(p.out, strings.TrimRight(strings.Join(cells, "  "), " "))

	for r, row := range rows {
		for i, cell := range row {
			cells[i] = pad(cell, widths[i])
		}

		cells[3] = p.status(list.Executions[r].Status).Sprint(cells[3])

		_, _ = fmt.Fprintln(p.out, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

func (p *printer) detail(detail models.ExecutionDetail) {
	_, _ = p.header.Fprintf(p.out, "%s (%s)\n", detail.WorkflowName, detail.ID)
	_, _ = fmt.Fprintf(p.out, "Engine:   %s\n", detail.Engine)
	_, _ = fmt.Fprintf(p.out, "Status:   %s\n", p.status(detail.Status).Sprint(detail.Status))
	_, _ = fmt.Fprintf(p.out, "Started:  %s\n", detail.StartTime)

	if detail.EndTime != "" {
		_, _ = fmt.Fprintf(p.out, "Finished: %s\n", detail.EndTime)
	}

	_, _ = fmt.Fprintf(p.out, "Duration: %s\n", detail.Duration)
	_, _ = fmt.Fprintf(p.out, "Trigger:  %s\n", detail.TriggerType)

	if detail.Error != "" {
		_, _ = p.failure.Fprintf(p.out, "Error:    %s\n", detail.Error)
	}

	if len(detail.Nodes) > 0 {
		_, _ = p.header.Fprintln(p.out, "\nNodes")

		for _, node := range detail.Nodes {
			line := fmt.Sprintf("  %s %s", p.status(node.Status).Sprint(node.Status), node.Name)
			if node.ExecutionTime != nil {
				line += p.muted.Sprintf(" (%dms)", *node.ExecutionTime)
			}

			_, _ = fmt.Fprintln(p.out, line)
		}
	}

	if len(detail.Logs) > 0 {
		_, _ = p.header.Fprintln(p.out, "\nLogs")

		for _, entry := range detail.Logs {
			_, _ = fmt.Fprintf(p.out, "  %s %-5s %s\n", p.muted.Sprint(entry.Timestamp), entry.Level, entry.Message)
		}
	}
}

func (p *printer) triggered(workflowID string, result *services.TriggerResult) {
	_, _ = p.success.Fprintf(p.out, "Workflow %s triggered\n", workflowID)

	if len(result.Result) > 0 {
		_, _ = fmt.Fprintln(p.out, string(result.Result))
	}
}

func (p *printer) snapshot(snapshot monitor.Snapshot) {
	line := fmt.Sprintf("%s  total %d  %s  %s  %s",
		p.muted.Sprint(snapshot.At.Format("15:04:05")),
		snapshot.Count,
		p.success.Sprintf("success %d", snapshot.StatusCounts[models.ExecutionStatusSuccess]),
		p.failure.Sprintf("error %d", snapshot.StatusCounts[models.ExecutionStatusError]),
		p.running.Sprintf("running %d", snapshot.StatusCounts[models.ExecutionStatusRunning]),
	)

	if snapshot.UsingMockData {
		line += "  " + p.warning.Sprint("mock data")
	}

	_, _ = fmt.Fprintln(p.out, line)
}

// EngineFallback reports that mock data replaced an engine's answer.
func (p *printer) EngineFallback(event events.EngineFallback) {
	_, _ = fmt.Fprintf(p.out, "%s  %s %s %s: %s\n",
		p.muted.Sprint(event.Timestamp.Format("15:04:05")),
		p.warning.Sprint("fallback"),
		event.Engine,
		event.Operation,
		event.Reason,
	)
}

// WorkflowTriggered reports a workflow run started through the dashboard.
func (p *printer) WorkflowTriggered(event events.WorkflowTriggered) {
	line := fmt.Sprintf("%s  %s %s %s",
		p.muted.Sprint(event.Timestamp.Format("15:04:05")),
		p.success.Sprint("triggered"),
		event.Engine,
		event.WorkflowID,
	)

	if event.Mock {
		line += " " + p.warning.Sprint("(mock)")
	}

	_, _ = fmt.Fprintln(p.out, line)
}

func pad(value string, width int) string {
	return fmt.Sprintf("%-*s", width, value)
}
