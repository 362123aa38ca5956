package normalize

import (
	"encoding/json"
	"math"
	"time"

	"github.com/dukex/flowbit/pkg/models"
)

// Detail maps a raw execution onto the drill-down record. Payloads of engines this
// service does not know about produce a placeholder instead of an error.
func Detail(raw models.RawExecution, location *time.Location) models.ExecutionDetail {
	switch execution := raw.(type) {
	case *models.N8nExecution:
		return n8nDetail(execution, location)
	case *models.LangflowRun:
		return langflowDetail(execution, location)
	default:
		if raw == nil {
			return models.PlaceholderDetail("")
		}

		return models.PlaceholderDetail(raw.ExecutionID())
	}
}

func n8nDetail(execution *models.N8nExecution, location *time.Location) models.ExecutionDetail {
	summary := N8nSummary(execution, location)

	detail := models.ExecutionDetail{
		ID:           summary.ID,
		WorkflowID:   summary.WorkflowID,
		WorkflowName: summary.WorkflowName,
		Engine:       summary.Engine,
		Status:       summary.Status,
		StartTime:    summary.StartTime,
		Duration:     summary.Duration,
		TriggerType:  summary.TriggerType,
		FolderID:     summary.FolderID,
		Nodes:        []models.NodeResult{},
		Logs:         []models.LogEntry{},
	}

	if execution.StoppedAt != "" {
		detail.EndTime = FormatStartTime(execution.StoppedAt, location)
	}

	if execution.Data == nil {
		return detail
	}

	detail.Data = execution.Data.Raw()

	for _, entry := range execution.Data.ResultData.RunData {
		detail.Nodes = append(detail.Nodes, n8nNode(entry.Key, entry.Value))
	}

	if resultError := execution.Data.ResultData.Error; resultError != nil {
		detail.Error = resultError.Message
	}

	return detail
}

// n8nNode reads the first attempt of a node; later attempts are retries of the same step.
func n8nNode(name string, attempts []models.N8nNodeRun) models.NodeResult {
	var executionTime int64

	node := models.NodeResult{
		Name:          name,
		Status:        models.ExecutionStatusSuccess,
		ExecutionTime: &executionTime,
	}

	if len(attempts) == 0 {
		return node
	}

	first := attempts[0]

	if first.ExecutionTime != nil && !math.IsNaN(*first.ExecutionTime) {
		executionTime = int64(math.Round(*first.ExecutionTime))
	}

	if models.Truthy(first.Error) {
		node.Status = models.ExecutionStatusError
		node.Error = first.Error

		return node
	}

	node.Data = present(first.Data)

	return node
}

func langflowDetail(run *models.LangflowRun, location *time.Location) models.ExecutionDetail {
	summary := LangflowSummary(run, location)

	detail := models.ExecutionDetail{
		ID:           summary.ID,
		WorkflowID:   summary.WorkflowID,
		WorkflowName: summary.WorkflowName,
		Engine:       summary.Engine,
		Status:       summary.Status,
		StartTime:    summary.StartTime,
		Duration:     summary.Duration,
		TriggerType:  summary.TriggerType,
		FolderID:     summary.FolderID,
		Nodes:        make([]models.NodeResult, 0, len(run.Outputs)),
		Logs:         run.Logs,
		Error:        models.ErrorMessage(run.Error),
		Data:         run.Raw(),
	}

	if detail.Logs == nil {
		detail.Logs = []models.LogEntry{}
	}

	for _, entry := range run.Outputs {
		node := models.NodeResult{
			Name:   entry.Key,
			Status: models.ExecutionStatusSuccess,
			Data:   present(entry.Value.Data),
		}

		if models.Truthy(entry.Value.Error) {
			node.Status = models.ExecutionStatusError
			node.Error = entry.Value.Error
		}

		detail.Nodes = append(detail.Nodes, node)
	}

	return detail
}

func present(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	return raw
}
