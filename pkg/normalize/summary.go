package normalize

import (
	"time"

	"github.com/dukex/flowbit/pkg/models"
)

// N8nSummary maps an n8n execution onto a feed row.
func N8nSummary(execution *models.N8nExecution, location *time.Location) models.ExecutionSummary {
	workflowName := models.UnknownWorkflowName
	folderID := models.DefaultFolderID

	if execution.WorkflowData != nil {
		workflowName = orDefault(execution.WorkflowData.Name, models.UnknownWorkflowName)

		if tag, ok := models.FirstTag(execution.WorkflowData.Tags); ok {
			folderID = tag
		}
	}

	return models.ExecutionSummary{
		ID:            string(execution.ID),
		WorkflowID:    string(execution.WorkflowID),
		WorkflowName:  workflowName,
		Engine:        models.EngineN8n,
		Status:        N8nStatus(execution.Finished, execution.StoppedAt),
		Duration:      N8nDuration(execution.Finished, execution.StartedAt, execution.StoppedAt),
		StartTime:     FormatStartTime(execution.StartedAt, location),
		TriggerType:   orDefault(execution.Mode, models.DefaultTriggerType),
		FolderID:      folderID,
		ExecutionData: execution.Raw(),
	}
}

// LangflowSummary maps a Langflow run onto a feed row.
func LangflowSummary(run *models.LangflowRun, location *time.Location) models.ExecutionSummary {
	folderID := models.DefaultFolderID
	if tag, ok := models.FirstTag(run.Tags); ok {
		folderID = tag
	}

	return models.ExecutionSummary{
		ID:            string(run.ID),
		WorkflowID:    string(run.FlowID),
		WorkflowName:  orDefault(run.FlowName, models.UnknownFlowName),
		Engine:        models.EngineLangflow,
		Status:        LangflowStatus(run.Status),
		Duration:      LangflowDuration(run.Duration),
		StartTime:     FormatStartTime(run.Timestamp, location),
		TriggerType:   orDefault(run.TriggerType, models.DefaultTriggerType),
		FolderID:      folderID,
		ExecutionData: run.Raw(),
	}
}
