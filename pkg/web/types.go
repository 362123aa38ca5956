// Package web provides HTTP request and response types for the dashboard API.
package web

import (
	"github.com/dukex/flowbit/pkg/models"
	"github.com/dukex/flowbit/pkg/session"
)

// TriggerWorkflowRequest represents the request body for triggering a workflow run.
type TriggerWorkflowRequest struct {
	WorkflowID models.FlexibleString `json:"workflowId" validate:"required"`
	Engine     string                `json:"engine"     validate:"required"`
}

// FolderRequest represents the request body for creating or renaming a folder.
type FolderRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateFiltersRequest represents a partial update of a session's filters and pagination.
type UpdateFiltersRequest struct {
	FolderID *string `json:"folderId"`
	Status   *string `json:"status"   validate:"omitempty,oneof=all success error running"`
	Engine   *string `json:"engine"   validate:"omitempty,oneof=all n8n langflow"`
	PerPage  *int    `json:"perPage"  validate:"omitempty,oneof=5 10 20 50"`
	Page     *int    `json:"page"     validate:"omitempty,min=1"`
}

func (r UpdateFiltersRequest) toUpdate() session.FilterUpdate {
	return session.FilterUpdate{
		FolderID: r.FolderID,
		Status:   r.Status,
		Engine:   r.Engine,
		PerPage:  r.PerPage,
		Page:     r.Page,
	}
}

// SessionExecutionsResponse is one page of the feed filtered by a session.
type SessionExecutionsResponse struct {
	session.View

	UsingMockData bool   `json:"usingMockData"`
	Message       string `json:"message"`
}
