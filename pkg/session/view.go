package session

import (
	"github.com/dukex/flowbit/pkg/models"
)

// Stats counts the filtered executions by status.
type Stats struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Error   int `json:"error"`
	Running int `json:"running"`
}

// View is one page of the executions feed as a session sees it.
type View struct {
	Executions []models.ExecutionSummary `json:"executions"`
	Stats      Stats                     `json:"stats"`
	Filters    Filters                   `json:"filters"`
	Page       int                       `json:"page"`
	PerPage    int                       `json:"perPage"`
	TotalPages int                       `json:"totalPages"`
	TotalItems int                       `json:"totalItems"`
}

// Matches reports whether an execution passes the session's filters.
func (f Filters) Matches(execution models.ExecutionSummary) bool {
	if f.FolderID != "" && execution.FolderID != f.FolderID {
		return false
	}

	if f.Status != "" && f.Status != FilterAll && string(execution.Status) != f.Status {
		return false
	}

	if f.Engine != "" && f.Engine != FilterAll && string(execution.Engine) != f.Engine {
		return false
	}

	return true
}

// Apply filters executions, computes stats over the filtered rows and cuts out the current page.
// A page past the end is empty.
func (s Session) Apply(executions []models.ExecutionSummary) View {
	perPage := s.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	page := max(s.Page, 1)

	filtered := make([]models.ExecutionSummary, 0, len(executions))
	stats := Stats{}

	for _, execution := range executions {
		if !s.Filters.Matches(execution) {
			continue
		}

		filtered = append(filtered, execution)

		switch execution.Status {
		case models.ExecutionStatusSuccess:
			stats.Success++
		case models.ExecutionStatusError:
			stats.Error++
		case models.ExecutionStatusRunning:
			stats.Running++
		}
	}

	stats.Total = len(filtered)

	start := min((page-1)*perPage, len(filtered))
	end := min(start+perPage, len(filtered))

	return View{
		Executions: filtered[start:end],
		Stats:      stats,
		Filters:    s.Filters,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (len(filtered) + perPage - 1) / perPage,
		TotalItems: len(filtered),
	}
}
