package models

// Folder groups workflows on the dashboard. It only lives for the duration of a session.
type Folder struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	WorkflowCount int    `json:"workflowCount"`
	IsDefault     bool   `json:"isDefault"`
}

// DefaultFolders returns the folders a new session starts with.
// WorkflowCount is a display counter and is not derived from execution folder ids.
func DefaultFolders() []Folder {
	return []Folder{
		{ID: DefaultFolderID, Name: "Unassigned", WorkflowCount: 2, IsDefault: true},
		{ID: "marketing", Name: "Marketing Automation", WorkflowCount: 2},
		{ID: "data-processing", Name: "Data Processing", WorkflowCount: 2},
	}
}
