// Package session keeps the per-user dashboard state: folders, filters and pagination.
package session

import (
	"slices"
	"time"

	"github.com/dukex/flowbit/pkg/models"
)

const (
	FilterAll      = "all"
	DefaultPerPage = 5
)

// PerPageOptions are the page sizes a session can use.
var PerPageOptions = []int{5, 10, 20, 50}

type Filters struct {
	// FolderID is empty when no folder is selected.
	FolderID string `json:"folderId"`
	Status   string `json:"status"`
	Engine   string `json:"engine"`
}

// Session is a snapshot of one dashboard's state.
type Session struct {
	ID        string          `json:"id"`
	Folders   []models.Folder `json:"folders"`
	Filters   Filters         `json:"filters"`
	Page      int             `json:"page"`
	PerPage   int             `json:"perPage"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:      id,
		Folders: models.DefaultFolders(),
		Filters: Filters{
			Status: FilterAll,
			Engine: FilterAll,
		},
		Page:      1,
		PerPage:   DefaultPerPage,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) clone() Session {
	snapshot := *s
	snapshot.Folders = slices.Clone(s.Folders)

	return snapshot
}

func (s *Session) folderIndex(folderID string) int {
	return slices.IndexFunc(s.Folders, func(folder models.Folder) bool {
		return folder.ID == folderID
	})
}

// FilterUpdate changes the filters that are set. Changing PerPage moves back to the first page.
type FilterUpdate struct {
	FolderID *string `json:"folderId"`
	Status   *string `json:"status"  validate:"omitempty,oneof=all success error running"`
	Engine   *string `json:"engine"  validate:"omitempty,oneof=all n8n langflow"`
	PerPage  *int    `json:"perPage" validate:"omitempty,oneof=5 10 20 50"`
	Page     *int    `json:"page"    validate:"omitempty,min=1"`
}
