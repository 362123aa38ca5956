package session_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dukex/flowbit/pkg/models"
	"github.com/dukex/flowbit/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](value T) *T {
	return &value
}

func TestStore_Create(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	created := store.Create()

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, created.Page)
	assert.Equal(t, 5, created.PerPage)
	assert.Equal(t, session.Filters{Status: "all", Engine: "all"}, created.Filters)
	assert.Equal(t, models.DefaultFolders(), created.Folders)

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	assert.NotEqual(t, created.ID, store.Create().ID)
}

func TestStore_GetReturnsSnapshot(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	created := store.Create()

	created.Folders[0].Name = "changed"

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unassigned", got.Folders[0].Name)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	created := store.Create()

	require.NoError(t, store.Delete(created.ID))

	_, err := store.Get(created.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(created.ID), session.ErrSessionNotFound)
}

func TestStore_CreateFolder(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	created := store.Create()

	folder, err := store.CreateFolder(created.ID, "  Finance  ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(folder.ID, "folder-"))
	assert.Equal(t, "Finance", folder.Name)
	assert.Zero(t, folder.WorkflowCount)
	assert.False(t, folder.IsDefault)

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, got.Folders, 4)
	assert.Equal(t, folder, got.Folders[3])

	_, err = store.CreateFolder(created.ID, "   ")
	assert.ErrorIs(t, err, session.ErrInvalidFolderName)
	assert.True(t, session.IsValidationError(err))

	_, err = store.CreateFolder("missing", "Finance")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestStore_RenameFolder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		folderID string
		newName  string
		sentinel error
		expected string
	}{
		{name: "rename", folderID: "marketing", newName: " Growth ", expected: "Growth"},
		{name: "default folder", folderID: models.DefaultFolderID, newName: "Other", sentinel: session.ErrDefaultFolder},
		{name: "unknown folder", folderID: "nope", newName: "Other", sentinel: session.ErrFolderNotFound},
		{name: "blank name", folderID: "marketing", newName: " ", sentinel: session.ErrInvalidFolderName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := session.NewStore()
			created := store.Create()

			folder, err := store.RenameFolder(created.ID, tt.folderID, tt.newName)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)

				got, getErr := store.Get(created.ID)
				require.NoError(t, getErr)
				assert.Equal(t, models.DefaultFolders(), got.Folders)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, folder.Name)
			assert.Equal(t, 2, folder.WorkflowCount)
		})
	}
}

func TestStore_DeleteFolder(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	created := store.Create()

	_, err := store.UpdateFilters(created.ID, session.FilterUpdate{FolderID: ptr("marketing")})
	require.NoError(t, err)

	require.NoError(t, store.DeleteFolder(created.ID, "marketing"))

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Folders, 2)
	assert.Empty(t, got.Filters.FolderID)

	err = store.DeleteFolder(created.ID, models.DefaultFolderID)
	assert.ErrorIs(t, err, session.ErrDefaultFolder)
	assert.True(t, session.IsConflictError(err))

	err = store.DeleteFolder(created.ID, "marketing")
	assert.ErrorIs(t, err, session.ErrFolderNotFound)
	assert.True(t, session.IsNotFound(err))
}

func TestStore_UpdateFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		prepare  *session.FilterUpdate
		update   session.FilterUpdate
		sentinel error
		validate func(t *testing.T, got session.Session)
	}{
		{
			name:   "status and engine",
			update: session.FilterUpdate{Status: ptr("error"), Engine: ptr("langflow")},
			validate: func(t *testing.T, got session.Session) {
				t.Helper()
				assert.Equal(t, "error", got.Filters.Status)
				assert.Equal(t, "langflow", got.Filters.Engine)
			},
		},
		{
			name:    "per page change resets page",
			prepare: &session.FilterUpdate{Page: ptr(3)},
			update:  session.FilterUpdate{PerPage: ptr(20)},
			validate: func(t *testing.T, got session.Session) {
				t.Helper()
				assert.Equal(t, 20, got.PerPage)
				assert.Equal(t, 1, got.Page)
			},
		},
		{
			name:    "same per page keeps page",
			prepare: &session.FilterUpdate{Page: ptr(3)},
			update:  session.FilterUpdate{PerPage: ptr(5)},
			validate: func(t *testing.T, got session.Session) {
				t.Helper()
				assert.Equal(t, 3, got.Page)
			},
		},
		{
			name:    "filter change keeps page",
			prepare: &session.FilterUpdate{Page: ptr(2)},
			update:  session.FilterUpdate{Status: ptr("success")},
			validate: func(t *testing.T, got session.Session) {
				t.Helper()
				assert.Equal(t, 2, got.Page)
			},
		},
		{
			name:    "clear folder",
			prepare: &session.FilterUpdate{FolderID: ptr("marketing")},
			update:  session.FilterUpdate{FolderID: ptr("")},
			validate: func(t *testing.T, got session.Session) {
				t.Helper()
				assert.Empty(t, got.Filters.FolderID)
			},
		},
		{name: "invalid status", update: session.FilterUpdate{Status: ptr("failed")}, sentinel: session.ErrInvalidFilter},
		{name: "invalid engine", update: session.FilterUpdate{Engine: ptr("zapier")}, sentinel: session.ErrInvalidFilter},
		{name: "invalid per page", update: session.FilterUpdate{PerPage: ptr(7)}, sentinel: session.ErrInvalidFilter},
		{name: "invalid page", update: session.FilterUpdate{Page: ptr(0)}, sentinel: session.ErrInvalidFilter},
		{name: "unknown folder", update: session.FilterUpdate{FolderID: ptr("nope")}, sentinel: session.ErrFolderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := session.NewStore()
			created := store.Create()

			if tt.prepare != nil {
				_, err := store.UpdateFilters(created.ID, *tt.prepare)
				require.NoError(t, err)
			}

			got, err := store.UpdateFilters(created.ID, tt.update)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)

				return
			}

			require.NoError(t, err)
			tt.validate(t, got)
		})
	}
}

func TestStore_ConcurrentFolders(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	created := store.Create()

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := store.CreateFolder(created.ID, fmt.Sprintf("Folder %d", i))
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Folders, 23)
}
