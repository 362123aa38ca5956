package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dukex/flowbit/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Store holds sessions in memory. Sessions do not survive a restart.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	validator *validator.Validate
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions:  make(map[string]*Session),
		validator: validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
	}
}

func (s *Store) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := newSession(uuid.NewString(), s.now().UTC())
	s.sessions[session.ID] = session

	return session.clone()
}

func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return session.clone(), nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	delete(s.sessions, id)

	return nil
}

// CreateFolder adds an empty folder named after the trimmed name.
func (s *Store) CreateFolder(id, name string) (models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Folder{}, ErrInvalidFolderName
	}

	var folder models.Folder

	_, err := s.update(id, func(session *Session) error {
		folder = models.Folder{
			ID:   "folder-" + uuid.NewString(),
			Name: name,
		}
		session.Folders = append(session.Folders, folder)

		return nil
	})

	return folder, err
}

// RenameFolder renames a folder. The default folder keeps its name.
func (s *Store) RenameFolder(id, folderID, name string) (models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Folder{}, ErrInvalidFolderName
	}

	var folder models.Folder

	_, err := s.update(id, func(session *Session) error {
		index := session.folderIndex(folderID)
		if index < 0 {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, folderID)
		}

		if session.Folders[index].IsDefault {
			return ErrDefaultFolder
		}

		session.Folders[index].Name = name
		folder = session.Folders[index]

		return nil
	})

	return folder, err
}

// DeleteFolder removes a folder, clearing the folder filter when it pointed at it.
// The default folder cannot be deleted.
func (s *Store) DeleteFolder(id, folderID string) error {
	_, err := s.update(id, func(session *Session) error {
		index := session.folderIndex(folderID)
		if index < 0 {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, folderID)
		}

		if session.Folders[index].IsDefault {
			return ErrDefaultFolder
		}

		session.Folders = append(session.Folders[:index], session.Folders[index+1:]...)

		if session.Filters.FolderID == folderID {
			session.Filters.FolderID = ""
		}

		return nil
	})

	return err
}

func (s *Store) UpdateFilters(id string, update FilterUpdate) (Session, error) {
	if err := s.validator.Struct(update); err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	return s.update(id, func(session *Session) error {
		if update.FolderID != nil {
			if *update.FolderID != "" && session.folderIndex(*update.FolderID) < 0 {
				return fmt.Errorf("%w: %s", ErrFolderNotFound, *update.FolderID)
			}

			session.Filters.FolderID = *update.FolderID
		}

		if update.Status != nil {
			session.Filters.Status = *update.Status
		}

		if update.Engine != nil {
			session.Filters.Engine = *update.Engine
		}

		if update.Page != nil {
			session.Page = *update.Page
		}

		if update.PerPage != nil && *update.PerPage != session.PerPage {
			session.PerPage = *update.PerPage
			session.Page = 1
		}

		return nil
	})
}

// update applies fn under the write lock and returns the resulting snapshot.
func (s *Store) update(id string, fn func(session *Session) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	err := fn(session)
	if err != nil {
		return Session{}, err
	}

	session.UpdatedAt = s.now().UTC()

	return session.clone(), nil
}
