package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrFolderNotFound  = errors.New("folder not found")

	// ErrDefaultFolder is returned when renaming or deleting the default folder.
	ErrDefaultFolder = errors.New("default folder cannot be modified")

	ErrInvalidFolderName = errors.New("folder name cannot be empty")
	ErrInvalidFilter     = errors.New("invalid filter")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrFolderNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidFolderName) || errors.Is(err, ErrInvalidFilter)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrDefaultFolder)
}
