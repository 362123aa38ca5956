package engines

import "errors"

var (
	ErrExecutionNotFound = errors.New("execution not found")
	ErrInvalidPayload    = errors.New("invalid engine payload")
)

func IsExecutionNotFound(err error) bool {
	return errors.Is(err, ErrExecutionNotFound)
}
