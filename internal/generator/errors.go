package generator

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the backend answers without text.
var ErrEmptyResponse = errors.New("empty response")

// BackendError wraps every failure of a generation call. Callers should not
// rely on the wrapped error's type; backends differ.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsBackendError reports whether err carries a *BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
