package ft

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is; the wrapped message carries the detail.
var (
	// ErrInvalidPath is fatal and raised before any I/O on the trees.
	ErrInvalidPath = errors.New("invalid path")
	// ErrPermission is fatal for destination setup.
	ErrPermission = errors.New("permission denied")
	// ErrConfiguration marks unusable source/destination combinations.
	ErrConfiguration = errors.New("configuration error")
	// ErrConflict means the destination already holds a different file.
	ErrConflict = errors.New("destination conflict")
	// ErrMove means the move was abandoned with the source left untouched.
	ErrMove = errors.New("move failed")
	// ErrLogWrite is a warning only.
	ErrLogWrite = errors.New("audit log write failed")

	ErrAlreadyOrganized = errors.New("already inside destination")
	ErrCancelled        = errors.New("operation cancelled")
)

func invalidPathf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPath, fmt.Sprintf(format, args...))
}

// IsFatal reports whether err belongs to the validation-time kinds that abort a run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvalidPath) || errors.Is(err, ErrPermission) || errors.Is(err, ErrConfiguration)
}
