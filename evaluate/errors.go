package evaluate

import "errors"

var (
	// ErrDirectoryRequired is returned when no bundle directory is given.
	ErrDirectoryRequired = errors.New("bundle directory required")

	// ErrFieldRequired is returned when no source field name is given.
	ErrFieldRequired = errors.New("source field required")

	// ErrUnreadableBundle indicates a bundle file that is not a JSON object.
	ErrUnreadableBundle = errors.New("unreadable bundle")
)
