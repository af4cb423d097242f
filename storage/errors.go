package storage

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrInvalidQuery indicates invalid query parameters.
	ErrInvalidQuery = errors.New("invalid query parameters")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrInputUnreadable indicates the source document could not be read.
	ErrInputUnreadable = errors.New("input unreadable")

	// ErrOutputUnwritable indicates the output path could not be written.
	ErrOutputUnwritable = errors.New("output unwritable")

	// ErrInvalidArtifactName indicates an artifact name that is empty or escapes the artifact directory.
	ErrInvalidArtifactName = errors.New("invalid artifact name")
)
