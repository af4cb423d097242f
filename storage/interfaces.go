package storage

import (
	"context"

	"github.com/poiesic/stixify/core"
)

// Input is a loaded source document.
type Input struct {
	// Path is where the document was read from.
	Path string

	// Records is the record list located inside the document.
	Records []core.Record

	// Fingerprint identifies the document content.
	Fingerprint core.Fingerprint
}

// RecordLoader provides operations for reading source documents.
type RecordLoader interface {
	// LoadRecords reads a JSON document and locates its record list.
	// Returns an error wrapping ErrInputUnreadable if the file cannot be read,
	// or core.ErrInvalidRecord if the document is not usable.
	LoadRecords(ctx context.Context, path string) (*Input, error)
}

// BundleWriter provides operations for persisting output bundles.
type BundleWriter interface {
	// WriteBundle writes the bundle as indented JSON.
	// Either the complete file is written or no file is created; existing
	// files at path are replaced atomically.
	// Returns an error wrapping ErrOutputUnwritable on failure.
	WriteBundle(ctx context.Context, path string, bundle *core.Bundle) error
}

// ArtifactStore provides operations for saving the raw output of failed batches.
type ArtifactStore interface {
	// WriteArtifact persists raw text under name and returns its location.
	// An artifact already stored under name is replaced.
	WriteArtifact(ctx context.Context, name string, raw []byte) (string, error)
}

// Workspace combines the file operations a conversion run needs.
type Workspace interface {
	RecordLoader
	BundleWriter
	ArtifactStore
}

// RunRepository provides operations for managing the run journal.
type RunRepository interface {
	// AddRun records a finished run.
	// For runs with Id=0, generates a new ID from sequence.
	// Returns the run with its ID populated.
	AddRun(ctx context.Context, run *core.Run) (*core.Run, error)

	// GetRun retrieves a single run by ID.
	// Returns ErrNotFound if the run doesn't exist.
	GetRun(ctx context.Context, id core.ID) (*core.Run, error)

	// GetRecentRuns retrieves up to limit runs, most recently started first.
	GetRecentRuns(ctx context.Context, limit int) ([]*core.Run, error)

	// GetRunsByFingerprint retrieves every run over input with the given
	// fingerprint, oldest first.
	GetRunsByFingerprint(ctx context.Context, fp core.Fingerprint) ([]*core.Run, error)

	// Close releases resources held by the repository.
	Close() error
}
