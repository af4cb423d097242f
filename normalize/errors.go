package normalize

import "errors"

var (
	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrInvalidRunCount is returned when a series is asked for fewer than one run.
	ErrInvalidRunCount = errors.New("run count must be greater than 0")

	// ErrMalformedResponse indicates model output that could not be parsed as JSON.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrUnexpectedShape indicates parsed model output that is not an array of objects.
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrCountMismatch indicates a response whose indicator count differs from the batch size.
	ErrCountMismatch = errors.New("indicator count does not match record count")

	// ErrGeneratorRequired is returned when a pipeline is built without a generator.
	ErrGeneratorRequired = errors.New("generator is required")

	// ErrWorkspaceRequired is returned when a pipeline is built without a workspace.
	ErrWorkspaceRequired = errors.New("workspace is required")
)
