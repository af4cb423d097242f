package ai

import "context"

// Generator sends one generation request to a language model and returns the
// raw text of the first candidate.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate invokes the model with the request's instruction and payload.
	// The returned text is unparsed; callers own recovery from malformed output.
	// Returns ErrEmptyResponse (wrapped) when the model produced no text.
	Generate(ctx context.Context, req *Request) (string, error)

	// Name identifies the provider and model, e.g. "openai/gpt-4o".
	Name() string
}

// Request is a single schema-constrained generation request.
type Request struct {
	// Instruction is the system-level guidance for the model.
	Instruction string

	// Payload is the serialized batch of records.
	Payload string

	// Schema describes the expected output. Providers that support structured
	// output enforce it; the rest embed it in the instruction.
	Schema *Schema

	// ItemCount is the number of records carried in Payload.
	ItemCount int
}
