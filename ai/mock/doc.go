// Package mock provides test double implementations of AI service interfaces.
//
// MockGenerator implements ai.Generator for unit tests. It runs without
// external AI services and returns controlled, deterministic output.
//
// # Usage in Tests
//
//	// Scripted responses, one per call
//	gen := mock.NewMockGenerator().
//	    WithResponses(`[{"type":"indicator"}]`, "not json")
//
//	// Custom behavior injection
//	gen := mock.NewMockGenerator().
//	    WithGenerateFunc(func(ctx context.Context, req *ai.Request) (string, error) {
//	        return "", ai.ErrEmptyResponse
//	    })
//
//	// Check call counts and captured requests
//	count := gen.CallCount()
//	first := gen.Requests()[0]
//
// # Default Behavior
//
// With no scripted responses and no GenerateFunc, MockGenerator echoes one
// blank indicator per input item, with a pattern derived from the item.
package mock
