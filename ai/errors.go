package ai

import "errors"

var (
	// ErrEmptyResponse is returned when a provider answers with no candidate text.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrUnknownProvider is returned for provider names outside Providers.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNilRequest is returned when Generate is called without a request.
	ErrNilRequest = errors.New("request is required")
)
