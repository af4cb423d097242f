package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/stixify/ai"
	"github.com/tmc/langchaingo/llms"
)

// mode selects how output structure is requested from the server.
type mode int

const (
	// structured sends a strict JSON schema as the response format.
	structured mode = iota
	// jsonObject requests JSON-object mode and embeds the schema in the prompt.
	jsonObject
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client llms.Model
	name   string
	mode   mode
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Tests use it to inject a stub llms.Model.
func newGenerator(client llms.Model, name string, m mode) *Generator {
	return &Generator{
		client: client,
		name:   name,
		mode:   m,
		logger: slog.Default().With("component", "openai-generator", "model", name),
	}
}

// NewGenerator creates a generator for the OpenAI API using structured outputs.
// The schema is fixed at construction time because langchaingo binds the
// response format to the client.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config, schema *ai.Schema) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, fmt.Errorf("openai generator: schema is required")
	}
	client, err := newClient(config, schema)
	if err != nil {
		return nil, err
	}
	return newGenerator(client, string(ai.ProviderOpenAI)+"/"+config.Model, structured), nil
}

// NewLocalGenerator creates a generator for an OpenAI-compatible server
// (Ollama, LocalAI, vLLM) that supports JSON-object mode but not strict schemas.
//
// Returns ai.Generator interface to enforce abstraction.
func NewLocalGenerator(config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newClient(config, nil)
	if err != nil {
		return nil, err
	}
	return newGenerator(client, string(ai.ProviderLocal)+"/"+config.Model, jsonObject), nil
}

// Name identifies the provider and model.
func (g *Generator) Name() string {
	return g.name
}

// Generate sends the instruction as a system message and the payload as a human
// message, and returns the first choice's content verbatim.
func (g *Generator) Generate(ctx context.Context, req *ai.Request) (string, error) {
	if req == nil {
		return "", ai.ErrNilRequest
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(g.instruction(req)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(req.Payload),
			},
		},
	}

	opts := []llms.CallOption{llms.WithTemperature(0.0)}
	if g.mode == jsonObject {
		opts = append(opts, llms.WithJSONMode())
	}

	g.logger.Debug("generating", "items", req.ItemCount, "payload_bytes", len(req.Payload))
	response, err := g.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", fmt.Errorf("%s: %w", g.name, err)
	}

	if response == nil || len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", fmt.Errorf("%s: %w", g.name, ai.ErrEmptyResponse)
	}

	text := response.Choices[0].Content
	if strings.TrimSpace(text) == "" {
		g.logger.Warn("model returned blank content", "stop_reason", response.Choices[0].StopReason)
		return "", fmt.Errorf("%s: %w", g.name, ai.ErrEmptyResponse)
	}
	return text, nil
}

// instruction appends the wrapping contract to the system prompt. JSON-object
// mode also requires an object root, so both modes ask for the items key.
func (g *Generator) instruction(req *ai.Request) string {
	var b strings.Builder
	b.WriteString(req.Instruction)
	b.WriteString("\n\nInstead of a bare array, return a JSON object with a single key \"")
	b.WriteString(wrapKey)
	b.WriteString("\" whose value is that array.")
	if g.mode == jsonObject && req.Schema != nil {
		b.WriteString(" The object must follow this schema:\n\n")
		b.WriteString(req.Schema.Wrap(wrapKey).JSON())
	}
	return b.String()
}
