// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package googleai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/stixify/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Generator implements ai.Generator using the Gemini API.
type Generator struct {
	client llms.Model
	name   string
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(client llms.Model, model string) *Generator {
	name := string(ai.ProviderGemini) + "/" + model
	return &Generator{
		client: client,
		name:   name,
		logger: slog.Default().With("component", "googleai-generator", "model", name),
	}
}

// NewGenerator creates a Gemini generator from the configuration.
// The context is only used while constructing the underlying client.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(ctx context.Context, config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(config.Model),
	)
	if err != nil {
		return nil, err
	}
	return newGenerator(client, config.Model), nil
}

// Name identifies the provider and model.
func (g *Generator) Name() string {
	return g.name
}

// Generate sends instruction and payload as one user turn in JSON mode.
func (g *Generator) Generate(ctx context.Context, req *ai.Request) (string, error) {
	if req == nil {
		return "", ai.ErrNilRequest
	}

	instruction := req.Instruction
	if req.Schema != nil {
		instruction += "\n\nThe array must follow this schema:\n\n" + req.Schema.JSON()
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(instruction),
				llms.TextPart(req.Payload),
			},
		},
	}

	g.logger.Debug("generating", "items", req.ItemCount, "payload_bytes", len(req.Payload))
	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithJSONMode(),
	)
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", fmt.Errorf("%s: %w", g.name, err)
	}

	if response == nil || len(response.Choices) < 1 {
		g.logger.Warn("no candidates returned from model")
		return "", fmt.Errorf("%s: %w", g.name, ai.ErrEmptyResponse)
	}

	text := response.Choices[0].Content
	if strings.TrimSpace(text) == "" {
		g.logger.Warn("model returned blank content", "stop_reason", response.Choices[0].StopReason)
		return "", fmt.Errorf("%s: %w", g.name, ai.ErrEmptyResponse)
	}
	return text, nil
}
