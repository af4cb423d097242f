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


package openai

import (
	"github.com/poiesic/stixify/ai"
	"github.com/tmc/langchaingo/llms/openai"
)

// schemaName identifies the structured output format sent to the API.
const schemaName = "indicator_list"

// wrapKey is the object key the OpenAI variant asks the model to nest the
// indicator array under. Structured outputs require an object at the root.
const wrapKey = "items"

// newClient creates a langchaingo OpenAI client for the given configuration.
// A nil schema selects plain chat completions; JSON mode is then requested per call.
func newClient(config *ai.Config, schema *ai.Schema) (*openai.LLM, error) {
	token := config.APIKey
	if token == "" {
		// Local OpenAI-compatible services don't require authentication
		token = "none"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(config.Model),
	}
	if config.Host != "" {
		opts = append(opts, openai.WithBaseURL(config.Host))
	}
	if schema != nil {
		opts = append(opts, openai.WithResponseFormat(&openai.ResponseFormat{
			Type: "json_schema",
			JSONSchema: &openai.ResponseFormatJSONSchema{
				Name:   schemaName,
				Strict: true,
				Schema: toResponseSchema(schema.Wrap(wrapKey)),
			},
		}))
	}
	return openai.New(opts...)
}

// toResponseSchema converts an ai.Schema into the langchaingo structured output form.
func toResponseSchema(s *ai.Schema) *openai.ResponseFormatJSONSchemaProperty {
	if s == nil {
		return nil
	}
	out := &openai.ResponseFormatJSONSchemaProperty{
		Type:        s.Type,
		Description: s.Description,
		Items:       toResponseSchema(s.Items),
		Required:    s.Required,
	}
	if s.AdditionalProperties != nil {
		out.AdditionalProperties = *s.AdditionalProperties
	}
	if len(s.Enum) > 0 {
		out.Enum = make([]interface{}, len(s.Enum))
		for i, v := range s.Enum {
			out.Enum[i] = v
		}
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*openai.ResponseFormatJSONSchemaProperty, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = toResponseSchema(v)
		}
	}
	return out
}
