package ai

import "encoding/json"

// Schema is a JSON Schema subset sufficient to describe structured model output.
type Schema struct {
	Type                 string             `json:"type"`
	Description          string             `json:"description,omitempty"`
	Enum                 []string           `json:"enum,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

// JSON renders the schema as indented JSON for embedding in prompts.
func (s *Schema) JSON() string {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Wrap returns an object schema holding s under a single required key.
// Structured-output APIs that only accept object roots use this for arrays.
func (s *Schema) Wrap(key string) *Schema {
	closed := false
	return &Schema{
		Type:                 "object",
		Properties:           map[string]*Schema{key: s},
		Required:             []string{key},
		AdditionalProperties: &closed,
	}
}
