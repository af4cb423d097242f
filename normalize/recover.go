package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/poiesic/stixify/core"
)

// wrapperKey is the object key some providers nest the indicator array under.
const wrapperKey = "items"

// StripFences trims whitespace and removes a leading ```json or ``` fence and a
// trailing ``` fence. Text without fences is only trimmed.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// Recover extracts indicators from raw model output.
//
// The text is fence-stripped and parsed. If parsing fails, a key-quote repair
// is tried, then the first balanced JSON block is extracted from surrounding
// prose. An object with an "items" key is unwrapped. The result must be an
// array of objects.
//
// Parse failures wrap ErrMalformedResponse; well-formed JSON of the wrong shape
// wraps ErrUnexpectedShape. Unknown fields on indicator objects are dropped.
func Recover(raw string) ([]core.Indicator, error) {
	data, err := parseJSON(StripFences(raw))
	if err != nil {
		return nil, err
	}

	if data[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
		}
		items, ok := wrapper[wrapperKey]
		if !ok {
			return nil, fmt.Errorf("%w: object without %q key", ErrUnexpectedShape, wrapperKey)
		}
		data = bytes.TrimSpace(items)
	}

	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrUnexpectedShape)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
	}

	indicators := make([]core.Indicator, 0, len(elements))
	for i, element := range elements {
		element = bytes.TrimSpace(element)
		if len(element) == 0 || element[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrUnexpectedShape, i)
		}
		var ind core.Indicator
		if err := json.Unmarshal(element, &ind); err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrUnexpectedShape, i, err)
		}
		indicators = append(indicators, ind)
	}
	return indicators, nil
}

// parseJSON returns text as a single valid JSON value, trying repairs in order.
func parseJSON(text string) ([]byte, error) {
	candidates := []string{text}
	if repaired := repairJSON(text); repaired != text {
		candidates = append(candidates, repaired)
	}
	if block := firstJSONBlock(text); block != "" && block != text {
		candidates = append(candidates, block)
	}

	for _, candidate := range candidates {
		data := bytes.TrimSpace([]byte(candidate))
		if len(data) > 0 && json.Valid(data) {
			return data, nil
		}
	}

	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrMalformedResponse)
	}
	var probe any
	err := json.Unmarshal([]byte(text), &probe)
	return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
}
