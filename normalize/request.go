package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/poiesic/stixify/ai"
	"github.com/poiesic/stixify/core"
)

const instruction = `You convert indicators of compromise (IOCs) from raw threat intelligence into STIX 2.1 Indicator objects.

Each input item in the "data" array may be a URL, a domain, an IPv4 or IPv6 address, or a file hash (MD5, SHA1 or SHA256).

Rules:
- Generate exactly one Indicator per input item. Process every item in the order given and skip none.
- Leave the id, created, modified and valid_from fields as empty strings.
- Set type to "indicator", spec_version to "2.1" and pattern_type to "stix".
- Choose the pattern form that matches the observable:
    URL:        [url:value = '<value>']
    Domain:     [domain-name:value = '<value>']
    IPv4:       [ipv4-addr:value = '<value>']
    IPv6:       [ipv6-addr:value = '<value>']
    MD5 hash:   [file:hashes.MD5 = '<value>']
    SHA1 hash:  [file:hashes.'SHA-1' = '<value>']
    SHA256 hash: [file:hashes.'SHA-256' = '<value>']
- Copy observable values exactly as given. Do not defang, normalize or invent values.

Output ONLY a JSON array of Indicator objects. Do not include any preamble, explanation or markdown code
fences, and do not wrap the array in a STIX bundle.

Example:
Input:
{"data": [{"ipAddress": "1.2.3.4"}, {"md5_hash": "d41d8cd98f00b204e9800998ecf8427e"}]}
Output:
[
  {"type":"indicator","spec_version":"2.1","id":"","created":"","modified":"","pattern":"[ipv4-addr:value = '1.2.3.4']","pattern_type":"stix","valid_from":""},
  {"type":"indicator","spec_version":"2.1","id":"","created":"","modified":"","pattern":"[file:hashes.MD5 = 'd41d8cd98f00b204e9800998ecf8427e']","pattern_type":"stix","valid_from":""}
]`

// Instruction returns the system instruction sent with every batch.
func Instruction() string {
	return instruction
}

// BuildRequest renders a batch into a provider-neutral generation request.
// The payload is the batch under a "data" key, indented by two spaces.
func BuildRequest(batch []core.Record) (*ai.Request, error) {
	payload, err := encodePayload(batch)
	if err != nil {
		return nil, err
	}
	return &ai.Request{
		Instruction: instruction,
		Payload:     payload,
		Schema:      IndicatorArraySchema(),
		ItemCount:   len(batch),
	}, nil
}

func encodePayload(batch []core.Record) (string, error) {
	if batch == nil {
		batch = []core.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	// URLs carry & and < > often enough that escaping them would change values the model copies
	enc.SetEscapeHTML(false)
	if err := enc.Encode(struct {
		Data []core.Record `json:"data"`
	}{Data: batch}); err != nil {
		return "", fmt.Errorf("encoding batch payload: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// IndicatorArraySchema describes an array of Indicator objects whose fields
// are all required. Identity and time fields are required but left blank.
func IndicatorArraySchema() *ai.Schema {
	closed := false
	str := func(desc string) *ai.Schema {
		return &ai.Schema{Type: "string", Description: desc}
	}
	return &ai.Schema{
		Type:        "array",
		Description: "One STIX Indicator per input item, in input order",
		Items: &ai.Schema{
			Type: "object",
			Properties: map[string]*ai.Schema{
				"type":         {Type: "string", Description: "Must be the literal 'indicator'", Enum: []string{core.IndicatorType}},
				"spec_version": {Type: "string", Description: "STIX specification version", Enum: []string{core.SpecVersion20, core.SpecVersion21}},
				"id":           str("STIX identifier, leave blank"),
				"created":      str("Creation timestamp, leave blank"),
				"modified":     str("Modification timestamp, leave blank"),
				"pattern":      str("Detection pattern, e.g. [ipv4-addr:value = '1.1.1.1']"),
				"pattern_type": str("Pattern language, e.g. stix"),
				"valid_from":   str("Start of validity, leave blank"),
			},
			Required: []string{
				"type", "spec_version", "id", "created", "modified",
				"pattern", "pattern_type", "valid_from",
			},
			AdditionalProperties: &closed,
		},
	}
}
