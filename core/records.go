package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeRecords locates the record list inside an arbitrary JSON document.
//
// If the document is itself an array it is the record list. If it is an object,
// the first array-valued entry in document order is used. Any other document,
// or an object without array values, yields no records.
// Every element of the chosen list must be a JSON object.
func DecodeRecords(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidRecord)
	}

	switch data[0] {
	case '[':
		return decodeRecordList(data)
	case '{':
		list, err := firstListValue(data)
		if err != nil {
			return nil, err
		}
		if list == nil {
			return []Record{}, nil
		}
		return decodeRecordList(list)
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w: document is not valid JSON", ErrInvalidRecord)
		}
		return []Record{}, nil
	}
}

// firstListValue walks the top-level object keys in order and returns the raw
// bytes of the first array value, or nil if there is none.
// encoding/json maps are unordered, so a token stream is needed here.
func firstListValue(data []byte) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}
		if v := bytes.TrimSpace(value); len(v) > 0 && v[0] == '[' {
			return v, nil
		}
	}
	return nil, nil
}

func decodeRecordList(data []byte) ([]Record, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidRecord, i)
		}
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber() // keep large integers intact when re-serialized into prompts
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrInvalidRecord, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
