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


package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/poiesic/stixify/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// It takes precedence over scripted responses.
	GenerateFunc func(ctx context.Context, req *ai.Request) (string, error)

	// NameValue is returned by Name. Defaults to "mock".
	NameValue string

	mu        sync.Mutex
	responses []Response
	requests  []*ai.Request
	callCount int
}

// Response is one scripted Generate outcome.
type Response struct {
	Text string
	Err  error
}

// NewMockGenerator creates a mock generator with default echo behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{NameValue: "mock"}
}

// WithGenerateFunc sets a custom Generate implementation.
func (m *MockGenerator) WithGenerateFunc(fn func(ctx context.Context, req *ai.Request) (string, error)) *MockGenerator {
	m.GenerateFunc = fn
	return m
}

// WithResponses queues raw texts returned by successive calls.
func (m *MockGenerator) WithResponses(texts ...string) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, text := range texts {
		m.responses = append(m.responses, Response{Text: text})
	}
	return m
}

// WithOutcomes queues full responses, including errors, for successive calls.
func (m *MockGenerator) WithOutcomes(outcomes ...Response) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, outcomes...)
	return m
}

// Name returns NameValue.
func (m *MockGenerator) Name() string {
	return m.NameValue
}

// Generate returns the next scripted response, or falls back to echo behavior
// once the script is exhausted.
func (m *MockGenerator) Generate(ctx context.Context, req *ai.Request) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.requests = append(m.requests, req)
	var next *Response
	if len(m.responses) > 0 {
		next = &m.responses[0]
		m.responses = m.responses[1:]
	}
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	if next != nil {
		return next.Text, next.Err
	}
	return Echo(req)
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Requests returns the requests seen so far, in call order.
func (m *MockGenerator) Requests() []*ai.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ai.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset clears the call count, captured requests, script and custom functions.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.requests = nil
	m.responses = nil
	m.GenerateFunc = nil
}

// Echo builds a well-formed response with one blank indicator per record in
// the request payload. The payload must be a {"data": [...]} document.
// Each pattern is built from the record's first attribute, by key order.
func Echo(req *ai.Request) (string, error) {
	if req == nil {
		return "", ai.ErrNilRequest
	}
	var doc struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(req.Payload), &doc); err != nil {
		return "", fmt.Errorf("mock: payload: %w", err)
	}

	out := make([]map[string]string, 0, len(doc.Data))
	for _, rec := range doc.Data {
		out = append(out, map[string]string{
			"type":         "indicator",
			"spec_version": "2.1",
			"id":           "",
			"created":      "",
			"modified":     "",
			"pattern":      PatternFor(rec),
			"pattern_type": "stix",
			"valid_from":   "",
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PatternFor guesses a STIX pattern for a record from well-known attribute names.
func PatternFor(rec map[string]any) string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "[x-unknown:value = '']"
	}
	key := keys[0]
	value := fmt.Sprint(rec[key])

	switch k := strings.ToLower(key); {
	case strings.Contains(k, "md5"):
		return fmt.Sprintf("[file:hashes.MD5 = '%s']", value)
	case strings.Contains(k, "sha256"), strings.Contains(k, "sha-256"):
		return fmt.Sprintf("[file:hashes.'SHA-256' = '%s']", value)
	case strings.Contains(k, "sha1"), strings.Contains(k, "sha-1"):
		return fmt.Sprintf("[file:hashes.'SHA-1' = '%s']", value)
	case strings.Contains(k, "ip"):
		if strings.Contains(value, ":") {
			return fmt.Sprintf("[ipv6-addr:value = '%s']", value)
		}
		return fmt.Sprintf("[ipv4-addr:value = '%s']", value)
	case strings.Contains(k, "url"):
		return fmt.Sprintf("[url:value = '%s']", value)
	case strings.Contains(k, "domain"):
		return fmt.Sprintf("[domain-name:value = '%s']", value)
	default:
		return fmt.Sprintf("[x-unknown:value = '%s']", value)
	}
}
