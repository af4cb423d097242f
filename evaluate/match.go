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


package evaluate

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/poiesic/stixify/core"
)

// Summary reports how well one bundle covers the expected values.
type Summary struct {
	File               string   `json:"file"`
	Matched            int      `json:"matched"`
	Total              int      `json:"total"`
	Percentage         float64  `json:"percentage"`
	Missing            []string `json:"missing"`
	Repeated           []string `json:"repeated"`
	UnexpectedPatterns []string `json:"unexpected_patterns"`
	DuplicatePatterns  []string `json:"duplicate_patterns"`
}

// ExpectedValues collects the value of field from each record, in order.
// Records without the field are skipped, repeated values are kept once and
// non-string values are formatted with fmt.
func ExpectedValues(records []core.Record, field string) ([]string, error) {
	if field == "" {
		return nil, ErrFieldRequired
	}

	seen := make(map[string]bool, len(records))
	values := make([]string, 0, len(records))
	for _, rec := range records {
		raw, ok := rec[field]
		if !ok || raw == nil {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			value = fmt.Sprint(raw)
		}
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		values = append(values, value)
	}
	return values, nil
}

// Patterns returns the pattern of every indicator object in a bundle
// document, in object order. Objects of other types are ignored.
func Patterns(data []byte) ([]string, error) {
	var doc struct {
		Objects []struct {
			Type    string `json:"type"`
			Pattern string `json:"pattern"`
		} `json:"objects"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableBundle, err)
	}

	patterns := make([]string, 0, len(doc.Objects))
	for _, obj := range doc.Objects {
		if obj.Type == core.IndicatorType {
			patterns = append(patterns, obj.Pattern)
		}
	}
	return patterns, nil
}

// Match compares patterns against expected values by substring.
//
// A value is matched if at least one pattern contains it and repeated if more
// than one does. A pattern containing no expected value is unexpected.
// A pattern seen before in the same bundle is also listed as a duplicate,
// once per extra occurrence.
func Match(file string, patterns, expected []string) Summary {
	occurrences := make([]int, len(expected))
	seen := make(map[string]bool, len(patterns))
	unexpected := make(map[string]bool)

	summary := Summary{
		File:               file,
		Total:              len(expected),
		Missing:            []string{},
		Repeated:           []string{},
		UnexpectedPatterns: []string{},
		DuplicatePatterns:  []string{},
	}

	for _, pattern := range patterns {
		if seen[pattern] {
			summary.DuplicatePatterns = append(summary.DuplicatePatterns, pattern)
		}
		seen[pattern] = true

		matched := false
		for i, value := range expected {
			if strings.Contains(pattern, value) {
				occurrences[i]++
				matched = true
			}
		}
		if !matched {
			unexpected[strings.TrimSpace(pattern)] = true
		}
	}

	for i, count := range occurrences {
		switch {
		case count == 0:
			summary.Missing = append(summary.Missing, expected[i])
		case count > 1:
			summary.Repeated = append(summary.Repeated, expected[i])
			summary.Matched++
		default:
			summary.Matched++
		}
	}

	for pattern := range unexpected {
		summary.UnexpectedPatterns = append(summary.UnexpectedPatterns, pattern)
	}
	slices.Sort(summary.UnexpectedPatterns)

	if summary.Total > 0 {
		pct := float64(summary.Matched) / float64(summary.Total) * 100
		summary.Percentage = math.Round(pct*100) / 100
	}
	return summary
}
