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


package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateIndicator validates a stamped Indicator according to STIX structural rules.
//
// Validation rules:
//   - Type must be "indicator"
//   - SpecVersion must be "2.0" or "2.1"
//   - ID must be "indicator--<uuid>"
//   - Created, Modified and ValidFrom must use TimestampLayout
//   - Pattern must be non-empty and bracketed
//   - PatternType must be non-empty
//
// NOT validated:
//   - Semantic correctness of the pattern against the source observable
//   - Description (optional)
func ValidateIndicator(ind *Indicator) error {
	if ind == nil {
		return fmt.Errorf("%w: indicator is nil", ErrInvalidIndicator)
	}

	if ind.Type != IndicatorType {
		return fmt.Errorf("%w: %w: %q", ErrInvalidIndicator, ErrInvalidType, ind.Type)
	}

	if err := ValidateSpecVersion(ind.SpecVersion); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIndicator, err)
	}

	if !IsIndicatorID(ind.ID) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidIndicator, ErrInvalidIdentifier, ind.ID)
	}

	for _, ts := range []string{ind.Created, ind.Modified, ind.ValidFrom} {
		if !IsValidTimestamp(ts) {
			return fmt.Errorf("%w: %w: %q", ErrInvalidIndicator, ErrInvalidTimestamp, ts)
		}
	}

	if err := ValidatePattern(ind.Pattern); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIndicator, err)
	}

	if strings.TrimSpace(ind.PatternType) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIndicator, ErrEmptyPatternType)
	}

	return nil
}

// ValidateBundle validates the bundle envelope and every object in it.
// The first failing object is reported with its index.
func ValidateBundle(b *Bundle) error {
	if b == nil {
		return fmt.Errorf("%w: bundle is nil", ErrInvalidBundle)
	}
	if b.Type != BundleType {
		return fmt.Errorf("%w: %w: %q", ErrInvalidBundle, ErrInvalidType, b.Type)
	}
	if !IsBundleID(b.ID) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidBundle, ErrInvalidIdentifier, b.ID)
	}
	if b.SpecVersion != SpecVersion21 {
		return fmt.Errorf("%w: %w: %q", ErrInvalidBundle, ErrInvalidSpecVersion, b.SpecVersion)
	}
	for i := range b.Objects {
		if err := ValidateIndicator(&b.Objects[i]); err != nil {
			return fmt.Errorf("%w: objects[%d]: %w", ErrInvalidBundle, i, err)
		}
	}
	return nil
}

// ValidateSpecVersion accepts the STIX versions an indicator may declare.
func ValidateSpecVersion(v string) error {
	if v != SpecVersion21 && v != SpecVersion20 {
		return fmt.Errorf("%w: %q", ErrInvalidSpecVersion, v)
	}
	return nil
}

// ValidatePattern checks that a pattern is a non-empty bracketed expression,
// e.g. "[ipv4-addr:value = '1.1.1.1']".
func ValidatePattern(pattern string) error {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return ErrEmptyPattern
	}
	if !strings.HasPrefix(p, "[") || !strings.HasSuffix(p, "]") || !strings.Contains(p, ":") {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	return nil
}

// IsValidTimestamp checks that ts parses with TimestampLayout.
func IsValidTimestamp(ts string) bool {
	_, err := time.Parse(TimestampLayout, ts)
	return err == nil
}
