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
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

const (
	// IndicatorType is the STIX object type of every generated indicator.
	IndicatorType = "indicator"

	// BundleType is the STIX object type of the output container.
	BundleType = "bundle"

	// SpecVersion21 is the STIX version stamped on bundles.
	SpecVersion21 = "2.1"

	// SpecVersion20 is accepted on indicators for compatibility with older producers.
	SpecVersion20 = "2.0"

	// PatternTypeSTIX is the pattern language requested from the model.
	PatternTypeSTIX = "stix"

	// TimestampLayout renders UTC timestamps with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z"

	indicatorIDPrefix = IndicatorType + "--"
	bundleIDPrefix    = BundleType + "--"
)

// ID is a sequence-generated identifier for journal entries.
type ID uint64

// Fingerprint is a content hash of an input document.
// Identical input bytes always produce the same fingerprint.
type Fingerprint uint64

// FingerprintFromContent hashes data with BLAKE2b truncated to 64 bits.
func FingerprintFromContent(data []byte) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// String renders the fingerprint as fixed-width hex.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// Record is a single raw input item. Its schema is not fixed; typical keys are
// "ipAddress", "md5_hash" or "url".
type Record map[string]any

// Indicator is a STIX 2.1 Indicator restricted to the fields this system generates.
// ID, Created, Modified and ValidFrom are blank until stamped.
type Indicator struct {
	Type        string  `json:"type"`
	SpecVersion string  `json:"spec_version"`
	ID          string  `json:"id"`
	Created     string  `json:"created"`
	Modified    string  `json:"modified"`
	Pattern     string  `json:"pattern"`
	PatternType string  `json:"pattern_type"`
	ValidFrom   string  `json:"valid_from"`
	Description *string `json:"description,omitempty"`
}

// Bundle is the STIX container written once per run.
type Bundle struct {
	Type        string      `json:"type"`
	ID          string      `json:"id"`
	SpecVersion string      `json:"spec_version"`
	Objects     []Indicator `json:"objects"`
}

// Failure describes a batch whose model output could not be recovered.
// Raw holds the verbatim provider text (or a diagnostic if none was returned).
type Failure struct {
	Batch    int
	Raw      string
	Err      error
	Artifact string // Name the raw text was persisted under, empty until written
}

// Error implements error.
func (f *Failure) Error() string {
	return fmt.Sprintf("batch %d: %v", f.Batch, f.Err)
}

// Unwrap exposes the underlying cause to errors.Is.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Run is a journal entry describing one completed pipeline run.
type Run struct {
	Id            ID
	Fingerprint   Fingerprint
	InputPath     string
	OutputPath    string
	Provider      string
	Model         string
	BatchSize     int
	Batches       int
	Indicators    int
	FailedBatches []int
	Artifacts     []string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// NewIndicatorID returns a fresh "indicator--<uuid>" identifier.
func NewIndicatorID() string {
	return indicatorIDPrefix + uuid.NewString()
}

// NewBundleID returns a fresh "bundle--<uuid>" identifier.
func NewBundleID() string {
	return bundleIDPrefix + uuid.NewString()
}

// IsIndicatorID reports whether s is "indicator--" followed by a valid UUID.
func IsIndicatorID(s string) bool {
	return hasUUIDSuffix(s, indicatorIDPrefix)
}

// IsBundleID reports whether s is "bundle--" followed by a valid UUID.
func IsBundleID(s string) bool {
	return hasUUIDSuffix(s, bundleIDPrefix)
}

func hasUUIDSuffix(s, prefix string) bool {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || len(rest) != 36 {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(TimestampLayout)
}
