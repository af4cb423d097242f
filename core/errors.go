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

import "errors"

// Domain validation errors
var (
	// ErrInvalidIndicator indicates an Indicator failed validation.
	ErrInvalidIndicator = errors.New("invalid indicator")

	// ErrInvalidBundle indicates a Bundle failed validation.
	ErrInvalidBundle = errors.New("invalid bundle")

	// ErrInvalidRecord indicates an input record is not a JSON object.
	ErrInvalidRecord = errors.New("invalid input record")

	// ErrInvalidType indicates the STIX type field has the wrong value.
	ErrInvalidType = errors.New("unexpected object type")

	// ErrInvalidSpecVersion indicates an unsupported spec_version value.
	ErrInvalidSpecVersion = errors.New("unsupported spec version")

	// ErrInvalidIdentifier indicates an id that is not "<type>--<uuid>".
	ErrInvalidIdentifier = errors.New("malformed identifier")

	// ErrInvalidTimestamp indicates a timestamp not in millisecond UTC form.
	ErrInvalidTimestamp = errors.New("malformed timestamp")

	// ErrEmptyPattern indicates the pattern field is empty.
	ErrEmptyPattern = errors.New("pattern cannot be empty")

	// ErrInvalidPattern indicates a STIX pattern that is not a bracketed comparison.
	ErrInvalidPattern = errors.New("pattern must be a bracketed comparison expression")

	// ErrEmptyPatternType indicates the pattern_type field is empty.
	ErrEmptyPatternType = errors.New("pattern type cannot be empty")
)
