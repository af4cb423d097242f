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


// Package storage provides the storage abstraction layer for stixify.
//
// This package defines the interfaces the conversion pipeline depends on, so
// file handling and the run journal can be swapped or faked in tests.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to enforce abstraction:
//
//	journal, err := badger.NewRunRepository("/path/to/journal")  // returns storage.RunRepository
//
// The filesystem workspace returns its concrete type because it has no
// alternative implementation and tests inspect its directory.
//
// # Architecture
//
//   - RecordLoader: Reads the input document and locates its record list
//   - BundleWriter: Writes the output bundle atomically
//   - ArtifactStore: Persists raw model output of failed batches
//   - Workspace: All three, as used by one conversion run
//   - RunRepository: Journal of finished runs
//
// Implementations live in storage/filesystem and storage/badger.
//
// # Error Classification
//
// Boundary I/O failures wrap ErrInputUnreadable or ErrOutputUnwritable and
// are fatal for a run. Use errors.Is to classify them.
//
// # Context Support
//
// All methods accept context.Context for cancellation. Pass
// context.Background() for operations without specific timeout requirements.
package storage
