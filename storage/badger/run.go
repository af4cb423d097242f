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


package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/stixify/core"
	"github.com/poiesic/stixify/storage"
)

// RunRepository implements storage.RunRepository for BadgerDB.
type RunRepository struct {
	backend   *Backend
	idSeq     *badger.Sequence
	ownsStore bool
}

var _ storage.RunRepository = (*RunRepository)(nil)

// newRunRepository is an internal constructor that returns the concrete type.
func newRunRepository(backend *Backend, ownsStore bool) (*RunRepository, error) {
	idSeq, err := backend.GetSequence(runIDSeq)
	if err != nil {
		return nil, err
	}

	return &RunRepository{
		backend:   backend,
		idSeq:     idSeq,
		ownsStore: ownsStore,
	}, nil
}

// NewRunRepository opens (or creates) a run journal in the directory at path.
// Closing the repository closes the database.
//
// Returns storage.RunRepository interface to enforce abstraction.
func NewRunRepository(path string) (storage.RunRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	repo, err := newRunRepository(backend, true)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return repo, nil
}

// NewRunRepositoryWithBackend creates a run journal on an existing backend.
// The caller keeps ownership of the backend.
func NewRunRepositoryWithBackend(backend *Backend) (storage.RunRepository, error) {
	return newRunRepository(backend, false)
}

// Close releases the ID sequence, and the database if the repository opened it.
func (r *RunRepository) Close() error {
	err := r.idSeq.Release()
	if r.ownsStore {
		err = errors.Join(err, r.backend.Close())
	}
	return err
}

// AddRun stores a run and indexes it by start time and input fingerprint.
func (r *RunRepository) AddRun(ctx context.Context, run *core.Run) (*core.Run, error) {
	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		if run.Id == 0 {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			run.Id = core.ID(nextID)
		}
		if run.StartedAt.IsZero() {
			run.StartedAt = time.Now().UTC()
		}

		if err := tx.Set(makeRunKey(run.Id), storage.MarshalRun(run)); err != nil {
			return err
		}
		if err := tx.Set(makeRunDateKey(run.StartedAt, run.Id), storage.MarshalID(run.Id)); err != nil {
			return err
		}
		return tx.Set(makeRunFingerprintKey(run.Fingerprint, run.Id), storage.MarshalID(run.Id))
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetRun retrieves a single run by ID.
func (r *RunRepository) GetRun(ctx context.Context, id core.ID) (*core.Run, error) {
	var run *core.Run
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		run, err = r.readRun(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, storage.ErrNotFound
	}
	return run, nil
}

// GetRecentRuns retrieves up to limit runs, most recently started first.
func (r *RunRepository) GetRecentRuns(ctx context.Context, limit int) ([]*core.Run, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Run
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent runs first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration seeks to the last key <= startKey, so start past every timestamp
		prefix := []byte(runDatePrefix + ":")
		startKey := append(makePartialRunDateKey(time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)), 0xff)

		for iter.Seek(startKey); iter.ValidForPrefix(prefix) && len(results) < limit; iter.Next() {
			run, err := r.runFromIndex(tx, iter.Item())
			if err != nil {
				return err
			}
			if run != nil {
				results = append(results, run)
			}
		}
		return nil
	})
	return results, err
}

// GetRunsByFingerprint retrieves every run over the given input, oldest first.
func (r *RunRepository) GetRunsByFingerprint(ctx context.Context, fp core.Fingerprint) ([]*core.Run, error) {
	var results []*core.Run
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialRunFingerprintKey(fp)
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			run, err := r.runFromIndex(tx, iter.Item())
			if err != nil {
				return err
			}
			if run != nil {
				results = append(results, run)
			}
		}
		return nil
	})
	// Index keys end in the run ID and IDs come from a sequence, so this is insertion order
	return results, err
}

// runFromIndex reads the run an index entry points at.
func (r *RunRepository) runFromIndex(tx *badger.Txn, item *badger.Item) (*core.Run, error) {
	var id core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return nil, err
	}
	return r.readRun(tx, id)
}

// readRun returns nil, nil when the run does not exist.
func (r *RunRepository) readRun(tx *badger.Txn, id core.ID) (*core.Run, error) {
	item, err := tx.Get(makeRunKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var run *core.Run
	err = item.Value(func(val []byte) error {
		var err error
		run, err = storage.UnmarshalRun(val)
		return err
	})
	return run, err
}
