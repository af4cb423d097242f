package badger

import "github.com/poiesic/stixify/storage"

// NewMemoryRunRepository creates an in-memory run journal for testing.
// Closing the repository closes the database.
func NewMemoryRunRepository() (storage.RunRepository, error) {
	backend, err := OpenBackend("", true)
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
