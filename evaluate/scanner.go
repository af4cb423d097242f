package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Scanner applies checks to every bundle file in a directory.
type Scanner struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner) error

// WithPoolSize sets the number of files inspected concurrently.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Scanner) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if s.pool != nil {
			s.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewScanner creates a scanner. Call Release when done.
func NewScanner(opts ...Option) (*Scanner, error) {
	pool, err := ants.NewPool(max(runtime.NumCPU(), 1))
	if err != nil {
		return nil, err
	}

	s := &Scanner{
		pool:   pool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}
	s.logger = s.logger.With("component", "evaluate")
	return s, nil
}

// Release releases the worker pool.
// The scanner should not be used after calling Release.
func (s *Scanner) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Evaluate compares the indicators of every bundle in dir against expected.
// Files that cannot be parsed are logged and left out of the results.
func (s *Scanner) Evaluate(ctx context.Context, dir string, expected []string) ([]Summary, error) {
	return scan(ctx, s, dir, func(name string, data []byte) (Summary, bool) {
		patterns, err := Patterns(data)
		if err != nil {
			s.logger.Warn("could not parse bundle", "file", name, "err", err)
			return Summary{}, false
		}
		summary := Match(name, patterns, expected)
		s.logger.Debug("evaluated bundle", "file", name, "matched", summary.Matched, "total", summary.Total)
		return summary, true
	})
}

// Validate checks the structure of every bundle in dir. Unparseable files are
// reported as invalid.
func (s *Scanner) Validate(ctx context.Context, dir string) ([]Validation, error) {
	return scan(ctx, s, dir, func(name string, data []byte) (Validation, bool) {
		v := ValidateDocument(name, data)
		s.logger.Debug("validated bundle", "file", name, "valid", v.IsValid)
		return v, true
	})
}

// BundleFiles returns the names of the *.json files directly inside dir,
// sorted.
func BundleFiles(dir string) ([]string, error) {
	if dir == "" {
		return nil, ErrDirectoryRequired
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// scan reads each bundle file in dir on the pool and applies inspect to it.
// Results keep file name order; entries for which inspect returns false are
// dropped.
func scan[T any](ctx context.Context, s *Scanner, dir string, inspect func(name string, data []byte) (T, bool)) ([]T, error) {
	names, err := BundleFiles(dir)
	if err != nil {
		return nil, err
	}

	type slot struct {
		value T
		ok    bool
		err   error
	}
	slots := make([]slot, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				slots[i].err = err
				return
			}
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				slots[i].err = err
				return
			}
			slots[i].value, slots[i].ok = inspect(name, data)
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submitting %s: %w", name, submitErr)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]T, 0, len(names))
	for i, sl := range slots {
		if sl.err != nil {
			return nil, fmt.Errorf("reading %s: %w", names[i], sl.err)
		}
		if sl.ok {
			results = append(results, sl.value)
		}
	}
	return results, nil
}
