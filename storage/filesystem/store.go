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


package filesystem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/stixify/core"
	"github.com/poiesic/stixify/storage"
)

// Options configures a Store.
type Options struct {
	// ArtifactDir is where failure artifacts are written. Required.
	ArtifactDir string

	// PermFile/PermDir: file and directory permissions; 0 means 0o644/0o755.
	PermFile os.FileMode
	PermDir  os.FileMode
}

// Store implements storage.Workspace.
type Store struct {
	artifactDir string
	permFile    os.FileMode
	permDir     os.FileMode
	logger      *slog.Logger
}

var _ storage.Workspace = (*Store)(nil)

// New creates a filesystem store.
func New(opts *Options) (*Store, error) {
	if opts == nil || strings.TrimSpace(opts.ArtifactDir) == "" {
		return nil, errors.New("filesystem store: ArtifactDir is required")
	}
	pf := opts.PermFile
	if pf == 0 {
		pf = 0o644
	}
	pd := opts.PermDir
	if pd == 0 {
		pd = 0o755
	}
	return &Store{
		artifactDir: opts.ArtifactDir,
		permFile:    pf,
		permDir:     pd,
		logger:      slog.Default().With("component", "filesystem-store"),
	}, nil
}

// ArtifactDir returns the directory failure artifacts are written to.
func (s *Store) ArtifactDir() string {
	return s.artifactDir
}

// LoadRecords reads the document at path and locates its record list.
func (s *Store) LoadRecords(ctx context.Context, path string) (*storage.Input, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrInputUnreadable, err)
	}

	records, err := core.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.logger.Debug("loaded records", "path", path, "records", len(records), "bytes", len(data))
	return &storage.Input{
		Path:        path,
		Records:     records,
		Fingerprint: core.FingerprintFromContent(data),
	}, nil
}

// WriteBundle writes the bundle to path as two-space indented JSON.
func (s *Store) WriteBundle(ctx context.Context, path string, bundle *core.Bundle) error {
	if bundle == nil {
		return fmt.Errorf("%w: nil bundle", storage.ErrOutputUnwritable)
	}
	if err := s.writeJSON(ctx, path, bundle); err != nil {
		return err
	}
	s.logger.Debug("wrote bundle", "path", path, "objects", len(bundle.Objects))
	return nil
}

// WriteReport writes any JSON-encodable report to path, replacing it
// atomically. Used for evaluation and validation summaries.
func (s *Store) WriteReport(ctx context.Context, path string, report any) error {
	if err := s.writeJSON(ctx, path, report); err != nil {
		return err
	}
	s.logger.Debug("wrote report", "path", path)
	return nil
}

func (s *Store) writeJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: encoding %s: %w", storage.ErrOutputUnwritable, filepath.Base(path), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), s.permDir); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrOutputUnwritable, err)
	}
	if err := writeAtomic(path, buf.Bytes(), s.permFile); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrOutputUnwritable, err)
	}
	return nil
}

// WriteArtifact writes raw to name inside the artifact directory, replacing
// any artifact a previous run left under the same name. The name must be a
// plain file name.
func (s *Store) WriteArtifact(ctx context.Context, name string, raw []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := filepath.Base(filepath.Clean(name))
	if name == "" || clean != name || clean == "." || clean == ".." {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidArtifactName, name)
	}

	if err := os.MkdirAll(s.artifactDir, s.permDir); err != nil {
		return "", fmt.Errorf("%w: %w", storage.ErrOutputUnwritable, err)
	}

	dest := filepath.Join(s.artifactDir, clean)
	if err := writeAtomic(dest, raw, s.permFile); err != nil {
		return "", fmt.Errorf("%w: %w", storage.ErrOutputUnwritable, err)
	}
	return dest, nil
}
