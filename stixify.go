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


package stixify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/stixify/ai"
	"github.com/poiesic/stixify/ai/googleai"
	"github.com/poiesic/stixify/ai/openai"
	"github.com/poiesic/stixify/normalize"
	"github.com/poiesic/stixify/storage"
	"github.com/poiesic/stixify/storage/badger"
	"github.com/poiesic/stixify/storage/filesystem"
)

// DefaultArtifactDir is where failure artifacts go when no directory is configured.
const DefaultArtifactDir = "."

// NewGenerator creates the generator variant for the configured provider.
// The OpenAI variant is bound to the indicator list schema.
func NewGenerator(ctx context.Context, cfg *ai.Config) (ai.Generator, error) {
	if cfg == nil {
		cfg = ai.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ai.ProviderOpenAI:
		return openai.NewGenerator(cfg, normalize.IndicatorArraySchema())
	case ai.ProviderGemini:
		return googleai.NewGenerator(ctx, cfg)
	case ai.ProviderLocal:
		return openai.NewLocalGenerator(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ai.ErrUnknownProvider, cfg.Provider)
	}
}

// Converter wires a generator, a filesystem workspace and an optional run
// journal together.
type Converter struct {
	generator ai.Generator
	workspace *filesystem.Store
	journal   storage.RunRepository
	logger    *slog.Logger
}

// ConverterOption configures a Converter.
type ConverterOption func(*converterOptions)

type converterOptions struct {
	aiConfig    *ai.Config
	generator   ai.Generator
	artifactDir string
	journalPath string
}

// WithAIConfig sets the provider configuration. Defaults to ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) ConverterOption {
	return func(o *converterOptions) {
		o.aiConfig = cfg
	}
}

// WithGenerator uses gen instead of building one from the AI configuration.
func WithGenerator(gen ai.Generator) ConverterOption {
	return func(o *converterOptions) {
		o.generator = gen
	}
}

// WithArtifactDir sets where failure artifacts are written.
func WithArtifactDir(dir string) ConverterOption {
	return func(o *converterOptions) {
		o.artifactDir = dir
	}
}

// WithJournalPath records every run in a badger database at path.
func WithJournalPath(path string) ConverterOption {
	return func(o *converterOptions) {
		o.journalPath = path
	}
}

// NewConverter creates a Converter. Close it to release the journal.
func NewConverter(ctx context.Context, opts ...ConverterOption) (*Converter, error) {
	options := &converterOptions{
		aiConfig:    ai.DefaultConfig(),
		artifactDir: DefaultArtifactDir,
	}
	for _, opt := range opts {
		opt(options)
	}

	gen := options.generator
	if gen == nil {
		var err error
		gen, err = NewGenerator(ctx, options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	workspace, err := filesystem.New(&filesystem.Options{ArtifactDir: options.artifactDir})
	if err != nil {
		return nil, err
	}

	var journal storage.RunRepository
	if options.journalPath != "" {
		journal, err = badger.NewRunRepository(options.journalPath)
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
	}

	return &Converter{
		generator: gen,
		workspace: workspace,
		journal:   journal,
		logger:    slog.Default(),
	}, nil
}

// NewPipeline creates a pipeline over the converter's generator and
// workspace. The journal, if any, is attached before opts are applied.
func (c *Converter) NewPipeline(opts ...normalize.Option) (*normalize.Pipeline, error) {
	if c.journal != nil {
		opts = append([]normalize.Option{normalize.WithJournal(c.journal)}, opts...)
	}
	return normalize.NewPipeline(c.generator, c.workspace, opts...)
}

// Generator returns the model generator every pipeline shares.
func (c *Converter) Generator() ai.Generator {
	return c.generator
}

// Workspace returns the filesystem store pipelines read and write through.
func (c *Converter) Workspace() *filesystem.Store {
	return c.workspace
}

// Journal returns the run journal, or nil if none was configured.
func (c *Converter) Journal() storage.RunRepository {
	return c.journal
}

// Close releases the run journal. It is a no-op without one.
func (c *Converter) Close() error {
	if c.journal == nil {
		return nil
	}
	if err := c.journal.Close(); err != nil {
		c.logger.Error("error closing run journal", "err", err)
		return err
	}
	return nil
}
