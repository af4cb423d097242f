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


package normalize

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/stixify/ai"
	"github.com/poiesic/stixify/core"
	"github.com/poiesic/stixify/storage"
)

// SeriesOutputName returns the bundle file name for run n of a series.
func SeriesOutputName(n int) string {
	return fmt.Sprintf("stix_output_%03d.json", n)
}

// ArtifactName returns the failure artifact name for batch n.
func ArtifactName(prefix string, n int) string {
	return fmt.Sprintf("%sfailed_batch_%d.txt", prefix, n)
}

// BatchResult is the outcome of one batch. Exactly one of Indicators and
// Failure is meaningful: a failed batch contributes no indicators.
type BatchResult struct {
	// Number is the 1-based batch number.
	Number int

	// Size is the number of records in the batch.
	Size int

	// Indicators holds the recovered indicators, before stamping.
	Indicators []core.Indicator

	// Failure is set when the batch could not be recovered.
	Failure *core.Failure
}

// Failed reports whether the batch failed.
func (b BatchResult) Failed() bool {
	return b.Failure != nil
}

// Result summarizes one conversion run.
type Result struct {
	Bundle     *core.Bundle
	Batches    []BatchResult
	Records    int
	Failures   []core.Failure
	OutputPath string
	Elapsed    time.Duration
}

// FailedBatches returns the numbers of the batches that failed, in order.
func (r *Result) FailedBatches() []int {
	numbers := make([]int, 0, len(r.Failures))
	for _, f := range r.Failures {
		numbers = append(numbers, f.Batch)
	}
	return numbers
}

// ArtifactNames returns where each failed batch's raw text was saved, in order.
func (r *Result) ArtifactNames() []string {
	names := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		names = append(names, f.Artifact)
	}
	return names
}

// Pipeline converts records into a STIX bundle one batch at a time.
type Pipeline struct {
	generator ai.Generator
	workspace storage.Workspace
	journal   storage.RunRepository
	config    *Config
	stamper   *Stamper
	progress  io.Writer
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConfig sets the pipeline configuration. Defaults to DefaultConfig().
func WithConfig(config *Config) Option {
	return func(p *Pipeline) {
		p.config = config
	}
}

// WithStamper sets the stamper used after the last batch.
func WithStamper(stamper *Stamper) Option {
	return func(p *Pipeline) {
		p.stamper = stamper
	}
}

// WithProgress sets where progress and the final summary are written
// (typically os.Stderr). Defaults to io.Discard.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) {
		p.progress = w
	}
}

// WithJournal records every finished run in the repository.
func WithJournal(journal storage.RunRepository) Option {
	return func(p *Pipeline) {
		p.journal = journal
	}
}

// WithLogger sets the logger. Defaults to the slog default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a pipeline that sends batches to gen and reads and writes
// files through ws.
func NewPipeline(gen ai.Generator, ws storage.Workspace, opts ...Option) (*Pipeline, error) {
	if gen == nil {
		return nil, ErrGeneratorRequired
	}
	if ws == nil {
		return nil, ErrWorkspaceRequired
	}

	p := &Pipeline{
		generator: gen,
		workspace: ws,
		config:    DefaultConfig(),
		progress:  io.Discard,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.config == nil {
		p.config = DefaultConfig()
	}
	if err := p.config.Validate(); err != nil {
		return nil, err
	}
	if p.stamper == nil {
		p.stamper = NewStamper()
	}
	if p.progress == nil {
		p.progress = io.Discard
	}
	p.logger = p.logger.With("component", "pipeline", "generator", gen.Name())
	return p, nil
}

// Convert runs every batch of records through the generator and assembles the
// recovered indicators into one stamped bundle.
//
// A batch that fails generation or recovery is recorded in Result.Failures and
// its raw text is saved as an artifact; the run continues with the next batch.
// Convert returns an error only if the context is done or an artifact cannot
// be written.
func (p *Pipeline) Convert(ctx context.Context, records []core.Record) (*Result, error) {
	return p.convert(ctx, records, p.config.ArtifactPrefix)
}

func (p *Pipeline) convert(ctx context.Context, records []core.Record, prefix string) (*Result, error) {
	start := p.now()

	batches, err := Split(records, p.config.BatchSize)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Records: len(records),
		Batches: make([]BatchResult, 0, len(batches)),
	}

	tracker := NewProgressTracker(p.progress, len(records), len(batches), p.config.ReportInterval)
	tracker.Start()

	var accumulated []core.Indicator
	for i, batch := range batches {
		outcome, err := p.processBatch(ctx, i+1, batch, prefix)
		if err != nil {
			return nil, err
		}

		if outcome.Failed() {
			result.Failures = append(result.Failures, *outcome.Failure)
		} else {
			accumulated = append(accumulated, outcome.Indicators...)
		}
		result.Batches = append(result.Batches, outcome)
		tracker.BatchDone(outcome.Size, outcome.Failed())
	}
	tracker.Finish()

	p.stamper.Stamp(accumulated)
	result.Bundle = Assemble(accumulated)
	result.Elapsed = p.now().Sub(start)
	return result, nil
}

// processBatch builds, generates and recovers one batch. A returned error is
// fatal for the run; recoverable problems come back as a Failure.
func (p *Pipeline) processBatch(ctx context.Context, n int, batch []core.Record, prefix string) (BatchResult, error) {
	outcome := BatchResult{Number: n, Size: len(batch)}

	req, err := BuildRequest(batch)
	if err != nil {
		return outcome, fmt.Errorf("batch %d: %w", n, err)
	}

	raw, err := p.generator.Generate(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return outcome, ctxErr
		}
		// No model text to keep, so the error itself is the diagnostic
		return p.fail(ctx, outcome, err.Error(), err, prefix)
	}

	indicators, err := Recover(raw)
	if err != nil {
		return p.fail(ctx, outcome, raw, err, prefix)
	}

	if len(indicators) != len(batch) {
		cause := fmt.Errorf("%w: got %d for %d records", ErrCountMismatch, len(indicators), len(batch))
		return p.fail(ctx, outcome, raw, cause, prefix)
	}
	p.logger.Info("processed batch", "batch", n, "records", len(batch), "indicators", len(indicators))

	outcome.Indicators = indicators
	return outcome, nil
}

// fail records a failed batch and saves its raw text. Only an artifact write
// error is returned.
func (p *Pipeline) fail(ctx context.Context, outcome BatchResult, raw string, cause error, prefix string) (BatchResult, error) {
	p.logger.Error("failed to recover batch", "batch", outcome.Number, "err", cause)

	name := ArtifactName(prefix, outcome.Number)
	location, err := p.workspace.WriteArtifact(ctx, name, []byte(raw))
	if err != nil {
		return outcome, fmt.Errorf("saving raw response for batch %d: %w", outcome.Number, err)
	}
	p.logger.Info("saved raw response", "batch", outcome.Number, "artifact", location)

	outcome.Failure = &core.Failure{
		Batch:    outcome.Number,
		Raw:      raw,
		Err:      cause,
		Artifact: location,
	}
	return outcome, nil
}

// Run loads the records at inputPath, converts them and writes the bundle to
// outputPath. Load and write errors are fatal and leave no bundle file.
func (p *Pipeline) Run(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	return p.run(ctx, inputPath, outputPath, p.config.ArtifactPrefix)
}

func (p *Pipeline) run(ctx context.Context, inputPath, outputPath, prefix string) (*Result, error) {
	startedAt := p.now().UTC()

	input, err := p.workspace.LoadRecords(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", inputPath, err)
	}

	fmt.Fprintf(p.progress, "Converting %d records from %s (batch size: %d)\n",
		len(input.Records), inputPath, p.config.BatchSize)

	result, err := p.convert(ctx, input.Records, prefix)
	if err != nil {
		return nil, err
	}

	if err := p.workspace.WriteBundle(ctx, outputPath, result.Bundle); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outputPath, err)
	}
	result.OutputPath = outputPath

	fmt.Fprintf(p.progress, "Saved %d indicators to %s\n", len(result.Bundle.Objects), outputPath)
	for _, f := range result.Failures {
		fmt.Fprintf(p.progress, "Failed batch %d saved to %s\n", f.Batch, f.Artifact)
	}

	p.record(ctx, input, result, startedAt)
	return result, nil
}

// record adds the run to the journal if one is configured. The bundle is
// already written at this point, so journal errors are only logged.
func (p *Pipeline) record(ctx context.Context, input *storage.Input, result *Result, startedAt time.Time) {
	if p.journal == nil {
		return
	}

	run := &core.Run{
		Fingerprint:   input.Fingerprint,
		InputPath:     input.Path,
		OutputPath:    result.OutputPath,
		Provider:      p.generator.Name(),
		BatchSize:     p.config.BatchSize,
		Batches:       len(result.Batches),
		Indicators:    len(result.Bundle.Objects),
		FailedBatches: result.FailedBatches(),
		Artifacts:     result.ArtifactNames(),
		StartedAt:     startedAt,
		FinishedAt:    p.now().UTC(),
	}
	// Generator names are "<provider>/<model>"
	if provider, model, ok := strings.Cut(run.Provider, "/"); ok {
		run.Provider, run.Model = provider, model
	}

	if _, err := p.journal.AddRun(ctx, run); err != nil {
		p.logger.Warn("failed to record run", "output", result.OutputPath, "err", err)
		return
	}
	p.logger.Debug("recorded run", "id", run.Id, "fingerprint", run.Fingerprint.String())
}

// RunSeries performs runs independent conversions of the same input, writing
// stix_output_001.json, stix_output_002.json and so on into outputDir, and
// waits RunDelay between runs. With more than one run, failure artifacts are
// prefixed with the run's output name so runs cannot collide.
// Results of completed runs are returned along with any fatal error.
func (p *Pipeline) RunSeries(ctx context.Context, inputPath, outputDir string, runs int) ([]*Result, error) {
	if runs <= 0 {
		return nil, ErrInvalidRunCount
	}

	results := make([]*Result, 0, runs)
	for i := 1; i <= runs; i++ {
		prefix := p.config.ArtifactPrefix
		if runs > 1 {
			prefix += fmt.Sprintf("stix_output_%03d_", i)
		}

		result, err := p.run(ctx, inputPath, filepath.Join(outputDir, SeriesOutputName(i)), prefix)
		if err != nil {
			return results, fmt.Errorf("run %d of %d: %w", i, runs, err)
		}
		results = append(results, result)

		if i < runs {
			if err := sleepContext(ctx, p.config.RunDelay); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}
