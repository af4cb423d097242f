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


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/poiesic/stixify"
	"github.com/poiesic/stixify/ai"
	"github.com/poiesic/stixify/core"
	"github.com/poiesic/stixify/evaluate"
	"github.com/poiesic/stixify/normalize"
	"github.com/poiesic/stixify/storage"
	"github.com/poiesic/stixify/storage/badger"
	"github.com/poiesic/stixify/storage/filesystem"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stixify",
		Usage: "Convert threat intelligence records into STIX 2.1 indicator bundles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "convert",
				Usage:  "Convert a JSON record file into a STIX bundle",
				Action: convertCommand,
				Flags:  convertFlags(),
			},
			{
				Name:   "evaluate",
				Usage:  "Check bundles for the values of a source file",
				Action: evaluateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "JSON file holding the original records",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "field",
						Aliases:  []string{"f"},
						Usage:    "Record field with the expected value (e.g. md5_hash, ipAddress, url)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "bundles",
						Aliases:  []string{"b"},
						Usage:    "Directory of bundle files to scan",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "summary",
						Usage: "Where to write the JSON summary",
						Value: "match_summary.json",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of files inspected concurrently",
						Value: 4,
					},
				},
			},
			{
				Name:   "validate",
				Usage:  "Check the structure of every bundle in a directory",
				Action: validateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bundles",
						Aliases:  []string{"b"},
						Usage:    "Directory of bundle files to validate",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "summary",
						Usage: "Where to write the JSON summary",
						Value: "validation_summary.json",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of files inspected concurrently",
						Value: 4,
					},
				},
			},
			{
				Name:   "history",
				Usage:  "List recorded conversion runs",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "journal",
						Aliases:  []string{"j"},
						Usage:    "Path to the run journal directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "input",
						Usage: "Only list runs over this input file's current content",
					},
				},
			},
		},
	}
}

func convertFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Usage:    "JSON file holding the records to convert",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Bundle file to write for a single run",
			Value:   "stix_output.json",
		},
		&cli.StringFlag{
			Name:  "output-dir",
			Usage: "Write numbered bundles (stix_output_001.json, ...) into this directory",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Model provider (openai, gemini, local)",
			Value: string(ai.ProviderOpenAI),
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "Provider API key (defaults to OPENAI_API_KEY, GEMINI_API_KEY or GOOGLE_API_KEY)",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Model name (defaults per provider)",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Base URL of an OpenAI-compatible server",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of records sent to the model per request",
			Value: 25,
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: "Report progress every N records",
			Value: 25,
		},
		&cli.IntFlag{
			Name:  "runs",
			Usage: "Number of independent conversions of the same input",
			Value: 1,
		},
		&cli.DurationFlag{
			Name:  "delay",
			Usage: "Pause between consecutive runs",
			Value: 1 * time.Second,
		},
		&cli.StringFlag{
			Name:  "failure-dir",
			Usage: "Directory for raw responses of failed batches",
			Value: ".",
		},
		&cli.StringFlag{
			Name:  "journal",
			Usage: "Record runs in a journal database at this directory",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML profile with default settings",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Load API keys from this .env file",
		},
	}
}

func convertCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := loadEnv(c.String("env-file")); err != nil {
		return err
	}
	profile, err := loadProfile(c.String("config"))
	if err != nil {
		return err
	}
	settings, err := resolveConvertSettings(c, profile)
	if err != nil {
		return err
	}

	opts := []stixify.ConverterOption{
		stixify.WithAIConfig(settings.AI),
		stixify.WithArtifactDir(settings.FailureDir),
	}
	if settings.Journal != "" {
		opts = append(opts, stixify.WithJournalPath(settings.Journal))
	}
	converter, err := stixify.NewConverter(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create converter: %w", err)
	}
	defer converter.Close()

	pipeline, err := converter.NewPipeline(
		normalize.WithConfig(&normalize.Config{
			BatchSize:      settings.BatchSize,
			ReportInterval: settings.ReportInterval,
			RunDelay:       settings.Delay,
		}),
		normalize.WithProgress(os.Stderr),
	)
	if err != nil {
		return fmt.Errorf("invalid pipeline configuration: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Provider: %s\n", converter.Generator().Name())
	fmt.Fprintf(os.Stderr, "Input: %s\n", settings.Input)
	fmt.Fprintln(os.Stderr)

	if settings.series() {
		if _, err := pipeline.RunSeries(ctx, settings.Input, settings.OutputDir, settings.Runs); err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}
		return nil
	}

	if _, err := pipeline.Run(ctx, settings.Input, settings.Output); err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	return nil
}

func evaluateCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := filesystem.New(&filesystem.Options{ArtifactDir: "."})
	if err != nil {
		return err
	}

	source, err := store.LoadRecords(ctx, c.String("source"))
	if err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}
	expected, err := evaluate.ExpectedValues(source.Records, c.String("field"))
	if err != nil {
		return err
	}
	if len(expected) == 0 {
		slog.Warn("no expected values found", "source", c.String("source"), "field", c.String("field"))
	}

	scanner, err := evaluate.NewScanner(evaluate.WithPoolSize(c.Int("workers")))
	if err != nil {
		return err
	}
	defer scanner.Release()

	summaries, err := scanner.Evaluate(ctx, c.String("bundles"), expected)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	evaluate.PrintSummaries(os.Stdout, summaries)

	if err := store.WriteReport(ctx, c.String("summary"), summaries); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nSaved summary to %s\n", c.String("summary"))
	return nil
}

func validateCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := filesystem.New(&filesystem.Options{ArtifactDir: "."})
	if err != nil {
		return err
	}

	scanner, err := evaluate.NewScanner(evaluate.WithPoolSize(c.Int("workers")))
	if err != nil {
		return err
	}
	defer scanner.Release()

	validations, err := scanner.Validate(ctx, c.String("bundles"))
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	evaluate.PrintValidations(os.Stdout, validations)

	if err := store.WriteReport(ctx, c.String("summary"), validations); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nSaved summary to %s\n", c.String("summary"))
	return nil
}

func historyCommand(c *cli.Context) error {
	ctx := context.Background()

	journal, err := badger.NewRunRepository(c.String("journal"))
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer journal.Close()

	runs, err := listRuns(ctx, journal, c.String("input"), c.Int("limit"))
	if err != nil {
		return err
	}

	printRuns(os.Stdout, runs)
	return nil
}

// listRuns returns up to limit runs, newest first. A non-empty input restricts
// the list to runs over that file's current content.
func listRuns(ctx context.Context, journal storage.RunRepository, input string, limit int) ([]*core.Run, error) {
	if input == "" {
		return journal.GetRecentRuns(ctx, limit)
	}
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	content, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	runs, err := journal.GetRunsByFingerprint(ctx, core.FingerprintFromContent(content))
	if err != nil {
		return nil, err
	}
	slices.Reverse(runs)
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func printRuns(w io.Writer, runs []*core.Run) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tPROVIDER\tMODEL\tBATCHES\tFAILED\tINDICATORS\tOUTPUT")
	for _, run := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.Id,
			run.StartedAt.Local().Format(time.DateTime),
			run.Provider,
			run.Model,
			run.Batches,
			len(run.FailedBatches),
			run.Indicators,
			run.OutputPath,
		)
	}
	tw.Flush()
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
