package normalize

import (
	"errors"
	"time"
)

// Config holds configuration for a normalization run.
type Config struct {
	// BatchSize is the number of records sent to the model per request
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// RunDelay is the pause between consecutive runs of a series.
	// It is never applied between batches of one run.
	RunDelay time.Duration

	// ArtifactPrefix is prepended to failure artifact names.
	ArtifactPrefix string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      25,
		ReportInterval: 25,
		RunDelay:       1 * time.Second,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.ReportInterval <= 0 {
		return errors.New("normalize config: ReportInterval must be greater than 0")
	}
	if c.RunDelay < 0 {
		return errors.New("normalize config: RunDelay cannot be negative")
	}
	return nil
}
