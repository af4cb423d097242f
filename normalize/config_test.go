package normalize

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 25, cfg.ReportInterval)
	assert.Equal(t, time.Second, cfg.RunDelay)
	assert.Empty(t, cfg.ArtifactPrefix)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "batch size one", mutate: func(c *Config) { c.BatchSize = 1 }},
		{name: "zero delay", mutate: func(c *Config) { c.RunDelay = 0 }},
		{name: "zero batch size", mutate: func(c *Config) { c.BatchSize = 0 }, wantErr: true},
		{name: "negative batch size", mutate: func(c *Config) { c.BatchSize = -5 }, wantErr: true},
		{name: "zero report interval", mutate: func(c *Config) { c.ReportInterval = 0 }, wantErr: true},
		{name: "negative delay", mutate: func(c *Config) { c.RunDelay = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.BatchSize = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidBatchSize)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(t.Context(), 0))
	assert.NoError(t, sleepContext(t.Context(), time.Millisecond))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, sleepContext(ctx, 0), context.Canceled)
}
