package storage

import (
	"testing"
	"time"

	"github.com/poiesic/stixify/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalRun(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		run  *core.Run
	}{
		{
			name: "complete run",
			run: &core.Run{
				Id:            7,
				Fingerprint:   core.FingerprintFromContent([]byte(`[{"url":"http://a.example"}]`)),
				InputPath:     "/data/iocs.json",
				OutputPath:    "/out/stix_output_001.json",
				Provider:      "openai",
				Model:         "gpt-4o",
				BatchSize:     25,
				Batches:       3,
				Indicators:    50,
				FailedBatches: []int{2},
				Artifacts:     []string{"/out/failed_batch_2.txt"},
				StartedAt:     now.Add(-time.Minute),
				FinishedAt:    now,
			},
		},
		{
			name: "run without failures",
			run: &core.Run{
				Id:         1,
				InputPath:  "in.json",
				OutputPath: "out.json",
				Provider:   "local",
				Model:      "qwen2.5:3b",
				BatchSize:  25,
				StartedAt:  now,
				FinishedAt: now,
			},
		},
		{
			name: "zero value",
			run:  &core.Run{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalRun(tt.run)

			decoded, err := UnmarshalRun(data)
			require.NoError(t, err)
			assert.Equal(t, tt.run, decoded)
		})
	}
}

func TestUnmarshalRun_Truncated(t *testing.T) {
	data := MarshalRun(&core.Run{Id: 3, InputPath: "input.json", Model: "gpt-4o"})

	_, err := UnmarshalRun(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
