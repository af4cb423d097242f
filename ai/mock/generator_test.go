package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/stixify/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGenerator_Script(t *testing.T) {
	boom := errors.New("boom")
	gen := NewMockGenerator().
		WithResponses("first").
		WithOutcomes(Response{Err: boom})
	ctx := context.Background()

	raw, err := gen.Generate(ctx, &ai.Request{Payload: `{"data":[]}`})
	require.NoError(t, err)
	assert.Equal(t, "first", raw)

	_, err = gen.Generate(ctx, &ai.Request{Payload: `{"data":[]}`})
	assert.ErrorIs(t, err, boom)

	// Script exhausted: falls back to echo
	raw, err = gen.Generate(ctx, &ai.Request{Payload: `{"data":[]}`})
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	assert.Equal(t, 3, gen.CallCount())
	assert.Len(t, gen.Requests(), 3)

	gen.Reset()
	assert.Equal(t, 0, gen.CallCount())
	assert.Empty(t, gen.Requests())
}

func TestMockGenerator_GenerateFunc(t *testing.T) {
	gen := NewMockGenerator().WithGenerateFunc(func(ctx context.Context, req *ai.Request) (string, error) {
		return "custom", nil
	})

	raw, err := gen.Generate(context.Background(), &ai.Request{})
	require.NoError(t, err)
	assert.Equal(t, "custom", raw)
	assert.Equal(t, "mock", gen.Name())
}

func TestMockGenerator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockGenerator().Generate(ctx, &ai.Request{Payload: `{"data":[]}`})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEcho(t *testing.T) {
	raw, err := Echo(&ai.Request{
		Payload: `{"data":[{"ipAddress":"1.2.3.4"},{"md5_hash":"d41d8cd98f00b204e9800998ecf8427e"}]}`,
	})
	require.NoError(t, err)
	assert.Contains(t, raw, `[ipv4-addr:value = '1.2.3.4']`)
	assert.Contains(t, raw, `[file:hashes.MD5 = 'd41d8cd98f00b204e9800998ecf8427e']`)

	_, err = Echo(&ai.Request{Payload: "nope"})
	assert.Error(t, err)
}

func TestPatternFor(t *testing.T) {
	tests := []struct {
		rec  map[string]any
		want string
	}{
		{map[string]any{"url": "http://a.example/x"}, "[url:value = 'http://a.example/x']"},
		{map[string]any{"domain": "a.example"}, "[domain-name:value = 'a.example']"},
		{map[string]any{"ip": "2001:db8::1"}, "[ipv6-addr:value = '2001:db8::1']"},
		{map[string]any{"sha256": "abc"}, "[file:hashes.'SHA-256' = 'abc']"},
		{map[string]any{"sha1": "abc"}, "[file:hashes.'SHA-1' = 'abc']"},
		{map[string]any{}, "[x-unknown:value = '']"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PatternFor(tt.rec))
	}
}
