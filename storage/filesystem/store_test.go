package filesystem

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/stixify/core"
	"github.com/poiesic/stixify/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := New(&Options{ArtifactDir: filepath.Join(dir, "failed")})
	require.NoError(t, err)
	return store, dir
}

func TestNew_RequiresArtifactDir(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Options{ArtifactDir: "  "})
	assert.Error(t, err)
}

func TestLoadRecords(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	t.Run("wrapped list", func(t *testing.T) {
		path := filepath.Join(dir, "feed.json")
		content := []byte(`{"source":"feed","data":[{"url":"http://a.example/"},{"url":"http://b.example/"}]}`)
		require.NoError(t, os.WriteFile(path, content, 0o644))

		input, err := store.LoadRecords(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, path, input.Path)
		assert.Len(t, input.Records, 2)
		assert.Equal(t, core.FingerprintFromContent(content), input.Fingerprint)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := store.LoadRecords(ctx, filepath.Join(dir, "nope.json"))
		assert.ErrorIs(t, err, storage.ErrInputUnreadable)
	})

	t.Run("invalid document", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`[1, 2]`), 0o644))

		_, err := store.LoadRecords(ctx, path)
		assert.ErrorIs(t, err, core.ErrInvalidRecord)
	})
}

func TestWriteBundle(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	bundle := &core.Bundle{
		Type:        core.BundleType,
		ID:          core.NewBundleID(),
		SpecVersion: core.SpecVersion21,
		Objects:     []core.Indicator{},
	}

	t.Run("creates parent directories and writes indented JSON", func(t *testing.T) {
		path := filepath.Join(dir, "out", "nested", "bundle.json")
		require.NoError(t, store.WriteBundle(ctx, path, bundle))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n  \"type\": \"bundle\"")
		assert.Contains(t, string(data), `"objects": []`)

		var decoded core.Bundle
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, bundle.ID, decoded.ID)
	})

	t.Run("replaces existing file without leaving temp files", func(t *testing.T) {
		path := filepath.Join(dir, "replace.json")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
		require.NoError(t, store.WriteBundle(ctx, path, bundle))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotEqual(t, "old", string(data))

		matches, err := filepath.Glob(filepath.Join(dir, ".tmp-*"))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("unwritable destination leaves no file", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
		path := filepath.Join(blocker, "bundle.json")

		err := store.WriteBundle(ctx, path, bundle)
		assert.ErrorIs(t, err, storage.ErrOutputUnwritable)
		assert.NoFileExists(t, path)
	})

	t.Run("nil bundle", func(t *testing.T) {
		err := store.WriteBundle(ctx, filepath.Join(dir, "nil.json"), nil)
		assert.ErrorIs(t, err, storage.ErrOutputUnwritable)
		assert.NoFileExists(t, filepath.Join(dir, "nil.json"))
	})
}

func TestWriteArtifact(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	loc, err := store.WriteArtifact(ctx, "failed_batch_2.txt", []byte("not json"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.ArtifactDir(), "failed_batch_2.txt"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))

	t.Run("replaces existing artifact", func(t *testing.T) {
		again, err := store.WriteArtifact(ctx, "failed_batch_2.txt", []byte("other"))
		require.NoError(t, err)
		assert.Equal(t, loc, again)

		data, err := os.ReadFile(loc)
		require.NoError(t, err)
		assert.Equal(t, "other", string(data))

		entries, err := os.ReadDir(store.ArtifactDir())
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
		}
	})

	t.Run("rejects paths", func(t *testing.T) {
		for _, name := range []string{"", "..", "../escape.txt", "sub/dir.txt"} {
			_, err := store.WriteArtifact(ctx, name, []byte("x"))
			assert.ErrorIs(t, err, storage.ErrInvalidArtifactName, "name %q", name)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		loc, err := store.WriteArtifact(ctx, "failed_batch_9.txt", nil)
		require.NoError(t, err)
		info, err := os.Stat(loc)
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	})
}

func TestCancelledContext(t *testing.T) {
	store, dir := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.LoadRecords(ctx, filepath.Join(dir, "x.json"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = store.WriteArtifact(ctx, "failed_batch_1.txt", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteReport(t *testing.T) {
	store, dir := newTestStore(t)
	path := filepath.Join(dir, "reports", "summary.json")

	report := []map[string]any{{"file": "stix_output_001.json", "is_valid": true}}
	require.NoError(t, store.WriteReport(context.Background(), path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"file": "stix_output_001.json", "is_valid": true}]`, string(data))

	err = store.WriteReport(context.Background(), filepath.Join(dir, "bad.json"), func() {})
	assert.ErrorIs(t, err, storage.ErrOutputUnwritable)
	assert.NoFileExists(t, filepath.Join(dir, "bad.json"))
}
