package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/stixify/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// settingsFor runs the convert flag set over args and returns the merged settings.
func settingsFor(t *testing.T, profile *Profile, args ...string) (*convertSettings, error) {
	t.Helper()
	var settings *convertSettings
	var resolveErr error
	app := &cli.App{
		Name:  "stixify",
		Flags: convertFlags(),
		Action: func(c *cli.Context) error {
			settings, resolveErr = resolveConvertSettings(c, profile)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"stixify", "--input", "in.json"}, args...)))
	return settings, resolveErr
}

func TestLoadProfile(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		p, err := loadProfile("")
		require.NoError(t, err)
		assert.Equal(t, &Profile{}, p)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
provider: gemini
model: gemini-1.5-pro
batch_size: 10
runs: 5
delay: 3s
failure_dir: /tmp/failures
`), 0o644))

		p, err := loadProfile(path)
		require.NoError(t, err)
		assert.Equal(t, "gemini", p.Provider)
		assert.Equal(t, "gemini-1.5-pro", p.Model)
		assert.Equal(t, 10, p.BatchSize)
		assert.Equal(t, 5, p.Runs)
		assert.Equal(t, 3*time.Second, p.Delay)
		assert.Equal(t, "/tmp/failures", p.FailureDir)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("batch_size: [not an int"), 0o644))
		_, err := loadProfile(path)
		assert.Error(t, err)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	require.NoError(t, os.Unsetenv("GEMINI_API_KEY"))

	require.NoError(t, loadEnv(writeEnv(t, "GEMINI_API_KEY=from-file\n")))
	assert.Equal(t, "from-file", os.Getenv("GEMINI_API_KEY"))

	assert.Error(t, loadEnv(filepath.Join(t.TempDir(), "missing.env")), "explicit file must exist")

	t.Chdir(t.TempDir())
	assert.NoError(t, loadEnv(""), "default .env is optional")
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-env")

	assert.Equal(t, "explicit", resolveAPIKey(ai.ProviderOpenAI, "explicit"))
	assert.Equal(t, "sk-env", resolveAPIKey(ai.ProviderOpenAI, ""))
	assert.Equal(t, "google-env", resolveAPIKey(ai.ProviderGemini, ""), "falls back to GOOGLE_API_KEY")

	t.Setenv("GEMINI_API_KEY", "gemini-env")
	assert.Equal(t, "gemini-env", resolveAPIKey(ai.ProviderGemini, ""))
}

func TestResolveConvertSettings(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	t.Run("defaults", func(t *testing.T) {
		s, err := settingsFor(t, &Profile{})
		require.NoError(t, err)

		assert.Equal(t, ai.ProviderOpenAI, s.AI.Provider)
		assert.Equal(t, "sk-env", s.AI.APIKey)
		assert.Equal(t, "gpt-4o", s.AI.Model)
		assert.Equal(t, 25, s.BatchSize)
		assert.Equal(t, 1, s.Runs)
		assert.Equal(t, "stix_output.json", s.Output)
		assert.False(t, s.series())
	})

	t.Run("profile fills unset flags", func(t *testing.T) {
		s, err := settingsFor(t, &Profile{Provider: "local", BatchSize: 10, Runs: 3, Delay: 2 * time.Second})
		require.NoError(t, err)

		assert.Equal(t, ai.ProviderLocal, s.AI.Provider)
		assert.Equal(t, ai.DefaultLocalHost, s.AI.Host)
		assert.Equal(t, 10, s.BatchSize)
		assert.Equal(t, 3, s.Runs)
		assert.Equal(t, 2*time.Second, s.Delay)
		assert.True(t, s.series())
		assert.Equal(t, ".", s.OutputDir)
	})

	t.Run("flags override profile", func(t *testing.T) {
		s, err := settingsFor(t, &Profile{BatchSize: 10, Model: "gpt-4o-mini"}, "--batch-size", "50", "--model", "gpt-4.1")
		require.NoError(t, err)

		assert.Equal(t, 50, s.BatchSize)
		assert.Equal(t, "gpt-4.1", s.AI.Model)
	})

	t.Run("output dir selects series", func(t *testing.T) {
		s, err := settingsFor(t, &Profile{}, "--output-dir", "out")
		require.NoError(t, err)

		assert.True(t, s.series())
		assert.Equal(t, "out", s.OutputDir)
	})

	t.Run("zero runs", func(t *testing.T) {
		_, err := settingsFor(t, &Profile{}, "--runs", "0")
		assert.Error(t, err)
	})
}
