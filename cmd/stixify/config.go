package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/stixify/ai"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// defaultEnvFile is loaded when present and no --env-file is given.
const defaultEnvFile = ".env"

// apiKeyEnv lists the environment variables consulted for each provider's
// credential, in order.
var apiKeyEnv = map[ai.Provider][]string{
	ai.ProviderOpenAI: {"OPENAI_API_KEY"},
	ai.ProviderGemini: {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	ai.ProviderLocal:  {"LOCAL_API_KEY"},
}

// Profile holds convert defaults read from a YAML file. Command-line flags
// that are set explicitly take precedence.
type Profile struct {
	Provider       string        `yaml:"provider"`
	Model          string        `yaml:"model"`
	Host           string        `yaml:"host"`
	BatchSize      int           `yaml:"batch_size"`
	ReportInterval int           `yaml:"report_interval"`
	Runs           int           `yaml:"runs"`
	Delay          time.Duration `yaml:"delay"`
	FailureDir     string        `yaml:"failure_dir"`
	Journal        string        `yaml:"journal"`
}

// loadProfile reads a YAML profile. An empty path yields an empty profile.
func loadProfile(path string) (*Profile, error) {
	if path == "" {
		return &Profile{}, nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return &profile, nil
}

// loadEnv loads credentials from a .env file into the environment without
// overriding variables that are already set. An explicit path must exist; the
// default file is optional.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
		return nil
	}

	err := godotenv.Load(defaultEnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", defaultEnvFile, err)
	}
	if err != nil {
		slog.Debug("Skipping .env ...", "error", err)
	}
	return nil
}

// resolveAPIKey returns the explicit key if given, otherwise the first
// non-empty environment variable for the provider.
func resolveAPIKey(provider ai.Provider, explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range apiKeyEnv[provider] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// convertSettings is the merged view of flags and profile for one convert
// invocation.
type convertSettings struct {
	AI             *ai.Config
	Input          string
	Output         string
	OutputDir      string
	BatchSize      int
	ReportInterval int
	Runs           int
	Delay          time.Duration
	FailureDir     string
	Journal        string
}

// series reports whether output goes to numbered files in OutputDir.
func (s *convertSettings) series() bool {
	return s.Runs > 1 || s.OutputDir != ""
}

func stringSetting(c *cli.Context, name, profileValue string) string {
	if !c.IsSet(name) && profileValue != "" {
		return profileValue
	}
	return c.String(name)
}

func intSetting(c *cli.Context, name string, profileValue int) int {
	if !c.IsSet(name) && profileValue != 0 {
		return profileValue
	}
	return c.Int(name)
}

func durationSetting(c *cli.Context, name string, profileValue time.Duration) time.Duration {
	if !c.IsSet(name) && profileValue != 0 {
		return profileValue
	}
	return c.Duration(name)
}

// resolveConvertSettings merges flags over the profile and validates the
// provider configuration.
func resolveConvertSettings(c *cli.Context, profile *Profile) (*convertSettings, error) {
	provider, err := ai.ParseProvider(stringSetting(c, "provider", profile.Provider))
	if err != nil {
		return nil, err
	}

	aiConfig := ai.NewConfig(
		ai.WithProvider(provider),
		ai.WithAPIKey(resolveAPIKey(provider, c.String("api-key"))),
		ai.WithModel(stringSetting(c, "model", profile.Model)),
		ai.WithHost(stringSetting(c, "host", profile.Host)),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	s := &convertSettings{
		AI:             aiConfig,
		Input:          c.String("input"),
		Output:         c.String("output"),
		OutputDir:      c.String("output-dir"),
		BatchSize:      intSetting(c, "batch-size", profile.BatchSize),
		ReportInterval: intSetting(c, "report-interval", profile.ReportInterval),
		Runs:           intSetting(c, "runs", profile.Runs),
		Delay:          durationSetting(c, "delay", profile.Delay),
		FailureDir:     stringSetting(c, "failure-dir", profile.FailureDir),
		Journal:        stringSetting(c, "journal", profile.Journal),
	}
	if s.Runs <= 0 {
		return nil, fmt.Errorf("runs must be greater than 0")
	}
	if s.Runs > 1 && s.OutputDir == "" {
		s.OutputDir = "."
	}
	return s, nil
}
