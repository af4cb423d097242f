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


package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Provider names a generation backend.
type Provider string

const (
	// ProviderOpenAI uses the OpenAI chat completions API with structured outputs.
	ProviderOpenAI Provider = "openai"

	// ProviderGemini uses the Google Generative Language API in JSON mode.
	ProviderGemini Provider = "gemini"

	// ProviderLocal uses an OpenAI-compatible server (Ollama, LocalAI, vLLM) in JSON-object mode.
	ProviderLocal Provider = "local"
)

// Providers lists the supported provider names in display order.
var Providers = []Provider{ProviderOpenAI, ProviderGemini, ProviderLocal}

// DefaultModels maps each provider to the model used when none is configured.
var DefaultModels = map[Provider]string{
	ProviderOpenAI: "gpt-4o",
	ProviderGemini: "gemini-2.0-flash",
	ProviderLocal:  "qwen2.5:3b",
}

// DefaultLocalHost is the OpenAI-compatible endpoint assumed for ProviderLocal.
const DefaultLocalHost = "http://localhost:11434/v1"

// ParseProvider converts a case-insensitive name into a Provider.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// Config holds configuration for a generation provider.
type Config struct {
	// Provider selects the generator implementation.
	// Default: ProviderLocal
	Provider Provider

	// APIKey is the credential for hosted providers.
	// Not required for ProviderLocal.
	APIKey string

	// Model is the model identifier sent to the provider.
	// Example: "gpt-4o", "gemini-2.0-flash", "qwen2.5:3b"
	// When empty, Normalize fills in DefaultModels[Provider].
	Model string

	// Host is the base URL of the API. Only meaningful for ProviderLocal and for
	// OpenAI-compatible proxies in front of ProviderOpenAI.
	// Example: "http://localhost:11434/v1"
	Host string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the provider.
func WithProvider(p Provider) ConfigOption {
	return func(c *Config) {
		c.Provider = p
	}
}

// WithAPIKey sets the provider credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithHost sets the API base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// DefaultConfig returns a Config for a local OpenAI-compatible server.
// Model and Host are left empty and filled in by Normalize, so switching the
// provider through an option also switches the default model.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderLocal,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithProvider(ProviderOpenAI),
//	    WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It lowercases the provider, fills a default model, and adds the /v1 suffix to
// the host if missing, which is required by most OpenAI-compatible APIs.
func (c *Config) Normalize() {
	c.Provider = Provider(strings.ToLower(strings.TrimSpace(string(c.Provider))))
	c.APIKey = strings.TrimSpace(c.APIKey)

	if c.Model == "" {
		c.Model = DefaultModels[c.Provider]
	}

	if c.Provider == ProviderLocal && c.Host == "" {
		c.Host = DefaultLocalHost
	}

	// Ensure Host ends with /v1 for OpenAI-compatible APIs
	if c.Host != "" && c.Provider != ProviderGemini && !strings.HasSuffix(c.Host, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Provider == "" {
		return errors.New("ai config: Provider is required")
	}
	if _, err := ParseProvider(string(c.Provider)); err != nil {
		return fmt.Errorf("ai config: %w", err)
	}
	if c.Provider != ProviderLocal && c.APIKey == "" {
		return fmt.Errorf("ai config: APIKey is required for provider %s", c.Provider)
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Provider == ProviderLocal && c.Host == "" {
		return errors.New("ai config: Host is required for provider local")
	}
	return nil
}
