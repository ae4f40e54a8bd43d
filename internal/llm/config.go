package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config selects and configures one provider.
type Config struct {
	Provider string
	APIKey   string
	// Model is a friendly alias (see the per-provider tables) or a raw
	// model ID. Empty selects the provider default.
	Model string
	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
	ProviderGemini:     "gemini-flash",
	ProviderMock:       "mock",
}

// apiKeyEnv names the standard variable each provider's key is read from
// when SCOREKIT_LLM_API_KEY is unset.
var apiKeyEnv = map[string]string{
	ProviderAnthropic:  "ANTHROPIC_API_KEY",
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderOpenRouter: "OPENROUTER_API_KEY",
	ProviderGemini:     "GEMINI_API_KEY",
}

// DefaultConfig returns the mock provider with standard retry settings.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderMock,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv reads SCOREKIT_LLM_* variables. When no provider is named it
// falls back to the first standard API key found, in DiscoverConfig order.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	p := os.Getenv("SCOREKIT_LLM_PROVIDER")
	if p == "" {
		if found, ok := DiscoverConfig(); ok {
			cfg = found
		}
	} else {
		cfg.Provider = p
		cfg.APIKey = os.Getenv(apiKeyEnv[p])
	}

	if k := os.Getenv("SCOREKIT_LLM_API_KEY"); k != "" {
		cfg.APIKey = k
	}
	if m := os.Getenv("SCOREKIT_LLM_MODEL"); m != "" {
		cfg.Model = m
	}
	if u := os.Getenv("SCOREKIT_LLM_BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
	if v := os.Getenv("SCOREKIT_LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SCOREKIT_LLM_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// DiscoverConfig probes the standard API key variables in the order Gemini,
// OpenAI, Anthropic, OpenRouter and returns a Config for the first one set.
func DiscoverConfig() (Config, bool) {
	for _, p := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter} {
		if k := os.Getenv(apiKeyEnv[p]); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = p
			cfg.APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// ModelOrDefault returns the configured model or the provider default.
func (c Config) ModelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Provider]
}

// Validate checks the provider name and that it has an API key.
func (c Config) Validate() error {
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Provider != ProviderMock && c.APIKey == "" {
		return fmt.Errorf("an API key is required for the %s provider (set SCOREKIT_LLM_API_KEY or %s)",
			c.Provider, apiKeyEnv[c.Provider])
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
