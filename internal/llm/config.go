package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds LLM provider configuration.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter" or "mock".
	Provider string `env:"HOMEROOM_LLM_PROVIDER" envDefault:"openai"`

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single request including retries.
	Timeout time.Duration `env:"HOMEROOM_LLM_TIMEOUT" envDefault:"30s"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `env:"HOMEROOM_ANTHROPIC_API_KEY"`
	Model  string `env:"HOMEROOM_ANTHROPIC_MODEL" envDefault:"claude-haiku"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `env:"HOMEROOM_OPENAI_API_KEY"`
	Model   string `env:"HOMEROOM_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"HOMEROOM_OPENAI_BASE_URL"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `env:"HOMEROOM_GEMINI_API_KEY"`
	Model  string `env:"HOMEROOM_GEMINI_MODEL" envDefault:"gemini-flash"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `env:"HOMEROOM_OPENROUTER_API_KEY"`
	Model   string `env:"HOMEROOM_OPENROUTER_MODEL" envDefault:"google/gemini-2.0-flash-001"`
	BaseURL string `env:"HOMEROOM_OPENROUTER_BASE_URL"`
}

// RetryConfig configures retries of transient failures.
type RetryConfig struct {
	MaxAttempts int           `env:"HOMEROOM_LLM_RETRY_ATTEMPTS" envDefault:"3"`
	InitialWait time.Duration `env:"HOMEROOM_LLM_RETRY_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"HOMEROOM_LLM_RETRY_MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"HOMEROOM_LLM_RETRY_MULTIPLIER" envDefault:"2"`
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv reads HOMEROOM_* variables over the defaults. When
// HOMEROOM_LLM_PROVIDER is unset and the default provider has no key, the
// vendors' standard key variables are checked instead.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse LLM env: %w", err)
	}
	if os.Getenv("HOMEROOM_LLM_PROVIDER") == "" && cfg.Validate() != nil {
		if found, ok := discover(cfg); ok {
			return found, nil
		}
	}
	return cfg, nil
}

// discover picks the first provider whose vendor key variable is set,
// in the order Gemini, OpenAI, Anthropic, OpenRouter.
func discover(cfg Config) (Config, bool) {
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}
	return cfg, false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("HOMEROOM_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("HOMEROOM_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("HOMEROOM_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("HOMEROOM_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("HOMEROOM_LLM_RETRY_ATTEMPTS must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
