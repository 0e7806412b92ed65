package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single logical LLM request including retries.
	// Default: 60s; learning kits are large responses.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenRouter or compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// envOverrides pairs each EDUQUIZ_* variable with the field it sets.
func (c *Config) envOverrides() []struct {
	name  string
	field *string
} {
	return []struct {
		name  string
		field *string
	}{
		{"EDUQUIZ_LLM_PROVIDER", &c.Provider},
		{"EDUQUIZ_ANTHROPIC_API_KEY", &c.Anthropic.APIKey},
		{"EDUQUIZ_ANTHROPIC_MODEL", &c.Anthropic.Model},
		{"EDUQUIZ_OPENAI_API_KEY", &c.OpenAI.APIKey},
		{"EDUQUIZ_OPENAI_MODEL", &c.OpenAI.Model},
		{"EDUQUIZ_OPENAI_BASE_URL", &c.OpenAI.BaseURL},
		{"EDUQUIZ_GEMINI_API_KEY", &c.Gemini.APIKey},
		{"EDUQUIZ_GEMINI_MODEL", &c.Gemini.Model},
		{"EDUQUIZ_OPENROUTER_API_KEY", &c.OpenRouter.APIKey},
		{"EDUQUIZ_OPENROUTER_MODEL", &c.OpenRouter.Model},
		{"EDUQUIZ_OPENROUTER_BASE_URL", &c.OpenRouter.BaseURL},
	}
}

// ConfigFromEnv builds a Config from EDUQUIZ_* variables on top of the
// defaults. A malformed EDUQUIZ_LLM_TIMEOUT is ignored.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, o := range cfg.envOverrides() {
		if v := os.Getenv(o.name); v != "" {
			*o.field = v
		}
	}
	if t := os.Getenv("EDUQUIZ_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// vendorKeys lists the vendors' own key variables in discovery order.
var vendorKeys = []struct {
	env      string
	provider string
	key      func(*Config) *string
}{
	{"GEMINI_API_KEY", "gemini", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"OPENAI_API_KEY", "openai", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"ANTHROPIC_API_KEY", "anthropic", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"OPENROUTER_API_KEY", "openrouter", func(c *Config) *string { return &c.OpenRouter.APIKey }},
}

// DiscoverConfig returns a Config for the first vendor key variable that
// is set, trying Gemini, OpenAI, Anthropic, then OpenRouter. It returns
// (Config{}, false) if none is.
func DiscoverConfig() (Config, bool) {
	for _, v := range vendorKeys {
		if k := os.Getenv(v.env); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = v.provider
			*v.key(&cfg) = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "anthropic":
		key = c.Anthropic.APIKey
	case "openai":
		key = c.OpenAI.APIKey
	case "gemini":
		key = c.Gemini.APIKey
	case "openrouter":
		key = c.OpenRouter.APIKey
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("EDUQUIZ_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
