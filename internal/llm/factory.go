package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/eduquiz/internal/logger"
	"github.com/abhisek/eduquiz/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with tracing, retry and logging middleware.
// A nil eventRepo skips request logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	if log == nil {
		log = logger.Nop()
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → tracing → retry → logging → base
	p := base
	if eventRepo != nil {
		p = WithLogging(p, eventRepo, log)
	}
	p = WithRetry(p, cfg.Retry)
	p = WithTracing(p)

	return p, nil
}

// NewProviderFromEnv resolves configuration from EDUQUIZ_* variables,
// falling back to the vendor key variables when no provider was chosen.
// overrides run on the resolved config before validation.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, log *logger.Logger, overrides ...func(*Config)) (Provider, Config, error) {
	cfg := ConfigFromEnv()
	if cfg.Validate() != nil {
		if discovered, ok := DiscoverConfig(); ok {
			discovered.Timeout = cfg.Timeout
			cfg = discovered
		}
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cfg, err
	}
	p, err := NewProvider(ctx, cfg, eventRepo, log)
	return p, cfg, err
}
