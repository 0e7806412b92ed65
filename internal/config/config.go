// Package config loads eduquiz settings from a YAML file, an optional .env
// file and EDUQUIZ_* environment variables, in that order of precedence
// (env wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/eduquiz/internal/llm"
)

// Config is the top-level application configuration.
type Config struct {
	// UserID namespaces every persisted key.
	UserID  string        `yaml:"user"`
	LogMode string        `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	LLM     LLMConfig     `yaml:"llm"`
	Quiz    QuizConfig    `yaml:"quiz"`
	Extract ExtractConfig `yaml:"extract"`
	Trace   TraceConfig   `yaml:"trace"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	// Backend is "sqlite", "redis" or "memory".
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
	TTL      string `yaml:"ttl"`
}

// LLMConfig overrides the provider selection made from the environment.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// QuizConfig holds defaults for new quizzes.
type QuizConfig struct {
	Grade      string   `yaml:"grade"`
	Subject    string   `yaml:"subject"`
	Difficulty string   `yaml:"difficulty"`
	Count      int      `yaml:"count"`
	Types      []string `yaml:"types"`
}

// ExtractConfig tunes the PDF/OCR pipeline.
type ExtractConfig struct {
	OCRLang  string `yaml:"ocr_lang"`
	OCRPages int    `yaml:"ocr_pages"`
	MaxChars int    `yaml:"max_chars"`
	Timeout  string `yaml:"timeout"`
}

// TraceConfig enables OpenTelemetry export of LLM spans.
type TraceConfig struct {
	// Exporter is "", "stdout" or "otlp". Empty disables tracing.
	Exporter    string  `yaml:"exporter"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		UserID:  "local",
		LogMode: "quiet",
		Storage: StorageConfig{
			Backend: "sqlite",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "eduquiz:",
			},
		},
		Quiz: QuizConfig{
			Grade:      "6",
			Subject:    "math",
			Difficulty: "easy",
			Count:      5,
			Types:      []string{"mc"},
		},
		Extract: ExtractConfig{
			OCRLang:  "vie+eng",
			OCRPages: 3,
			MaxChars: 30000,
			Timeout:  "2m",
		},
		Trace: TraceConfig{SampleRatio: 1},
	}
}

// Load reads YAML config from path on top of the defaults. A missing file
// is not an error when path is the default location.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath resolves $XDG_CONFIG_HOME/eduquiz/config.yaml, falling back
// to ~/.config/eduquiz/config.yaml.
func DefaultPath() (string, error) {
	cfgHome := os.Getenv("XDG_CONFIG_HOME")
	if cfgHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		cfgHome = filepath.Join(home, ".config")
	}
	return filepath.Join(cfgHome, "eduquiz", "config.yaml"), nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Files
// that do not exist are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from EDUQUIZ_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("EDUQUIZ_USER"); v != "" {
		c.UserID = v
	}
	if v := os.Getenv("EDUQUIZ_LOG"); v != "" {
		c.LogMode = v
	}
	if v := os.Getenv("EDUQUIZ_STORE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("EDUQUIZ_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("EDUQUIZ_REDIS_ADDR"); v != "" {
		c.Storage.Redis.Addr = v
	}
	if v := os.Getenv("EDUQUIZ_REDIS_PASSWORD"); v != "" {
		c.Storage.Redis.Password = v
	}
	if v := os.Getenv("EDUQUIZ_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Storage.Redis.DB = n
		}
	}
	if v := os.Getenv("EDUQUIZ_OCR_LANG"); v != "" {
		c.Extract.OCRLang = v
	}
	if v := os.Getenv("EDUQUIZ_TRACE"); v != "" {
		c.Trace.Exporter = v
	}
	if v := os.Getenv("EDUQUIZ_OTLP_ENDPOINT"); v != "" {
		c.Trace.Endpoint = v
	}
}

// Validate checks enum fields and numeric bounds.
func (c Config) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	switch c.Storage.Backend {
	case "sqlite", "memory":
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}
	if c.Quiz.Count < 1 {
		return fmt.Errorf("quiz.count must be at least 1")
	}
	if c.Extract.MaxChars < 1 {
		return fmt.Errorf("extract.max_chars must be positive")
	}
	switch c.Trace.Exporter {
	case "", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown trace exporter: %q", c.Trace.Exporter)
	}
	if c.Trace.SampleRatio < 0 || c.Trace.SampleRatio > 1 {
		return fmt.Errorf("trace.sample_ratio must be within [0, 1]")
	}
	return nil
}

// ApplyTo layers the file-level LLM overrides onto an llm.Config built
// from the environment.
func (l LLMConfig) ApplyTo(cfg *llm.Config) {
	if l.Provider != "" {
		cfg.Provider = l.Provider
	}
	if l.Model != "" {
		switch cfg.Provider {
		case "anthropic":
			cfg.Anthropic.Model = l.Model
		case "openai":
			cfg.OpenAI.Model = l.Model
		case "gemini":
			cfg.Gemini.Model = l.Model
		case "openrouter":
			cfg.OpenRouter.Model = l.Model
		}
	}
	cfg.Timeout = Duration(l.Timeout, cfg.Timeout)
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
