package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/eduquiz/internal/config"
	"github.com/abhisek/eduquiz/internal/kv"
	"github.com/abhisek/eduquiz/internal/lessons"
	"github.com/abhisek/eduquiz/internal/llm"
	"github.com/abhisek/eduquiz/internal/logger"
	"github.com/abhisek/eduquiz/internal/observability"
	"github.com/abhisek/eduquiz/internal/quizgen"
	"github.com/abhisek/eduquiz/internal/store"
	"github.com/abhisek/eduquiz/internal/study"
)

// env is the wired application for one command invocation.
type env struct {
	cfg   config.Config
	log   *logger.Logger
	db    *store.Store
	kv    kv.Store
	study *study.Study

	// provider is nil unless the command asked for generation.
	provider llm.Provider
	closers  []func()
}

// openEnv loads configuration and opens storage. withLLM also builds the
// provider chain and the generators; commands that only read saved data
// leave it off so they work without API keys.
func openEnv(cmd *cobra.Command, withLLM bool) (*env, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	e := &env{cfg: cfg, log: log}
	e.onClose(log.Sync)

	if err := e.openStorage(ctx); err != nil {
		e.Close()
		return nil, err
	}

	deps := study.Deps{KV: e.kv, UserID: cfg.UserID, Log: log}
	if withLLM {
		if err := e.openLLM(ctx); err != nil {
			e.Close()
			return nil, err
		}
		deps.Generator = quizgen.New(e.provider, quizgen.DefaultConfig())
		deps.Tutor = lessons.NewService(e.provider, lessons.DefaultConfig())
	}

	e.study, err = study.New(ctx, deps)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.onClose(e.study.Wait)
	return e, nil
}

// openStorage opens the SQLite event log and the KV backend. The event
// log always lives in SQLite; the KV may be redis or memory instead.
func (e *env) openStorage(ctx context.Context) error {
	sc := e.cfg.Storage

	dsn := "file::memory:?cache=shared"
	if sc.Backend != "memory" {
		p, err := store.Path(sc.Path)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		dsn = p
	}
	db, err := store.Open(dsn)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	e.db = db
	e.onClose(func() { _ = db.Close() })

	switch sc.Backend {
	case "sqlite":
		e.kv = db.KV()
	case "memory":
		e.kv = kv.NewMemory()
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     sc.Redis.Addr,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("connect redis %s: %w", sc.Redis.Addr, err)
		}
		r := kv.NewRedis(client, sc.Redis.Prefix, config.Duration(sc.Redis.TTL, 0))
		e.kv = r
		e.onClose(func() { _ = r.Close() })
	}
	e.log.Debug("storage ready", "backend", sc.Backend, "db", dsn)
	return nil
}

func (e *env) openLLM(ctx context.Context) error {
	shutdown, err := observability.InitTracing(ctx, e.log, observability.TracingConfig{
		Exporter:    e.cfg.Trace.Exporter,
		Endpoint:    e.cfg.Trace.Endpoint,
		Insecure:    e.cfg.Trace.Insecure,
		SampleRatio: e.cfg.Trace.SampleRatio,
		Version:     buildVersion(),
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	e.onClose(func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			e.log.Warn("trace shutdown failed", "error", err)
		}
	})

	provider, _, err := llm.NewProviderFromEnv(ctx, e.db.EventRepo(), e.log, e.cfg.LLM.ApplyTo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Set EDUQUIZ_LLM_PROVIDER and the matching API key, e.g. EDUQUIZ_ANTHROPIC_API_KEY.")
		return errors.New("no LLM provider")
	}
	e.provider = provider
	return nil
}

func (e *env) onClose(fn func()) {
	e.closers = append(e.closers, fn)
}

// Close waits for background work and releases resources in reverse order
// of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}
