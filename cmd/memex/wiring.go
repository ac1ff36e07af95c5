package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/memexlabs/memex/assistant"
	"github.com/memexlabs/memex/backend"
	"github.com/memexlabs/memex/capture"
	"github.com/memexlabs/memex/db"
	"github.com/memexlabs/memex/enrich"
	"github.com/memexlabs/memex/kv"
	"github.com/memexlabs/memex/llm"
	"github.com/memexlabs/memex/providers/openai"
	"github.com/memexlabs/memex/secrets"
	"github.com/memexlabs/memex/store"
	"github.com/memexlabs/memex/tools/builtin"
)

// app bundles everything a command needs. Commands build only the parts
// they use; a plain "items" listing never touches the network or the
// completion endpoint.
type app struct {
	Store    *store.Store
	Backend  backend.Service
	Dispatch *backend.Dispatcher
}

func openStore(ctx context.Context) (*store.Store, error) {
	persist, err := persistenceFromViper(ctx)
	if err != nil {
		return nil, err
	}
	st := store.New(persist, store.WithLogger(slog.Default()))
	st.Load(ctx)
	return st, nil
}

func persistenceFromViper(ctx context.Context) (kv.Store, error) {
	driver := strings.ToLower(strings.TrimSpace(viper.GetString("storage.driver")))
	switch driver {
	case "", "sqlite":
		gdb, err := db.Open(ctx, dbConfigFromViper())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.AutoMigrate(gdb); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		return kv.NewGormStore(gdb), nil
	case "file":
		fs := kv.NewFileStore(viper.GetString("storage.dir"))
		if err := fs.Ensure(); err != nil {
			return nil, fmt.Errorf("prepare storage dir: %w", err)
		}
		return fs, nil
	case "memory":
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func dbConfigFromViper() db.Config {
	cfg := db.DefaultConfig()

	if dsn := strings.TrimSpace(viper.GetString("db.dsn")); dsn != "" {
		cfg.DSN = dsn
	}
	cfg.SQLite.WAL = viper.GetBool("db.sqlite.wal")
	cfg.SQLite.BusyTimeoutMs = viper.GetInt("db.sqlite.busy_timeout_ms")
	cfg.SQLite.ForeignKeys = viper.GetBool("db.sqlite.foreign_keys")

	cfg.Pool.MaxOpenConns = viper.GetInt("db.pool.max_open_conns")
	cfg.Pool.MaxIdleConns = viper.GetInt("db.pool.max_idle_conns")
	cfg.Pool.ConnMaxLifetime = viper.GetDuration("db.pool.conn_max_lifetime")

	if cfg.Pool.MaxOpenConns <= 0 {
		cfg.Pool.MaxOpenConns = 1
	}
	if cfg.Pool.MaxIdleConns <= 0 {
		cfg.Pool.MaxIdleConns = 1
	}
	if cfg.SQLite.BusyTimeoutMs <= 0 {
		cfg.SQLite.BusyTimeoutMs = 5000
	}
	return cfg
}

func backendFromViper() backend.Service {
	endpoint := strings.TrimSpace(viper.GetString("backend.endpoint"))
	userID := strings.TrimSpace(viper.GetString("backend.user_id"))
	if endpoint == "" {
		return backend.NewNoop(userID)
	}
	token, err := secretResolver().Resolve(viper.GetString("backend.token"))
	if err != nil {
		slog.Warn("backend token unresolved, continuing unauthenticated", "error", err)
	}
	return backend.NewHTTPService(endpoint, token, userID)
}

func secretResolver() *secrets.Resolver {
	return &secrets.Resolver{
		Aliases: viper.GetStringMapString("secrets.aliases"),
	}
}

func dispatcherFromViper() *backend.Dispatcher {
	return backend.NewDispatcher(
		backend.WithDispatcherLogger(slog.Default()),
		backend.WithRetry(
			viper.GetInt("backend.retry.attempts"),
			viper.GetDuration("backend.retry.base_delay"),
		),
	)
}

func newApp(ctx context.Context) (*app, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	return &app{
		Store:    st,
		Backend:  backendFromViper(),
		Dispatch: dispatcherFromViper(),
	}, nil
}

func captureQueue(a *app) *capture.Queue {
	pipeline := enrich.New(enrich.WithLogger(slog.Default()))
	cfg := capture.Config{
		Workers:   viper.GetInt("capture.workers"),
		MaxQueue:  viper.GetInt("capture.max_queue"),
		Attempts:  viper.GetInt("capture.attempts"),
		BaseDelay: viper.GetDuration("capture.base_delay"),
	}
	return capture.New(a.Store, a.Backend, a.Dispatch, pipeline, cfg,
		capture.WithLogger(slog.Default()))
}

func llmClientFromViper() (llm.Client, error) {
	endpoint := strings.TrimSpace(viper.GetString("llm.endpoint"))
	apiKey, err := secretResolver().Resolve(viper.GetString("llm.api_key"))
	if err != nil {
		return nil, fmt.Errorf("resolve llm.api_key: %w", err)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("llm.api_key is not configured (set MEMEX_LLM_API_KEY or llm.api_key)")
	}
	return openai.New(endpoint, apiKey), nil
}

func assistantEngine(a *app, queue *capture.Queue) (*assistant.Engine, error) {
	client, err := llmClientFromViper()
	if err != nil {
		return nil, err
	}
	ts := builtin.ToolSet{Store: a.Store, Queue: queue}
	cfg := assistant.Config{
		Model:     strings.TrimSpace(viper.GetString("llm.model")),
		MaxRounds: viper.GetInt("assistant.max_rounds"),
	}
	return assistant.New(
		client,
		a.Store,
		builtin.NewStandardRegistry(ts),
		builtin.NewArchitectRegistry(ts),
		cfg,
		assistant.WithLogger(slog.Default()),
	), nil
}
