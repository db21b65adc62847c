package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskdash/internal/config"
	"github.com/sandeepkv93/taskdash/internal/logging"
	"github.com/sandeepkv93/taskdash/internal/metrics"
	"github.com/sandeepkv93/taskdash/internal/storage"
	"github.com/sandeepkv93/taskdash/internal/store"
)

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg      config.RuntimeConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	repo     storage.Repository
	store    *store.Store
}

func (f *rootFlags) loadConfig() (config.RuntimeConfig, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: f.configFile, EnvFile: f.envFile})
	if err != nil {
		return config.RuntimeConfig{}, err
	}
	if f.user != "" {
		cfg.UserKey = f.user
	}
	return cfg, nil
}

// openApp loads config and opens the store. Interactive runs always log to
// the configured file because the dashboard owns the terminal.
func openApp(ctx context.Context, f *rootFlags, interactive bool) (*app, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}

	path, console := cfg.Log.Path, cfg.Log.Console
	if f.verbose && !interactive {
		path, console = "", true
	}
	logger, err := logging.New(cfg.Log.Level, path, console)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	repo, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	st, err := store.Open(ctx, repo, cfg.UserKey, store.WithLogger(logger), store.WithMetrics(m))
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	logger.Debug("app ready", zap.String("backend", cfg.Storage.Backend), zap.String("user", cfg.UserKey))
	return &app{cfg: cfg, logger: logger, registry: reg, metrics: m, repo: repo, store: st}, nil
}

// serveMetrics exposes the registry when an address is configured.
func (a *app) serveMetrics(ctx context.Context) {
	if a.cfg.Metrics.Addr == "" {
		return
	}
	go func() {
		if err := metrics.Serve(ctx, a.cfg.Metrics.Addr, a.registry, a.logger); err != nil {
			a.logger.Error("metrics endpoint stopped", zap.Error(err))
		}
	}()
}

func (a *app) Close() error {
	_ = a.logger.Sync()
	return a.repo.Close()
}
