package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/core/service"
	"github.com/yndnr/shardkv-go/internal/infra/buildinfo"
	"github.com/yndnr/shardkv-go/internal/infra/confloader"
	"github.com/yndnr/shardkv-go/internal/infra/shutdown"
	"github.com/yndnr/shardkv-go/internal/server/config"
	"github.com/yndnr/shardkv-go/internal/server/httpserver"
	"github.com/yndnr/shardkv-go/internal/server/redisserver"
	"github.com/yndnr/shardkv-go/internal/storage/memory"
	"github.com/yndnr/shardkv-go/internal/telemetry/logger"
	"github.com/yndnr/shardkv-go/internal/telemetry/metric"
)

const (
	shutdownTimeout = 30 * time.Second

	// limiterSweepInterval is how often idle rate-limit buckets are dropped.
	limiterSweepInterval = time.Minute
)

// loadConfig layers defaults, the optional file, SHARDKV_ environment
// variables and command-line overrides, then validates the result. The
// loader is returned so callers can report where each value came from.
func loadConfig(o options) (*config.ServerConfig, *confloader.Loader, error) {
	loaderOpts := []confloader.Option{confloader.WithDefaults(config.DefaultMap())}
	if o.ConfigFile != "" {
		loaderOpts = append(loaderOpts, confloader.WithConfigFile(o.ConfigFile))
	}
	loader := confloader.NewLoader(loaderOpts...)

	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, nil, err
	}
	if len(o.Overrides) > 0 {
		if err := loader.LoadMap(o.Overrides); err != nil {
			return nil, nil, fmt.Errorf("load flags: %w", err)
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if err := config.Verify(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, loader, nil
}

func serve(c *cli.Context) error {
	opts := optionsFromContext(c)
	cfg, loader, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lc := config.ToLoggerConfig(cfg)
	lc.Output = os.Stdout
	log, err := logger.New(lc)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	slogLogger := logger.Slog(log)

	info := buildinfo.Get()
	log.Info("starting shardkv-server",
		append([]any{"version", info.Version, "commit", info.Commit, "config", opts.ConfigFile}, config.Summary(cfg)...)...)
	log.Debug("configuration sources", "keys_by_source", loader.SourceCounts())

	store, err := memory.New(config.ToStoreConfig(cfg))
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewShardCollector(store))

	kv := service.NewKVService(store,
		service.WithLimits(config.ToLimits(cfg)),
		service.WithRecorder(metrics))

	trusted, err := httpserver.ParseTrustedProxies(cfg.Server.HTTP.TrustedProxies)
	if err != nil {
		return fmt.Errorf("server.http.trusted_proxies: %w", err)
	}
	httpLimiters := service.NewRateLimiterRegistry(cfg.Server.HTTP.RateLimit)
	redisLimiters := service.NewRateLimiterRegistry(cfg.Server.Redis.RateLimit)

	sd := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(slogLogger))

	// abort unwinds whatever started before a later component failed.
	abort := func(err error) error {
		if runErr := sd.Run(); runErr != nil {
			log.Error("cleanup after startup failure", "error", runErr)
		}
		return err
	}

	// Hooks run in reverse order: readiness drops first, the limiter
	// sweepers stop last.
	sweepCtx, stopSweepers := context.WithCancel(context.Background())
	sd.OnShutdown("rate-limit-sweepers", func(context.Context) error {
		stopSweepers()
		return nil
	})
	go httpLimiters.RunSweeper(sweepCtx, limiterSweepInterval)
	go redisLimiters.RunSweeper(sweepCtx, limiterSweepInterval)

	if opts.ConfigFile != "" {
		watcher, err := watchConfig(opts, cfg, slogLogger)
		if err != nil {
			log.Warn("config reload disabled", "error", err)
		} else {
			sd.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	if cfg.Server.Redis.Enabled {
		redisSrv := redisserver.New(redisserver.Config{
			Addr:        cfg.Server.Redis.Addr,
			IdleTimeout: cfg.Server.HTTP.IdleTimeout,
			MaxBulkLen:  max(cfg.Limits.MaxValueBytes, cfg.Limits.MaxKeyBytes),
		}, kv, redisLimiters, slogLogger)
		if err := redisSrv.Listen(); err != nil {
			return abort(err)
		}
		sd.OnShutdown("redis-server", redisSrv.Shutdown)
		go func() {
			if err := redisSrv.Serve(context.Background()); err != nil {
				log.Error("redis server error", "error", err)
				sd.Trigger("redis server failed")
			}
		}()
	}

	var ready atomic.Bool
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		KV:             kv,
		Logger:         slogLogger,
		Recorder:       metrics,
		MetricsHandler: metrics.Handler(),
		RateLimiters:   httpLimiters,
		ClientIP:       httpserver.NewClientIPResolver(trusted),
		Ready:          ready.Load,
	})
	httpSrv := httpserver.New(httpserver.Config{
		Addr:         cfg.Server.HTTP.Addr,
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}, router)
	if err := httpSrv.Listen(); err != nil {
		return abort(err)
	}
	sd.OnShutdown("http-server", httpSrv.Shutdown)
	go func() {
		log.Info("HTTP server listening", "addr", httpSrv.Addr())
		if err := httpSrv.Serve(); err != nil {
			log.Error("HTTP server error", "error", err)
			sd.Trigger("http server failed")
		}
	}()

	sd.OnShutdown("readiness", func(context.Context) error {
		ready.Store(false)
		return nil
	})
	ready.Store(true)

	log.Info("server started, press Ctrl+C to stop")
	if err := sd.Wait(c.Context); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully", "entries", kv.Len())
	return nil
}

// watchConfig reloads the configuration file on change. Only log.level
// is applied live; other changes are reported and wait for a restart.
func watchConfig(opts options, running *config.ServerConfig, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(opts.ConfigFile); err != nil {
		_ = w.Stop()
		return nil, err
	}

	var mu sync.Mutex
	current := *running
	w.OnChange(func(path string) {
		reloaded, _, err := loadConfig(opts)
		if err != nil {
			log.Error("config reload rejected", "path", path, "error", err)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		applyReload(&current, reloaded, log)
	})
	w.StartAsync()
	return w, nil
}

// applyReload applies the live-reloadable parts of reloaded and records
// them in running.
func applyReload(running, reloaded *config.ServerConfig, log *slog.Logger) config.ReloadDiff {
	diff := config.Diff(running, reloaded)
	if diff.LogLevelChanged {
		logger.SetLevel(reloaded.Log.Level)
		log.Info("log level changed", "from", running.Log.Level, "to", reloaded.Log.Level)
		running.Log.Level = reloaded.Log.Level
	}
	if len(diff.Fixed) > 0 {
		log.Warn("config changes require a restart", "keys", diff.Fixed)
	}
	return diff
}
