package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/yndnr/shardkv-go/internal/server/httpserver"
	"github.com/yndnr/shardkv-go/internal/telemetry/logger"
	"github.com/yndnr/shardkv-go/pkg/cmap"
)

// MaxShardCount bounds store.shard_count.
const MaxShardCount = 1 << 16

// Verify validates the configuration and reports every problem found.
func Verify(cfg *ServerConfig) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	return errors.Join(
		verifyServer(&cfg.Server),
		verifyStore(&cfg.Store),
		verifyLimits(&cfg.Limits),
		verifyLog(&cfg.Log),
	)
}

func verifyServer(cfg *ServerSection) error {
	var errs []error
	if err := verifyAddr("server.http.addr", cfg.HTTP.Addr); err != nil {
		errs = append(errs, err)
	}
	if cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.WriteTimeout < 0 || cfg.HTTP.IdleTimeout < 0 {
		errs = append(errs, errors.New("server.http timeouts must not be negative"))
	}
	if cfg.HTTP.RateLimit < 0 {
		errs = append(errs, errors.New("server.http.rate_limit must not be negative"))
	}
	if _, err := httpserver.ParseTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("server.http.trusted_proxies: %w", err))
	}

	if cfg.Redis.Enabled {
		if err := verifyAddr("server.redis.addr", cfg.Redis.Addr); err != nil {
			errs = append(errs, err)
		}
		if cfg.Redis.Addr == cfg.HTTP.Addr {
			errs = append(errs, fmt.Errorf("server.redis.addr conflicts with server.http.addr (%s)", cfg.HTTP.Addr))
		}
	}
	if cfg.Redis.RateLimit < 0 {
		errs = append(errs, errors.New("server.redis.rate_limit must not be negative"))
	}
	return errors.Join(errs...)
}

func verifyAddr(name, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", name)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func verifyStore(cfg *StoreSection) error {
	var errs []error
	if cfg.ShardCount < 1 || cfg.ShardCount > MaxShardCount {
		errs = append(errs, fmt.Errorf("store.shard_count must be between 1 and %d, got %d", MaxShardCount, cfg.ShardCount))
	}
	if _, err := cmap.HasherByName(cfg.Hash); err != nil {
		errs = append(errs, fmt.Errorf("store.hash: %w", err))
	}
	return errors.Join(errs...)
}

func verifyLimits(cfg *LimitsSection) error {
	var errs []error
	if cfg.MaxKeyBytes < 0 {
		errs = append(errs, errors.New("limits.max_key_bytes must not be negative"))
	}
	if cfg.MaxValueBytes < 0 {
		errs = append(errs, errors.New("limits.max_value_bytes must not be negative"))
	}
	return errors.Join(errs...)
}

func verifyLog(cfg *LogSection) error {
	var errs []error
	if !logger.ValidLevel(cfg.Level) {
		errs = append(errs, fmt.Errorf("log.level: unsupported level %q", cfg.Level))
	}
	if !logger.ValidFormat(cfg.Format) {
		errs = append(errs, fmt.Errorf("log.format: unsupported format %q", cfg.Format))
	}
	return errors.Join(errs...)
}
