package config

import (
	"slices"

	"github.com/yndnr/shardkv-go/internal/core/domain"
	"github.com/yndnr/shardkv-go/internal/storage/memory"
	"github.com/yndnr/shardkv-go/internal/telemetry/logger"
)

// ToStoreConfig converts the store section to memory.Config.
func ToStoreConfig(cfg *ServerConfig) memory.Config {
	return memory.Config{
		ShardCount: cfg.Store.ShardCount,
		Hash:       cfg.Store.Hash,
	}
}

// ToLimits converts the limits section to domain.Limits.
func ToLimits(cfg *ServerConfig) domain.Limits {
	return domain.Limits{
		MaxKeyBytes:   cfg.Limits.MaxKeyBytes,
		MaxValueBytes: cfg.Limits.MaxValueBytes,
	}
}

// ToLoggerConfig converts the log section to logger.Config.
func ToLoggerConfig(cfg *ServerConfig) logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = cfg.Log.Level
	lc.Format = cfg.Log.Format
	return lc
}

// Summary returns the effective settings as slog key/value pairs for the
// startup log line.
func Summary(cfg *ServerConfig) []any {
	return []any{
		"http_addr", cfg.Server.HTTP.Addr,
		"trusted_proxies", len(cfg.Server.HTTP.TrustedProxies),
		"redis_enabled", cfg.Server.Redis.Enabled,
		"redis_addr", cfg.Server.Redis.Addr,
		"shard_count", cfg.Store.ShardCount,
		"hash", cfg.Store.Hash,
		"max_key_bytes", cfg.Limits.MaxKeyBytes,
		"max_value_bytes", cfg.Limits.MaxValueBytes,
		"log_level", cfg.Log.Level,
	}
}

// ReloadDiff describes what changed between two loaded configurations.
type ReloadDiff struct {
	LogLevelChanged bool

	// Fixed lists keys that changed on disk but only take effect on restart.
	Fixed []string
}

// Diff compares a reloaded configuration against the running one.
func Diff(running, reloaded *ServerConfig) ReloadDiff {
	var d ReloadDiff
	d.LogLevelChanged = running.Log.Level != reloaded.Log.Level

	if running.Store.ShardCount != reloaded.Store.ShardCount {
		d.Fixed = append(d.Fixed, "store.shard_count")
	}
	if running.Store.Hash != reloaded.Store.Hash {
		d.Fixed = append(d.Fixed, "store.hash")
	}
	if running.Server.HTTP.Addr != reloaded.Server.HTTP.Addr {
		d.Fixed = append(d.Fixed, "server.http.addr")
	}
	if running.Server.HTTP.RateLimit != reloaded.Server.HTTP.RateLimit {
		d.Fixed = append(d.Fixed, "server.http.rate_limit")
	}
	if !slices.Equal(running.Server.HTTP.TrustedProxies, reloaded.Server.HTTP.TrustedProxies) {
		d.Fixed = append(d.Fixed, "server.http.trusted_proxies")
	}
	if running.Server.Redis != reloaded.Server.Redis {
		d.Fixed = append(d.Fixed, "server.redis")
	}
	if running.Limits != reloaded.Limits {
		d.Fixed = append(d.Fixed, "limits")
	}
	if running.Log.Format != reloaded.Log.Format {
		d.Fixed = append(d.Fixed, "log.format")
	}
	return d
}
