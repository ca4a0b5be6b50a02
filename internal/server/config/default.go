package config

import (
	"time"

	"github.com/yndnr/shardkv-go/internal/core/domain"
	"github.com/yndnr/shardkv-go/pkg/cmap"
)

// Default configuration values.
const (
	DefaultHTTPAddr     = "127.0.0.1:8080"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultIdleTimeout  = 60 * time.Second

	DefaultRedisAddr = "127.0.0.1:6379"

	DefaultShardCount = cmap.DefaultShardCount
	DefaultHash       = cmap.DefaultHash

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:         DefaultHTTPAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
			},
			Redis: RedisConfig{
				Enabled: false,
				Addr:    DefaultRedisAddr,
			},
		},
		Store: StoreSection{
			ShardCount: DefaultShardCount,
			Hash:       DefaultHash,
		},
		Limits: LimitsSection{
			MaxKeyBytes:   domain.DefaultMaxKeyBytes,
			MaxValueBytes: domain.DefaultMaxValueBytes,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultMap returns the defaults as a nested map for the loader's lowest
// layer. Every configurable key appears here, which is what lets
// SHARDKV_* variables resolve to keys containing underscores.
func DefaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"server": map[string]any{
			"http": map[string]any{
				"addr":          d.Server.HTTP.Addr,
				"read_timeout":  d.Server.HTTP.ReadTimeout.String(),
				"write_timeout": d.Server.HTTP.WriteTimeout.String(),
				"idle_timeout":  d.Server.HTTP.IdleTimeout.String(),
				"rate_limit":    d.Server.HTTP.RateLimit,
				// A list value, so env settings split on commas.
				"trusted_proxies": []string{},
			},
			"redis": map[string]any{
				"enabled":    d.Server.Redis.Enabled,
				"addr":       d.Server.Redis.Addr,
				"rate_limit": d.Server.Redis.RateLimit,
			},
		},
		"store": map[string]any{
			"shard_count": d.Store.ShardCount,
			"hash":        d.Store.Hash,
		},
		"limits": map[string]any{
			"max_key_bytes":   d.Limits.MaxKeyBytes,
			"max_value_bytes": d.Limits.MaxValueBytes,
		},
		"log": map[string]any{
			"level":  d.Log.Level,
			"format": d.Log.Format,
		},
	}
}
