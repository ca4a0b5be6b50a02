package config

import "time"

// ServerConfig is the root configuration for shardkv-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server" yaml:"server"`
	Store  StoreSection  `koanf:"store" yaml:"store"`
	Limits LimitsSection `koanf:"limits" yaml:"limits"`
	Log    LogSection    `koanf:"log" yaml:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP  HTTPConfig  `koanf:"http" yaml:"http"`
	Redis RedisConfig `koanf:"redis" yaml:"redis"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr         string        `koanf:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" yaml:"idle_timeout"`

	// RateLimit is the per-client request rate in requests per second.
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit" yaml:"rate_limit"`

	// TrustedProxies lists CIDR prefixes or addresses whose
	// X-Forwarded-For and X-Real-IP headers identify the client. Requests
	// from any other peer are keyed on the peer address.
	TrustedProxies []string `koanf:"trusted_proxies" yaml:"trusted_proxies"`
}

// RedisConfig configures the RESP protocol server.
type RedisConfig struct {
	Enabled   bool   `koanf:"enabled" yaml:"enabled"`
	Addr      string `koanf:"addr" yaml:"addr"`
	RateLimit int    `koanf:"rate_limit" yaml:"rate_limit"`
}

// StoreSection configures the sharded map. Both values are fixed for the
// life of the process.
type StoreSection struct {
	ShardCount int    `koanf:"shard_count" yaml:"shard_count"`
	Hash       string `koanf:"hash" yaml:"hash"`
}

// LimitsSection bounds request sizes. Zero disables a check.
type LimitsSection struct {
	MaxKeyBytes   int `koanf:"max_key_bytes" yaml:"max_key_bytes"`
	MaxValueBytes int `koanf:"max_value_bytes" yaml:"max_value_bytes"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}
