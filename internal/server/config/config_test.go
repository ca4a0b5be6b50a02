package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/shardkv-go/internal/infra/confloader"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.Server.HTTP.Addr, DefaultHTTPAddr)
	}
	if cfg.Server.Redis.Enabled {
		t.Error("Redis should be disabled by default")
	}
	if cfg.Store.ShardCount != 32 {
		t.Errorf("ShardCount = %d, want 32", cfg.Store.ShardCount)
	}
	if cfg.Store.Hash != "murmur3" {
		t.Errorf("Hash = %q, want murmur3", cfg.Store.Hash)
	}
	if cfg.Limits.MaxKeyBytes != 1024 || cfg.Limits.MaxValueBytes != 1<<20 {
		t.Errorf("Limits = %+v, want 1024 / 1MiB", cfg.Limits)
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) error = %v", err)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"valid", func(*ServerConfig) {}, ""},
		{"empty http addr", func(c *ServerConfig) { c.Server.HTTP.Addr = "" }, "server.http.addr is required"},
		{"bad http addr", func(c *ServerConfig) { c.Server.HTTP.Addr = "no-port" }, "server.http.addr"},
		{"negative timeout", func(c *ServerConfig) { c.Server.HTTP.ReadTimeout = -time.Second }, "timeouts"},
		{"redis addr conflict", func(c *ServerConfig) {
			c.Server.Redis.Enabled = true
			c.Server.Redis.Addr = c.Server.HTTP.Addr
		}, "conflicts"},
		{"disabled redis ignores addr", func(c *ServerConfig) { c.Server.Redis.Addr = "" }, ""},
		{"zero shards", func(c *ServerConfig) { c.Store.ShardCount = 0 }, "store.shard_count"},
		{"too many shards", func(c *ServerConfig) { c.Store.ShardCount = MaxShardCount + 1 }, "store.shard_count"},
		{"non power of two shards", func(c *ServerConfig) { c.Store.ShardCount = 24 }, ""},
		{"unknown hash", func(c *ServerConfig) { c.Store.Hash = "crc32" }, "store.hash"},
		{"negative key limit", func(c *ServerConfig) { c.Limits.MaxKeyBytes = -1 }, "limits.max_key_bytes"},
		{"unlimited values", func(c *ServerConfig) { c.Limits.MaxValueBytes = 0 }, ""},
		{"bad log level", func(c *ServerConfig) { c.Log.Level = "verbose" }, "log.level"},
		{"bad log format", func(c *ServerConfig) { c.Log.Format = "xml" }, "log.format"},
		{"trusted proxies", func(c *ServerConfig) { c.Server.HTTP.TrustedProxies = []string{"10.0.0.0/8", "::1"} }, ""},
		{"bad trusted proxy", func(c *ServerConfig) { c.Server.HTTP.TrustedProxies = []string{"proxy.local"} }, "server.http.trusted_proxies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Verify(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Verify() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Verify() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Store.ShardCount = 0
	cfg.Log.Level = "loud"

	err := Verify(cfg)
	if err == nil {
		t.Fatal("Verify() error = nil")
	}
	for _, want := range []string{"store.shard_count", "log.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Verify() error %q missing %q", err, want)
		}
	}
}

func TestLoad_FileAndEnvOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shardkv.yaml")
	content := `
server:
  http:
    addr: "0.0.0.0:9090"
    read_timeout: 3s
store:
  shard_count: 64
  hash: xxhash
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("SHARDKV_LIMITS_MAX_VALUE_BYTES", "2048")
	t.Setenv("SHARDKV_SERVER_REDIS_ENABLED", "true")
	t.Setenv("SHARDKV_SERVER_HTTP_TRUSTED_PROXIES", "10.0.0.0/8,192.168.0.1")

	cfg := Default()
	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithDefaults(DefaultMap()),
	)
	if err := loader.Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTP.Addr != "0.0.0.0:9090" {
		t.Errorf("HTTP.Addr = %q", cfg.Server.HTTP.Addr)
	}
	if cfg.Server.HTTP.ReadTimeout != 3*time.Second {
		t.Errorf("ReadTimeout = %v, want 3s", cfg.Server.HTTP.ReadTimeout)
	}
	if cfg.Server.HTTP.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want default", cfg.Server.HTTP.WriteTimeout)
	}
	if cfg.Store.ShardCount != 64 || cfg.Store.Hash != "xxhash" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Limits.MaxValueBytes != 2048 {
		t.Errorf("MaxValueBytes = %d, want 2048", cfg.Limits.MaxValueBytes)
	}
	if cfg.Limits.MaxKeyBytes != 1024 {
		t.Errorf("MaxKeyBytes = %d, want default 1024", cfg.Limits.MaxKeyBytes)
	}
	if !cfg.Server.Redis.Enabled {
		t.Error("Redis.Enabled = false, want true from env")
	}
	if want := []string{"10.0.0.0/8", "192.168.0.1"}; !slices.Equal(cfg.Server.HTTP.TrustedProxies, want) {
		t.Errorf("TrustedProxies = %q, want %q", cfg.Server.HTTP.TrustedProxies, want)
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestConvert(t *testing.T) {
	cfg := Default()
	cfg.Store.ShardCount = 8
	cfg.Log.Level = "debug"

	if sc := ToStoreConfig(cfg); sc.ShardCount != 8 || sc.Hash != "murmur3" {
		t.Errorf("ToStoreConfig() = %+v", sc)
	}
	if l := ToLimits(cfg); l.MaxKeyBytes != 1024 {
		t.Errorf("ToLimits() = %+v", l)
	}
	if lc := ToLoggerConfig(cfg); lc.Level != "debug" || lc.Format != "json" || lc.Output == nil {
		t.Errorf("ToLoggerConfig() = %+v", lc)
	}
	if s := Summary(cfg); len(s)%2 != 0 {
		t.Errorf("Summary() has odd length %d", len(s))
	}
}

func TestDiff(t *testing.T) {
	running := Default()

	reloaded := Default()
	reloaded.Log.Level = "debug"
	d := Diff(running, reloaded)
	if !d.LogLevelChanged || len(d.Fixed) != 0 {
		t.Errorf("Diff() = %+v, want level change only", d)
	}

	reloaded = Default()
	reloaded.Store.ShardCount = 64
	reloaded.Server.Redis.Enabled = true
	d = Diff(running, reloaded)
	if d.LogLevelChanged {
		t.Error("LogLevelChanged = true, want false")
	}
	if !slices.Contains(d.Fixed, "store.shard_count") || !slices.Contains(d.Fixed, "server.redis") {
		t.Errorf("Fixed = %v", d.Fixed)
	}

	reloaded = Default()
	reloaded.Server.HTTP.TrustedProxies = []string{"10.0.0.0/8"}
	if d = Diff(running, reloaded); !slices.Equal(d.Fixed, []string{"server.http.trusted_proxies"}) {
		t.Errorf("Fixed = %v, want trusted_proxies only", d.Fixed)
	}
}
