package confloader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "SHARDKV_"

// Source names recorded for every key.
const (
	SourceDefaults  = "defaults"
	SourceFile      = "file"
	SourceEnv       = "env"
	SourceOverrides = "overrides"
)

// Loader merges configuration layers with koanf. Each layer is parsed into
// its own koanf instance first so the loader can remember which layer last
// set every key.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	defaults  map[string]any
	sources   map[string]string
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithDefaults sets the lowest-priority layer. Its keys are also the keys
// environment variables resolve against.
func WithDefaults(defaults map[string]any) Option {
	return func(l *Loader) {
		l.defaults = defaults
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
		sources:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load applies defaults, the configuration file and the environment in
// that order, then unmarshals into target. Callers add command-line
// overrides afterwards with LoadMap and Unmarshal.
func (l *Loader) Load(target any) error {
	if l.defaults != nil {
		if err := l.merge(SourceDefaults, mapProvider(l.defaults), nil); err != nil {
			return fmt.Errorf("load defaults: %w", err)
		}
	}
	if err := l.LoadFile(l.filePath); err != nil {
		return fmt.Errorf("load config file: %w", err)
	}
	if err := l.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// LoadFile merges a YAML file. An empty path is a no-op.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := l.merge(SourceFile, file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}
	return nil
}

// LoadEnv merges environment variables such as SHARDKV_STORE_SHARD_COUNT.
//
// Names resolve against keys already loaded, so store.shard_count is found
// even though its leaf contains an underscore. Once any key is known,
// variables that match none are ignored. Before that, every underscore is
// read as a level separator.
func (l *Loader) LoadEnv() error {
	known := make(map[string]string)
	for _, key := range l.k.Keys() {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}

	resolve := func(name string) string {
		name = strings.ToLower(strings.TrimPrefix(name, l.envPrefix))
		if len(known) == 0 {
			return strings.ReplaceAll(name, "_", ".")
		}
		return known[name]
	}

	return l.merge(SourceEnv, env.Provider(l.envPrefix, ".", resolve), nil)
}

// LoadMap merges overrides such as command-line flags. Dotted keys are
// expanded.
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.merge(SourceOverrides, mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

func (l *Loader) merge(source string, p koanf.Provider, parser koanf.Parser) error {
	layer := koanf.New(".")
	if err := layer.Load(p, parser); err != nil {
		return err
	}
	for _, key := range layer.Keys() {
		l.sources[key] = source
	}
	return l.k.Merge(layer)
}

// Unmarshal decodes the merged configuration into target using koanf tags.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// String returns the merged value of key as a string.
func (l *Loader) String(key string) string {
	return l.k.String(key)
}

// Exists reports whether any layer set key.
func (l *Loader) Exists(key string) bool {
	return l.k.Exists(key)
}

// Source returns the layer that last set key, or "" if none did.
func (l *Loader) Source(key string) string {
	return l.sources[key]
}

// Keys returns all merged leaf keys in sorted order.
func (l *Loader) Keys() []string {
	keys := l.k.Keys()
	sort.Strings(keys)
	return keys
}

// SourceCounts returns how many keys each layer contributed last.
func (l *Loader) SourceCounts() map[string]int {
	counts := make(map[string]int)
	for _, src := range l.sources {
		counts[src]++
	}
	return counts
}
