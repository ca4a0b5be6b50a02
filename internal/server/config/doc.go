// Package config defines the shardkv-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default values and the defaults layer for the loader
//   - verify.go: Validation of addresses, limits and store settings
//   - convert.go: Mapping onto store, service and logger settings
//
// Configuration is loaded via internal/infra/confloader from defaults,
// a YAML file, SHARDKV_ environment variables and flags.
package config
