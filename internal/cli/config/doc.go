// Package config holds the shardkv-cli settings file (~/.shardkv/cli.yaml).
//
// Values from the file are defaults only; SHARDKV_SERVER and command-line
// flags take precedence.
package config
