// Package confloader loads layered configuration with koanf and watches
// the configuration file for changes with fsnotify.
//
// Priority (highest to lowest):
//
//  1. Overrides such as command-line flags (LoadMap)
//  2. Environment variables (SHARDKV_ prefix)
//  3. Configuration file (YAML)
//  4. Default values
//
// The loader records which layer supplied each key; see Loader.Source.
package confloader
