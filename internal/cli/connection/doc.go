// Package connection is the shardkv-cli HTTP client for the key-value API.
package connection
