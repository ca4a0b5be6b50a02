// Package command defines the shardkv-cli commands on urfave/cli/v2.
//
// Every command works in one-shot mode and inside the interactive shell,
// which feeds each line back through a fresh App with the same global
// flags.
package command
