// Package main provides the entry point for shardkv-cli.
//
// shardkv-cli talks to shardkv-server over HTTP, either one command per
// invocation or through the interactive shell.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/shardkv-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
