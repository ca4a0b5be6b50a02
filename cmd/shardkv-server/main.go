// Package main provides the entry point for shardkv-server.
//
// shardkv-server holds a sharded in-memory key-value map and serves it
// over HTTP, and optionally over the Redis protocol.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/shardkv-go/internal/cli/output"
	"github.com/yndnr/shardkv-go/internal/infra/buildinfo"
	"github.com/yndnr/shardkv-go/internal/server/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "shardkv-server",
		Usage:   "sharded in-memory key-value server",
		Version: buildinfo.String(),
		Flags:   serverFlags(),
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Inspect server configuration",
				Subcommands: []*cli.Command{
					{
						Name:  "check",
						Usage: "Load and validate the configuration, then print it",
						Flags: append(serverFlags(), &cli.BoolFlag{
							Name:  "sources",
							Usage: "Print every key with the layer that set it",
						}),
						Action: checkConfig,
					},
					{
						Name:   "default",
						Usage:  "Print the default configuration as YAML",
						Action: printDefaultConfig,
					},
				},
			},
		},
	}
}

func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to YAML configuration file",
		},
		&cli.StringFlag{
			Name:  "http-addr",
			Usage: "HTTP listen address (overrides server.http.addr)",
		},
		&cli.StringFlag{
			Name:  "redis-addr",
			Usage: "Enable the Redis protocol listener on this address",
		},
		&cli.IntFlag{
			Name:  "shard-count",
			Usage: "Number of shards (overrides store.shard_count)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
	}
}

// options are the command-line inputs to configuration loading.
type options struct {
	ConfigFile string
	Overrides  map[string]any
}

func optionsFromContext(c *cli.Context) options {
	o := options{
		ConfigFile: c.String("config"),
		Overrides:  make(map[string]any),
	}
	if c.IsSet("http-addr") {
		o.Overrides["server.http.addr"] = c.String("http-addr")
	}
	if c.IsSet("redis-addr") {
		o.Overrides["server.redis.enabled"] = true
		o.Overrides["server.redis.addr"] = c.String("redis-addr")
	}
	if c.IsSet("shard-count") {
		o.Overrides["store.shard_count"] = c.Int("shard-count")
	}
	if c.IsSet("log-level") {
		o.Overrides["log.level"] = c.String("log-level")
	}
	return o
}

func checkConfig(c *cli.Context) error {
	cfg, loader, err := loadConfig(optionsFromContext(c))
	if err != nil {
		return err
	}
	if c.Bool("sources") {
		t := &output.Table{Headers: []string{"KEY", "VALUE", "SOURCE"}}
		for _, key := range loader.Keys() {
			t.AddRow(key, loader.String(key), loader.Source(key))
		}
		return t.Render(c.App.Writer)
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}

func printDefaultConfig(c *cli.Context) error {
	out, err := yaml.Marshal(config.DefaultMap())
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}
