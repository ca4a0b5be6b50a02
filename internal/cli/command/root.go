package command

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/cli/config"
	"github.com/yndnr/shardkv-go/internal/cli/connection"
	"github.com/yndnr/shardkv-go/internal/cli/output"
	"github.com/yndnr/shardkv-go/internal/infra/buildinfo"
)

const settingsKey = "settings"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:                 "shardkv-cli",
		Usage:                "command-line client for shardkv-server",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			GetCommand(),
			PutCommand(),
			DeleteCommand(),
			StatsCommand(),
			HealthCommand(),
			ShellCommand(),
		},
		Before:    resolveSettings,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Metadata:  map[string]any{},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "shardkv server address (e.g., localhost:8080)",
			EnvVars: []string{"SHARDKV_SERVER"},
			Value:   "localhost:8080",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
			Value: connection.DefaultTimeout,
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "CLI settings file",
			Value: config.DefaultConfigPath(),
		},
	}
}

// Settings are the resolved global options: flag or environment first,
// then the CLI settings file, then built-in defaults.
type Settings struct {
	Server      string
	Output      output.Format
	Timeout     time.Duration
	HistoryFile string
}

func resolveSettings(c *cli.Context) error {
	file, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	s := &Settings{
		Server:      c.String("server"),
		Timeout:     c.Duration("timeout"),
		HistoryFile: file.HistoryFile,
	}
	if !c.IsSet("server") && file.Server != "" {
		s.Server = file.Server
	}
	if s.Server == "" {
		s.Server = config.Default().Server
	}
	if !c.IsSet("timeout") && file.Timeout > 0 {
		s.Timeout = file.Timeout
	}

	format := c.String("output")
	if !c.IsSet("output") && file.Output != "" {
		format = file.Output
	}
	if s.Output, err = output.ParseFormat(format); err != nil {
		return err
	}

	c.App.Metadata[settingsKey] = s
	return nil
}

// GetSettings returns the settings resolved for this invocation.
func GetSettings(c *cli.Context) *Settings {
	if s, ok := c.App.Metadata[settingsKey].(*Settings); ok {
		return s
	}
	return &Settings{
		Server:  c.String("server"),
		Output:  output.FormatTable,
		Timeout: connection.DefaultTimeout,
	}
}

// NewClient builds an HTTP client from the resolved settings.
func NewClient(c *cli.Context) *connection.HTTPClient {
	s := GetSettings(c)
	return connection.NewHTTPClient(s.Server, s.Timeout)
}

// render writes data in the selected output format.
func render(c *cli.Context, data any) error {
	return output.NewFormatter(GetSettings(c).Output).Format(c.App.Writer, data)
}

// requireArgs checks the positional argument count.
func requireArgs(c *cli.Context, n int, usage string) error {
	if c.NArg() != n {
		return fmt.Errorf("usage: %s %s", c.Command.Name, usage)
	}
	return nil
}

func out(c *cli.Context) io.Writer {
	return c.App.Writer
}
