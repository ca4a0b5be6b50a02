package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/cli/repl"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:   "shell",
		Usage:  "Start an interactive shell",
		Action: runShell,
	}
}

func runShell(c *cli.Context) error {
	if c.App.Metadata["shell"] == true {
		return errors.New("already in a shell")
	}
	s := GetSettings(c)

	var names []string
	for _, cmd := range c.App.Commands {
		if cmd.Name != "shell" && !cmd.Hidden {
			names = append(names, cmd.Name)
		}
	}

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}

	r := repl.New(shellExecutor(c.App, s),
		repl.WithIO(in, c.App.Writer),
		repl.WithHistory(repl.NewHistory(s.HistoryFile, 0)),
		repl.WithCompleter(repl.NewCompleter(names...)))
	return r.Run(c.Context)
}

// shellExecutor runs each shell line as a one-shot invocation that
// inherits the shell's resolved global flags.
func shellExecutor(parent *cli.App, s *Settings) repl.Executor {
	return func(ctx context.Context, args []string) error {
		app := App()
		if args[0] != "help" && app.Command(args[0]) == nil {
			return fmt.Errorf("unknown command %q, try help", args[0])
		}
		app.Writer = parent.Writer
		app.ErrWriter = parent.ErrWriter
		app.Metadata["shell"] = true
		app.ExitErrHandler = func(*cli.Context, error) {}

		argv := []string{
			app.Name,
			"--server", s.Server,
			"--output", string(s.Output),
			"--timeout", s.Timeout.String(),
		}
		return app.RunContext(ctx, append(argv, args...))
	}
}
