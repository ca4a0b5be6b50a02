package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/cli/output"
)

// StatsCommand returns the stats command.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show entry counts per shard",
		Action: showStats,
	}
}

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check server health",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "ready",
				Usage: "Check readiness instead of liveness",
			},
		},
		Action: showHealth,
	}
}

func showStats(c *cli.Context) error {
	stats, err := NewClient(c).Stats(c.Context)
	if err != nil {
		return err
	}

	if GetSettings(c).Output != output.FormatTable {
		return render(c, stats)
	}

	w := out(c)
	fmt.Fprintf(w, "Server version: %s\n", stats.Version)
	fmt.Fprintf(w, "Hash:           %s\n", stats.Hash)
	fmt.Fprintf(w, "Shards:         %d\n", stats.ShardCount)
	fmt.Fprintf(w, "Entries:        %d\n\n", stats.Entries)

	table := &output.Table{Headers: []string{"SHARD", "ENTRIES"}}
	for _, s := range stats.Shards {
		table.AddRow(strconv.Itoa(s.Index), strconv.Itoa(s.Count))
	}
	return table.Render(w)
}

func showHealth(c *cli.Context) error {
	status, err := NewClient(c).Health(c.Context, c.Bool("ready"))
	if err != nil {
		return fmt.Errorf("server unhealthy: %w", err)
	}

	if GetSettings(c).Output != output.FormatTable {
		return render(c, status)
	}
	fmt.Fprintf(out(c), "%s: %s\n", GetSettings(c).Server, status.Status)
	return nil
}
