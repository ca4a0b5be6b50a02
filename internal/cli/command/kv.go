package command

import (
	"encoding/base64"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/cli/connection"
	"github.com/yndnr/shardkv-go/internal/cli/output"
)

// KeyValue is the structured form of a get or delete result.
type KeyValue struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Encoding string `json:"encoding,omitempty"`
}

func newKeyValue(key string, value []byte) KeyValue {
	if utf8.Valid(value) {
		return KeyValue{Key: key, Value: string(value)}
	}
	return KeyValue{Key: key, Value: base64.StdEncoding.EncodeToString(value), Encoding: "base64"}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the value stored under KEY",
		ArgsUsage: "KEY",
		Action:    getValue,
	}
}

// PutCommand returns the put command.
func PutCommand() *cli.Command {
	return &cli.Command{
		Name:      "put",
		Aliases:   []string{"set"},
		Usage:     "Store VALUE under KEY, replacing any previous value",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read the value from a file instead of VALUE",
			},
		},
		Action: putValue,
	}
}

// DeleteCommand returns the delete command.
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"del", "rm"},
		Usage:     "Remove KEY and print the removed value",
		ArgsUsage: "KEY",
		Action:    deleteValue,
	}
}

func getValue(c *cli.Context) error {
	if err := requireArgs(c, 1, "KEY"); err != nil {
		return err
	}
	key := c.Args().First()

	value, err := NewClient(c).Get(c.Context, key)
	if err != nil {
		return keyError(key, err)
	}
	return printValue(c, key, value)
}

func putValue(c *cli.Context) error {
	var (
		key   string
		value []byte
	)
	if path := c.String("file"); path != "" {
		if err := requireArgs(c, 1, "--file PATH KEY"); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read value file: %w", err)
		}
		key, value = c.Args().First(), data
	} else {
		if err := requireArgs(c, 2, "KEY VALUE"); err != nil {
			return err
		}
		key, value = c.Args().Get(0), []byte(c.Args().Get(1))
	}

	res, err := NewClient(c).Put(c.Context, key, value)
	if err != nil {
		return err
	}

	if GetSettings(c).Output == output.FormatTable {
		fmt.Fprintf(out(c), "%s %q (shard %d)\n", res.Outcome, res.Key, res.Shard)
		return nil
	}
	return render(c, res)
}

func deleteValue(c *cli.Context) error {
	if err := requireArgs(c, 1, "KEY"); err != nil {
		return err
	}
	key := c.Args().First()

	removed, err := NewClient(c).Delete(c.Context, key)
	if err != nil {
		return keyError(key, err)
	}
	return printValue(c, key, removed)
}

// printValue prints the bare value in table mode so it can be piped, and
// a KeyValue document otherwise.
func printValue(c *cli.Context, key string, value []byte) error {
	if GetSettings(c).Output == output.FormatTable {
		w := out(c)
		if _, err := w.Write(value); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}
	return render(c, newKeyValue(key, value))
}

func keyError(key string, err error) error {
	if connection.IsNotFound(err) {
		return fmt.Errorf("key %q not found", key)
	}
	return err
}
