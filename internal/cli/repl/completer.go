package repl

import (
	"sort"
	"strings"
)

// Builtins are handled by the shell itself.
var Builtins = []string{"exit", "help", "history", "quit"}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over commands plus the shell builtins.
func NewCompleter(commands ...string) *Completer {
	seen := make(map[string]bool)
	var all []string
	for _, c := range append(append([]string{}, commands...), Builtins...) {
		if c != "" && !seen[c] {
			seen[c] = true
			all = append(all, c)
		}
	}
	sort.Strings(all)
	return &Completer{commands: all}
}

// Complete returns the known commands starting with prefix, sorted.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
