package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter("get", "put", "delete", "stats", "health", "get")

	tests := []struct {
		prefix string
		want   []string
	}{
		{"g", []string{"get"}},
		{"h", []string{"health", "help", "history"}},
		{"e", []string{"exit"}},
		{"x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}

	if all := c.Complete(""); len(all) != 9 {
		t.Errorf("Complete(\"\") returned %d commands, want 9: %q", len(all), all)
	}
}
