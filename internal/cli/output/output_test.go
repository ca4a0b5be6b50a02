package output

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Key     string `json:"key"`
	Shard   int    `json:"shard"`
	Outcome string `json:"outcome,omitempty"`
	secret  string
	Skipped string `json:"-"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json should give a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml should give a YAMLFormatter")
	}
	if _, ok := NewFormatter(FormatTable).(*TableFormatter); !ok {
		t.Error("table should give a TableFormatter")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, sample{Key: "a", Shard: 3}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "{\n  \"key\": \"a\",\n  \"shard\": 3\n}\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, sample{Key: "a", Shard: 3, Outcome: "inserted"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"key: a\n", "shard: 3\n", "outcome: inserted\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output %q missing %q", out, want)
		}
	}
}

func TestTableFormatter_Struct(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, &sample{Key: "a", Shard: 3, secret: "x", Skipped: "y"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 fields:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "FIELD") || !strings.HasPrefix(lines[1], "key") {
		t.Errorf("unexpected table:\n%s", out)
	}
	if strings.Contains(out, "secret") {
		t.Error("unexported fields must not be rendered")
	}
	if strings.Contains(out, "Skipped") {
		t.Error(`fields tagged json:"-" must not be rendered`)
	}
	if !strings.Contains(lines[3], `""`) {
		t.Errorf("empty string should render as \"\": %q", lines[3])
	}
}

func TestTableFormatter_MapSorted(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, map[string]int{"b": 2, "a": 1, "c": 3}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "a") || !strings.HasPrefix(lines[2], "c") {
		t.Errorf("map rows not sorted:\n%s", buf.String())
	}
}

func TestTableFormatter_Slice(t *testing.T) {
	var buf bytes.Buffer
	rows := []sample{{Key: "a", Shard: 1}, {Key: "b", Shard: 2}}
	if err := (&TableFormatter{}).Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "KEY") || !strings.Contains(lines[0], "SHARD") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestTableFormatter_FallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, []int{1, 2}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "[\n  1,") {
		t.Errorf("expected JSON fallback, got %q", buf.String())
	}
}

func TestTableRender(t *testing.T) {
	tbl := &Table{Headers: []string{"NAME", "VALUE"}}
	tbl.AddRow("k", "v")

	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if buf.String() != "NAME  VALUE\nk     v\n" {
		t.Errorf("Render() = %q", buf.String())
	}
}
