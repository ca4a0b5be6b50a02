package redisserver

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReadCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr error
	}{
		{"array", "*2\r\n$3\r\nGET\r\n$1\r\na\r\n", []string{"GET", "a"}, nil},
		{"inline", "PING\r\n", []string{"PING"}, nil},
		{"inline args", "SET  k   v\r\n", []string{"SET", "k", "v"}, nil},
		{"empty inline", "\r\n", nil, nil},
		{"empty array", "*0\r\n", nil, nil},
		{"binary bulk", "*2\r\n$3\r\nGET\r\n$4\r\na\r\nb\r\n", []string{"GET", "a\r\nb"}, nil},
		{"empty bulk", "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$0\r\n\r\n", []string{"SET", "k", ""}, nil},
		{"bad array length", "*x\r\n", nil, ErrProtocol},
		{"missing bulk header", "*1\r\n:1\r\n", nil, ErrProtocol},
		{"bad terminator", "*1\r\n$3\r\nGETxx", nil, ErrProtocol},
		{"missing CRLF", "PING\n", nil, ErrProtocol},
		{"array too long", "*1025\r\n", nil, ErrLimitExceeded},
		{"inline too long", strings.Repeat("A", MaxInlineLen+1) + "\r\n", nil, ErrLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input), 0)
			args, err := r.ReadCommand()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ReadCommand() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadCommand() error = %v", err)
			}
			if len(args) != len(tt.want) {
				t.Fatalf("ReadCommand() = %q, want %q", args, tt.want)
			}
			for i := range args {
				if string(args[i]) != tt.want[i] {
					t.Errorf("arg[%d] = %q, want %q", i, args[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadCommandBulkLimit(t *testing.T) {
	r := NewReader(strings.NewReader("*2\r\n$3\r\nGET\r\n$9\r\n123456789\r\n"), 8)
	if _, err := r.ReadCommand(); !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("ReadCommand() error = %v, want ErrLimitExceeded", err)
	}
}

func TestReadCommandPipelined(t *testing.T) {
	r := NewReader(strings.NewReader("PING\r\n*1\r\n$6\r\nDBSIZE\r\n"), 0)
	for _, want := range []string{"PING", "DBSIZE"} {
		args, err := r.ReadCommand()
		if err != nil {
			t.Fatalf("ReadCommand() error = %v", err)
		}
		if len(args) != 1 || string(args[0]) != want {
			t.Errorf("ReadCommand() = %q, want [%s]", args, want)
		}
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.SimpleString("OK")
	w.Error("ERR bad")
	w.Integer(-3)
	w.Bulk([]byte("hi"))
	w.Bulk([]byte{})
	w.Bulk(nil)
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	want := "+OK\r\n-ERR bad\r\n:-3\r\n$2\r\nhi\r\n$0\r\n\r\n$-1\r\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriterStickyError(t *testing.T) {
	w := NewWriter(failingWriter{})
	w.SimpleString("OK")
	if err := w.Flush(); err == nil {
		t.Fatal("Flush() should fail")
	}
	w.Integer(1)
	if err := w.Flush(); err == nil {
		t.Error("error should be sticky")
	}
}

func TestNormalizeCommandName(t *testing.T) {
	for in, want := range map[string]string{"get": "GET", "Set": "SET", "DEL": "DEL", "": ""} {
		if got := normalizeCommandName([]byte(in)); got != want {
			t.Errorf("normalizeCommandName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriterArray(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Array(2)
	w.Bulk([]byte("a"))
	w.Bulk(nil)
	w.Array(0)
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if want := "*2\r\n$1\r\na\r\n$-1\r\n*0\r\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
