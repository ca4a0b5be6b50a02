package redisserver

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Protocol limits.
const (
	// MaxArrayLen limits the number of elements in a RESP array.
	MaxArrayLen = 1024

	// DefaultMaxBulkLen limits a single bulk string when the reader is
	// not given a larger value limit.
	DefaultMaxBulkLen = 512 * 1024

	// MaxInlineLen limits inline command line length.
	MaxInlineLen = 4 * 1024

	// headerLen bounds "*<n>\r\n" and "$<n>\r\n" lines.
	headerLen = 64
)

var (
	ErrProtocol      = errors.New("resp: protocol error")
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// Reader decodes client commands from a buffered stream.
type Reader struct {
	br      *bufio.Reader
	maxBulk int
}

// NewReader returns a Reader accepting bulk strings up to maxBulk bytes.
// A non-positive maxBulk selects DefaultMaxBulkLen.
func NewReader(r io.Reader, maxBulk int) *Reader {
	if maxBulk <= 0 {
		maxBulk = DefaultMaxBulkLen
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{br: br, maxBulk: maxBulk}
}

// Peek blocks until at least one byte is buffered.
func (r *Reader) Peek() error {
	_, err := r.br.Peek(1)
	return err
}

// ReadCommand reads one command as a list of arguments. Both the array
// form and the inline form ("PING\r\n") are accepted. An empty command
// yields a nil slice.
func (r *Reader) ReadCommand() ([][]byte, error) {
	b, err := r.br.Peek(1)
	if err != nil {
		return nil, err
	}
	if b[0] == '*' {
		return r.readArray()
	}

	line, err := r.readLine(MaxInlineLen)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	args := make([][]byte, len(fields))
	for i, f := range fields {
		args[i] = []byte(f)
	}
	return args, nil
}

func (r *Reader) readArray() ([][]byte, error) {
	line, err := r.readLine(headerLen)
	if err != nil {
		return nil, err
	}
	n, err := parseLength(line, '*')
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	if n > MaxArrayLen {
		return nil, fmt.Errorf("%w: array length %d exceeds limit %d", ErrLimitExceeded, n, MaxArrayLen)
	}

	args := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		arg, err := r.readBulk()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func (r *Reader) readBulk() ([]byte, error) {
	line, err := r.readLine(headerLen)
	if err != nil {
		return nil, err
	}
	n, err := parseLength(line, '$')
	if err != nil {
		return nil, err
	}
	switch {
	case n == -1:
		return nil, nil
	case n < 0:
		return nil, fmt.Errorf("%w: invalid bulk length", ErrProtocol)
	case n > r.maxBulk:
		return nil, fmt.Errorf("%w: bulk length %d exceeds limit %d", ErrLimitExceeded, n, r.maxBulk)
	}

	buf := make([]byte, n+2)
	if _, err := io.ReadFull(r.br, buf); err != nil {
		return nil, err
	}
	if buf[n] != '\r' || buf[n+1] != '\n' {
		return nil, fmt.Errorf("%w: invalid bulk terminator", ErrProtocol)
	}
	return buf[:n], nil
}

func (r *Reader) readLine(maxLen int) (string, error) {
	var buf []byte
	for {
		frag, err := r.br.ReadSlice('\n')
		buf = append(buf, frag...)
		if len(buf) > maxLen {
			return "", fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, maxLen)
		}
		if err == nil {
			break
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return "", err
		}
	}

	if !bytes.HasSuffix(buf, []byte("\r\n")) {
		return "", fmt.Errorf("%w: missing CRLF", ErrProtocol)
	}
	return string(buf[:len(buf)-2]), nil
}

func parseLength(line string, prefix byte) (int, error) {
	if len(line) < 2 || line[0] != prefix {
		return 0, fmt.Errorf("%w: expected %q header", ErrProtocol, prefix)
	}
	n, err := strconv.Atoi(line[1:])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid length %q", ErrProtocol, line[1:])
	}
	return n, nil
}

// Writer encodes RESP2 replies. Errors are sticky: after the first failed
// write every call is a no-op and Flush reports the error.
type Writer struct {
	bw  *bufio.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

func (w *Writer) write(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = w.bw.WriteString(p)
	}
}

// SimpleString writes "+s".
func (w *Writer) SimpleString(s string) {
	w.write("+", s, "\r\n")
}

// Error writes "-s".
func (w *Writer) Error(s string) {
	w.write("-", s, "\r\n")
}

// Integer writes ":n".
func (w *Writer) Integer(n int64) {
	w.write(":", strconv.FormatInt(n, 10), "\r\n")
}

// Bulk writes a bulk string, or the null bulk string when b is nil.
func (w *Writer) Bulk(b []byte) {
	if b == nil {
		w.write("$-1\r\n")
		return
	}
	w.write("$", strconv.Itoa(len(b)), "\r\n", string(b), "\r\n")
}

// Array writes an array header for n elements; the elements follow.
func (w *Writer) Array(n int) {
	w.write("*", strconv.Itoa(n), "\r\n")
}

// Flush sends buffered replies.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.bw.Flush()
	return w.err
}

func normalizeCommandName(b []byte) string {
	if bytes.ContainsAny(b, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(string(b))
	}
	return string(b)
}
