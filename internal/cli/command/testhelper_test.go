package command

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/shardkv-go/internal/core/service"
	"github.com/yndnr/shardkv-go/internal/server/httpserver"
	"github.com/yndnr/shardkv-go/internal/storage/memory"
)

// newTestServer starts a real HTTP API over an empty store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := memory.New(memory.DefaultConfig())
	if err != nil {
		t.Fatalf("memory.New() error = %v", err)
	}
	srv := httptest.NewServer(httpserver.NewRouter(&httpserver.RouterConfig{
		KV:     service.NewKVService(store),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}))
	t.Cleanup(srv.Close)
	return srv
}

// runCLI runs the app against server with the given arguments and
// returns stdout. stdin feeds the shell command.
func runCLI(t *testing.T, server, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(stdin)
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}

	argv := []string{"shardkv-cli", "--config", filepath.Join(t.TempDir(), "cli.yaml")}
	if server != "" {
		argv = append(argv, "--server", server)
	}
	err := app.RunContext(context.Background(), append(argv, args...))
	return stdout.String(), err
}
