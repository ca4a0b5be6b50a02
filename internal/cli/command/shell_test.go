package command

import (
	"strings"
	"testing"
)

func TestShell_Scenario(t *testing.T) {
	srv := newTestServer(t)

	script := strings.Join([]string{
		`put greeting "hello world"`,
		`get greeting`,
		`put greeting again`,
		`delete greeting`,
		`get greeting`,
		`bogus`,
		`shell`,
		`help st`,
		`exit`,
	}, "\n") + "\n"

	out, err := runCLI(t, srv.URL, script, "shell")
	if err != nil {
		t.Fatalf("shell error = %v", err)
	}

	for _, want := range []string{
		`inserted "greeting"`,
		"hello world\n",
		`updated "greeting"`,
		"again\n",
		`Error: key "greeting" not found`,
		`Error: unknown command "bogus"`,
		"Error: already in a shell",
		"stats",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("shell output missing %q:\n%s", want, out)
		}
	}
}

func TestShell_InheritsOutputFormat(t *testing.T) {
	srv := newTestServer(t)

	out, err := runCLI(t, srv.URL, "put k v\nget k\n", "-o", "json", "shell")
	if err != nil {
		t.Fatalf("shell error = %v", err)
	}
	if !strings.Contains(out, `"value": "v"`) {
		t.Errorf("expected JSON output inside the shell:\n%s", out)
	}
}
