package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"void-cli/internal/keymap"
	"void-cli/internal/model"
	"void-cli/internal/store"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeTestDB saves a map with one anchor "plan" holding a child "ship".
func writeTestDB(t *testing.T) string {
	t.Helper()
	st := store.NewNodes()
	st.Now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	plan, err := st.NewChild(model.RootID, model.Coords{X: 3, Y: 4})
	if err != nil {
		t.Fatalf("NewChild: %v", err)
	}
	st.Nodes[plan].Content = "plan"
	ship, err := st.NewChild(plan, model.Coords{})
	if err != nil {
		t.Fatalf("NewChild: %v", err)
	}
	st.Nodes[ship].Content = "ship"

	path := filepath.Join(t.TempDir(), "test.db")
	if err := store.Save(path, &store.Snapshot{Nodes: st}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

func TestKeysCmd_PrintsParsableMap(t *testing.T) {
	t.Parallel()

	out, _, err := runCmd(t, "keys")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if !strings.HasPrefix(out, "no_defaults\n") {
		t.Fatalf("expected key-file syntax; got %q", out)
	}
	c, err := keymap.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("expected printed map to parse: %v", err)
	}
	if got, want := len(c.Bindings()), len(keymap.Default().Bindings()); got != want {
		t.Fatalf("expected %d bindings; got %d", want, got)
	}
}

func TestKeysCmd_BadKeyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keys")
	if err := os.WriteFile(path, []byte("arrow: C-a\nfrobnicate: x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, stderr, err := runCmd(t, "--keyfile", path, "keys")
	var perr *keymap.ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Fatalf("expected a parse error on line 2; got %v", err)
	}
	if !strings.Contains(stderr, "frobnicate") {
		t.Fatalf("expected stderr to name the bad action; got %q", stderr)
	}
}

func TestDocsCmd(t *testing.T) {
	t.Parallel()

	out, _, err := runCmd(t, "docs")
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	for _, topic := range []string{"format", "help", "keys"} {
		if !strings.Contains(out, topic) {
			t.Fatalf("expected topic %q in %q", topic, out)
		}
	}

	out, _, err = runCmd(t, "docs", "format")
	if err != nil {
		t.Fatalf("docs format: %v", err)
	}
	if !strings.HasPrefix(out, "# Database format") {
		t.Fatalf("expected raw markdown when not on a terminal; got %q", out)
	}

	if _, _, err := runCmd(t, "docs", "nope"); err == nil {
		t.Fatalf("expected an unknown topic to fail")
	}
}

func TestExportCmd_Markdown(t *testing.T) {
	t.Parallel()

	path := writeTestDB(t)
	out, _, err := runCmd(t, "export", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "# home\n\n- plan\n  - ship\n"
	if out != want {
		t.Fatalf("expected %q; got %q", want, out)
	}
}

func TestExportCmd_Formats(t *testing.T) {
	t.Parallel()

	path := writeTestDB(t)
	tests := []struct {
		format string
		want   string
	}{
		{"json", `"drawingRoot":0`},
		{"yaml", "content: plan"},
		{"edn", `:content "ship"`},
		{"svg", "<svg"},
	}
	for _, tt := range tests {
		out, _, err := runCmd(t, "export", path, "--format", tt.format)
		if err != nil {
			t.Fatalf("export %s: %v", tt.format, err)
		}
		if !strings.Contains(out, tt.want) {
			t.Fatalf("export %s: expected %q in %q", tt.format, tt.want, out)
		}
	}
}

func TestExportCmd_SQLiteNeedsOutput(t *testing.T) {
	t.Parallel()

	path := writeTestDB(t)
	if _, _, err := runCmd(t, "export", path, "--format", "sqlite"); err == nil {
		t.Fatalf("expected sqlite export to stdout to fail")
	}
	dest := filepath.Join(t.TempDir(), "out.sqlite")
	if _, _, err := runCmd(t, "export", path, "--format", "sqlite", "-o", dest); err != nil {
		t.Fatalf("export sqlite: %v", err)
	}
	if st, err := os.Stat(dest); err != nil || st.Size() == 0 {
		t.Fatalf("expected a sqlite file; stat err=%v", err)
	}
}

func TestExportCmd_MissingDatabaseIsEmptyMap(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.db")
	out, _, err := runCmd(t, "export", path, "--format", "md")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out != "# home\n" {
		t.Fatalf("expected an empty outline; got %q", out)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected export not to create the database")
	}
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	t.Parallel()

	path := writeTestDB(t)
	if _, _, err := runCmd(t, "export", path, "--format", "toml"); err == nil {
		t.Fatalf("expected an unknown format to fail")
	}
}

func TestResolveDBPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	got, err := resolveDBPath("")
	if err != nil {
		t.Fatalf("resolveDBPath: %v", err)
	}
	if got != filepath.Join("/home/tester", ".void.db") {
		t.Fatalf("expected ~/.void.db; got %q", got)
	}
	if got, _ := resolveDBPath(" x.db "); got != "x.db" {
		t.Fatalf("expected explicit path; got %q", got)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("VOID_TEST_INT", "7")
	if got := envInt("VOID_TEST_INT", 1); got != 7 {
		t.Fatalf("expected 7; got %d", got)
	}
	t.Setenv("VOID_TEST_INT", "-3")
	if got := envInt("VOID_TEST_INT", 1); got != 1 {
		t.Fatalf("expected fallback for negative values; got %d", got)
	}
	t.Setenv("VOID_TEST_INT", "")
	if got := envInt("VOID_TEST_INT", 2); got != 2 {
		t.Fatalf("expected fallback when unset; got %d", got)
	}
}
