package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// WriteTree materializes a txtar archive under a fresh temp dir and returns
// the dir. File names are slash-separated paths relative to the dir.
func WriteTree(t testing.TB, archive string) string {
	t.Helper()

	root := t.TempDir()
	ar := txtar.Parse([]byte(strings.TrimLeft(archive, "\n")))
	for _, f := range ar.Files {
		path := filepath.Join(root, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", f.Name, err)
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", f.Name, err)
		}
	}
	return root
}

// WriteExecutable writes a shell script to dir and returns its path.
// Tests needing it should call RequireShell first.
func WriteExecutable(t testing.TB, dir, name, script string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil { //nolint:gosec // test helper writes an executable on purpose
		t.Fatalf("failed to write executable %s: %v", name, err)
	}
	return path
}

// RequireShell skips the test when /bin/sh is unavailable.
func RequireShell(t testing.TB) {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}
}
