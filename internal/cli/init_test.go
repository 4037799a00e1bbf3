package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phobologic/minidoc/internal/config"
)

func runInitArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(BuildInfo{})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"init"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

// TestInitCreatesFile verifies that init writes a loadable default config.
func TestInitCreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), config.FileName)

	if _, err := runInitArgs(t, path); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if !strings.HasPrefix(string(data), "# minidoc configuration.") {
		t.Error("header comment missing from created file")
	}

	cfg, err := config.Load(path, true)
	if err != nil {
		t.Fatalf("created file does not load: %v", err)
	}
	if cfg.Title != config.DefaultTitle {
		t.Errorf("title = %q, want %q", cfg.Title, config.DefaultTitle)
	}
}

// TestInitDryRun verifies that --dry-run prints the file and writes nothing.
func TestInitDryRun(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), config.FileName)

	out, err := runInitArgs(t, "--dry-run", path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("--dry-run should not create the file")
	}
	if !strings.Contains(out, "title: API Documentation") {
		t.Errorf("dry-run output missing title:\n%s", out)
	}
}

// TestInitKeepsExisting verifies that an existing file is only replaced with
// --force.
func TestInitKeepsExisting(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), config.FileName)
	existing := "title: Mine\n"
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runInitArgs(t, path); err == nil {
		t.Fatal("expected error for existing file")
	}
	data, _ := os.ReadFile(path)
	if string(data) != existing {
		t.Error("init without --force must not modify the file")
	}

	if _, err := runInitArgs(t, "--force", path); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) == existing {
		t.Error("--force should overwrite the file")
	}
}
