package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func writeConfig(t *testing.T, modelsDir, dbPath string) string {
	t.Helper()
	abs, err := filepath.Abs(modelsDir)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("models:\n  dir: %q\ndatabase:\n  path: %q\nlog:\n  level: error\n", abs, dbPath)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"housepredictor"}, args...))
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	cfg := writeConfig(t, filepath.Join("ml", "testdata", "models"), "")
	out, err := run(t, "--config", cfg, "check")
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "All artifacts loaded.") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	cfg = writeConfig(t, t.TempDir(), "")
	out, err = run(t, "--config", cfg, "check")
	if err == nil {
		t.Fatal("expected check to fail for an empty model directory")
	}
	if !strings.Contains(out, "missing") {
		t.Fatalf("expected missing artifacts:\n%s", out)
	}
}

func TestPredictCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	cfg := writeConfig(t, filepath.Join("ml", "testdata", "models"), dbPath)

	out, err := run(t, "--config", cfg, "predict", "--area", "4000")
	if err != nil {
		t.Fatalf("predict failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Rp 1,250,000,000") || !strings.Contains(out, "High") {
		t.Fatalf("unexpected report:\n%s", out)
	}

	out, err = run(t, "--config", cfg, "history", "--limit", "5")
	if err != nil {
		t.Fatalf("history failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Total: 1 predictions") {
		t.Fatalf("unexpected history:\n%s", out)
	}

	if _, err := run(t, "--config", cfg, "predict", "--garage", "two"); err == nil {
		t.Fatal("expected invalid input to fail")
	}
}
