package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"easyplot/internal/logger"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	original := logger.GetGlobalLogger()
	t.Cleanup(func() { logger.SetGlobalLogger(original) })
	logger.SetGlobalLogger(logger.Discard())

	dir := t.TempDir()
	t.Setenv("EASYPLOT_OUTPUT_DIR", dir)
	t.Setenv("EASYPLOT_DPI", "30")
	t.Setenv("EASYPLOT_DISPLAY", "none")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := NewApp().WithOutput(&stdout, &stderr).ExecuteWithArgs(context.Background(), args)
	return stdout.String(), err
}

func TestLineCommandSaves(t *testing.T) {
	dir := setupEnv(t)
	doc := writeDoc(t, "title: From file\nsize: [3, 2]\ndata:\n  a: [1, 2, 3]\n  b: [3, 1, 2]\n")

	out, err := run(t, "line", doc, "-o", "out/sub/chart.png", "--title", "From flag")
	if err != nil {
		t.Fatalf("line failed: %v", err)
	}
	if !strings.Contains(out, "Image saved to: out/sub/chart.png") {
		t.Errorf("Expected confirmation line, got %q", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "sub", "chart.png"))
	if err != nil {
		t.Fatalf("Expected saved chart: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("Expected PNG output")
	}
}

func TestBarCommandFlags(t *testing.T) {
	dir := setupEnv(t)
	doc := writeDoc(t, "x: [mon, tue]\nsize: [3, 2]\ndata: [[1, 2], [3, 4], [5, 6]]\n")

	if _, err := run(t, "bar", doc, "-o", "bars.svg", "--bar-type", "stacked", "--width", "0.5", "--legend", "off"); err != nil {
		t.Fatalf("bar failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "bars.svg"))
	if err != nil {
		t.Fatalf("Expected saved chart: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("Expected SVG output")
	}

	if _, err := run(t, "bar", doc, "--bar-type", "overlap"); err == nil {
		t.Error("Expected error for an unknown bar type")
	}
	if _, err := run(t, "bar", doc, "--legend", "sometimes"); err == nil {
		t.Error("Expected error for an unknown legend mode")
	}
	if _, err := run(t, "bar", doc, "--size", "1,2,3"); err == nil {
		t.Error("Expected error for a malformed size")
	}
}

func TestChartCommandErrors(t *testing.T) {
	setupEnv(t)

	if _, err := run(t, "line", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for a missing document")
	}
	if _, err := run(t, "line"); err == nil {
		t.Error("Expected error without a document argument")
	}

	doc := writeDoc(t, "data: [1, 2]\n")
	if _, err := run(t, "line", doc, "--style", "neon"); err == nil || !strings.Contains(err.Error(), "style not found") {
		t.Errorf("Expected style not found, got %v", err)
	}

	t.Setenv("EASYPLOT_BACKEND", "cairo")
	if _, err := run(t, "line", doc); err == nil {
		t.Error("Expected configuration error for an unknown backend")
	}
}

func TestStylesCommand(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "styles")
	if err != nil {
		t.Fatalf("styles failed: %v", err)
	}
	for _, name := range []string{"default", "ggplot", "dark_background"} {
		if !strings.Contains(out, name+"\n") {
			t.Errorf("Expected %s in styles output, got %q", name, out)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	setupEnv(t)
	t.Setenv("APP_VERSION", "1.2.3")
	out, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.Contains(out, "1.2.3") {
		t.Errorf("Expected version in output, got %q", out)
	}
}
