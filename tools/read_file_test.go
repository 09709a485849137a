package tools_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calyptra/vertex-agent/tools"
)

func TestReadFile_Happy(t *testing.T) {
	dir := filepath.Join(sharedDir, rel(t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("hi"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	out, err := tools.ReadFile(context.Background(), map[string]any{"path": rel(t, "a.txt")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != "hi" {
		t.Fatalf("got %q", out)
	}
}

func TestReadFile_NotFound(t *testing.T) {
	_, err := tools.ReadFile(context.Background(), map[string]any{"path": rel(t, "does-not-exist.txt")})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestReadFile_DirectoryPath_Error(t *testing.T) {
	sub := filepath.Join(sharedDir, rel(t, "sub"))
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	_, err := tools.ReadFile(context.Background(), map[string]any{"path": rel(t, "sub")})
	if err == nil {
		t.Fatal("expected error for directory path")
	}
	if !strings.Contains(err.Error(), "ERR_NOT_A_FILE") {
		t.Fatalf("expected ERR_NOT_A_FILE, got: %v", err)
	}
}

func TestReadFile_DenylistReadsAgent(t *testing.T) {
	if err := os.MkdirAll(filepath.Join(sharedDir, ".agent"), 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sharedDir, ".agent", "conv.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	_, err := tools.ReadFile(context.Background(), map[string]any{"path": ".agent/conv.json"})
	if err == nil {
		t.Fatal("expected deny for .agent/")
	}
	if !strings.Contains(err.Error(), "ERR_DENIED_READ") {
		t.Fatalf("expected ERR_DENIED_READ, got: %v", err)
	}
}

func TestReadFile_Pagination(t *testing.T) {
	dir := filepath.Join(sharedDir, rel(t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("line\n")
	}
	if err := os.WriteFile(filepath.Join(dir, "pages.txt"), []byte(b.String()), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	out, err := tools.ReadFile(context.Background(), map[string]any{
		"path":   rel(t, "pages.txt"),
		"offset": float64(0),
		"limit":  float64(3),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	s, ok := out.(string)
	if !ok {
		t.Fatalf("expected string result, got %T", out)
	}
	if !strings.HasSuffix(s, "-- truncated; use offset/limit to fetch more --\n") {
		t.Fatalf("expected truncation sentinel, got %q", s)
	}
	if got := strings.Count(s, "line"); got != 3 {
		t.Fatalf("expected 3 lines, got %d", got)
	}
}
