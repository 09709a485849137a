package tools_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/calyptra/vertex-agent/tools"
)

func listNames(t *testing.T, args map[string]any) []string {
	t.Helper()
	out, err := tools.ListFiles(context.Background(), args)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	names, ok := out.([]string)
	if !ok {
		t.Fatalf("expected []string result, got %T", out)
	}
	return names
}

func TestListFiles_NonRecursive_Basic(t *testing.T) {
	dir := filepath.Join(sharedDir, rel(t)) // per-test directory
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte(""), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "nested.txt"), []byte(""), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	got := listNames(t, map[string]any{"path": rel(t)})
	set := map[string]struct{}{}
	for _, x := range got {
		set[x] = struct{}{}
	}

	if _, ok := set["a.txt"]; !ok {
		t.Fatalf("missing a.txt; got %v", got)
	}
	if _, ok := set["sub/"]; !ok {
		t.Fatalf("missing sub/; got %v", got)
	}
	if _, ok := set["sub/nested.txt"]; ok {
		t.Fatalf("unexpected nested.txt in non-recursive output; got %v", got)
	}
}

func TestListFiles_InvalidPath_Error(t *testing.T) {
	_, err := tools.ListFiles(context.Background(), map[string]any{"path": rel(t, "does", "not", "exist")})
	if err == nil {
		t.Fatal("expected error for invalid path")
	}
}

func TestListFiles_SortingAndPaging(t *testing.T) {
	dir := filepath.Join(sharedDir, rel(t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	// Create shuffled names
	names := []string{"c.txt", "a.txt", "b.txt", "z.txt", "m.txt"}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(""), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// Page 1 size 2 => ["a.txt", "b.txt"]
	got1 := listNames(t, map[string]any{"path": rel(t), "page": float64(1), "page_size": float64(2)})
	want1 := []string{"a.txt", "b.txt"}
	if len(got1) != len(want1) || got1[0] != want1[0] || got1[1] != want1[1] {
		t.Fatalf("got=%v want=%v", got1, want1)
	}

	// Page 3 size 2 => ["z.txt"] (since sorted: a,b,c,m,z, pages are [a,b], [c,m], [z])
	got3 := listNames(t, map[string]any{"path": rel(t), "page": float64(3), "page_size": float64(2)})
	want3 := []string{"z.txt"}
	if len(got3) != len(want3) || got3[0] != want3[0] {
		t.Fatalf("got=%v want=%v", got3, want3)
	}

	// Out-of-range page => []
	got4 := listNames(t, map[string]any{"path": rel(t), "page": float64(4), "page_size": float64(2)})
	if len(got4) != 0 {
		t.Fatalf("want empty page: %v", got4)
	}
}
