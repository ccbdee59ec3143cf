package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDiscoverJSON_sortedRecursiveJSONOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "B", "2.json"), "{}")
	writeFile(t, filepath.Join(root, "A", "1.json"), "{}")
	writeFile(t, filepath.Join(root, "A", "ignore.txt"), "nope")
	writeFile(t, filepath.Join(root, "top.JSON"), "{}")

	got, err := DiscoverJSON(root)
	if err != nil {
		t.Fatalf("DiscoverJSON: %v", err)
	}

	want := []string{
		filepath.Join(root, "A", "1.json"),
		filepath.Join(root, "B", "2.json"),
		filepath.Join(root, "top.JSON"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d files %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("file[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDiscoverJSON_missingRoot(t *testing.T) {
	if _, err := DiscoverJSON(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestLocal_OpenReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	writeFile(t, path, `{"a":1}`)

	rc, err := NewLocal(path).Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got, want := string(b), `{"a":1}`; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func TestLocal_OpenHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocal("does-not-matter").Open(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLocal_OpenMissingFile(t *testing.T) {
	_, err := NewLocal(filepath.Join(t.TempDir(), "missing.json")).Open(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}
