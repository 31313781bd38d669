package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_CreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "uploads")
	s, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		t.Fatalf("base dir not created: %v", err)
	}
	if got := s.Path("abc.txt"); got != filepath.Join(base, "abc.txt") {
		t.Fatalf("Path = %q", got)
	}
}

func TestSaveAndRemove(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	const body = "isi dokumen uji"
	n, err := s.Save(ctx, "doc-1.txt", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != int64(len(body)) {
		t.Fatalf("Save bytes = %d; want %d", n, len(body))
	}

	b, err := os.ReadFile(s.Path("doc-1.txt"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != body {
		t.Fatalf("stored content = %q; want %q", b, body)
	}

	if err := s.Remove(ctx, "doc-1.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(s.Path("doc-1.txt")); !os.IsNotExist(err) {
		t.Fatalf("file still present after Remove: %v", err)
	}
}

func TestRemove_MissingFileIsNotAnError(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Remove(context.Background(), "never-saved.pdf"); err != nil {
		t.Fatalf("Remove missing = %v; want nil", err)
	}
}

func TestPath_StripsDirectoryComponents(t *testing.T) {
	base := t.TempDir()
	s, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := s.Path("../../etc/passwd")
	want := filepath.Join(base, "passwd")
	if got != want {
		t.Fatalf("Path traversal = %q; want %q", got, want)
	}

	// A write with a hostile key must land inside the base directory.
	if _, err := s.Save(context.Background(), "../escape.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Save hostile key: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "escape.txt")); err != nil {
		t.Fatalf("expected file inside base dir: %v", err)
	}
}
