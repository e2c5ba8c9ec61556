package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.md", "skip.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := discoverFiles(
		[]string{filepath.Join(dir, "*")},
		[]string{"**/*.log"},
	)
	if err != nil {
		t.Fatalf("discoverFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v, want a.txt and b.md", files)
	}
}

func TestDiscoverFilesMissingLiteralPath(t *testing.T) {
	_, err := discoverFiles([]string{filepath.Join(t.TempDir(), "nope.txt")}, nil)
	if err == nil {
		t.Fatal("expected error for nonexistent literal path")
	}
}

func TestDiscoverFilesEmptyGlobIsFine(t *testing.T) {
	files, err := discoverFiles([]string{filepath.Join(t.TempDir(), "*.pdf")}, nil)
	if err != nil {
		t.Fatalf("discoverFiles: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("files = %v, want none", files)
	}
}
