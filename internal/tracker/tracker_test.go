package tracker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nselim/graphdesk/internal/db"
)

func setupTracker(t *testing.T) *Tracker {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return New(d)
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("hash = %s, want %s", got, want)
	}
	if got != HashBytes([]byte("hello")) {
		t.Error("HashFile and HashBytes disagree")
	}
}

func TestIsUploadedLifecycle(t *testing.T) {
	tr := setupTracker(t)
	ctx := context.Background()

	hash := HashBytes([]byte("content v1"))

	uploaded, err := tr.IsUploaded(ctx, "files/a.txt", hash)
	if err != nil {
		t.Fatalf("IsUploaded: %v", err)
	}
	if uploaded {
		t.Error("untracked file reported as uploaded")
	}

	if err := tr.MarkUploaded(ctx, Record{
		Path: "files/a.txt", SHA256: hash, Size: 10, FileType: "text",
	}); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}

	uploaded, err = tr.IsUploaded(ctx, "files/a.txt", hash)
	if err != nil {
		t.Fatalf("IsUploaded: %v", err)
	}
	if !uploaded {
		t.Error("tracked file with same hash reported as not uploaded")
	}

	// Changed content means re-upload.
	uploaded, err = tr.IsUploaded(ctx, "files/a.txt", HashBytes([]byte("content v2")))
	if err != nil {
		t.Fatalf("IsUploaded: %v", err)
	}
	if uploaded {
		t.Error("changed file reported as uploaded")
	}
}

func TestMarkUploadedReplacesRecord(t *testing.T) {
	tr := setupTracker(t)
	ctx := context.Background()

	if err := tr.MarkUploaded(ctx, Record{Path: "b.txt", SHA256: "h1", Size: 1}); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}
	if err := tr.MarkUploaded(ctx, Record{Path: "b.txt", SHA256: "h2", Size: 5}); err != nil {
		t.Fatalf("MarkUploaded (replace): %v", err)
	}

	rec, err := tr.Get(ctx, "b.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec == nil {
		t.Fatal("record not found")
	}
	if rec.SHA256 != "h2" || rec.Size != 5 {
		t.Errorf("record = %+v, want updated hash and size", rec)
	}
	if rec.Filename != "b.txt" {
		t.Errorf("filename defaulted to %q, want base name", rec.Filename)
	}
}

func TestStatsAndClear(t *testing.T) {
	tr := setupTracker(t)
	ctx := context.Background()

	for i, p := range []string{"one.txt", "two.pdf"} {
		if err := tr.MarkUploaded(ctx, Record{Path: p, SHA256: "h", Size: int64(i + 3)}); err != nil {
			t.Fatalf("MarkUploaded: %v", err)
		}
	}

	stats, err := tr.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalDocuments != 2 || stats.TotalBytes != 7 {
		t.Errorf("stats = %+v, want 2 docs / 7 bytes", stats)
	}

	if err := tr.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats, err = tr.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats after clear: %v", err)
	}
	if stats.TotalDocuments != 0 {
		t.Errorf("expected empty tracker after clear, got %+v", stats)
	}

	records, err := tr.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
