package simindex

import (
	"context"
	"strings"
	"testing"
)

// stubEmbedder produces deterministic unit vectors so tests run without
// an API key. Texts sharing a keyword land on the same axis.
type stubEmbedder struct{}

func (stubEmbedder) Name() string    { return "stub" }
func (stubEmbedder) Dimensions() int { return 4 }

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, 4)
		switch {
		case strings.Contains(text, "grpc"):
			v[0] = 1
		case strings.Contains(text, "cache"):
			v[1] = 1
		case strings.Contains(text, "raft"):
			v[2] = 1
		default:
			v[3] = 1
		}
		out[i] = v
	}
	return out, nil
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := New(stubEmbedder{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ix
}

func TestAddAndSearch(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	if err := ix.AddDocument(ctx, "files/transport.txt", "notes about grpc streaming"); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if err := ix.AddDocument(ctx, "files/storage.txt", "cache eviction policies"); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	matches, err := ix.Search(ctx, "my draft discusses grpc backpressure", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	if matches[0].Path != "files/transport.txt" {
		t.Errorf("top match = %q, want transport notes", matches[0].Path)
	}
	if matches[0].Filename != "transport.txt" {
		t.Errorf("filename = %q", matches[0].Filename)
	}
	if matches[0].Similarity <= matches[len(matches)-1].Similarity && len(matches) > 1 {
		t.Error("matches not ordered by similarity")
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	ix := newTestIndex(t)

	matches, err := ix.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if matches != nil {
		t.Errorf("expected nil matches on empty index, got %v", matches)
	}
}

func TestAddEmptyTextIsNoop(t *testing.T) {
	ix := newTestIndex(t)

	if err := ix.AddDocument(context.Background(), "files/scan.pdf", "   "); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if ix.Count() != 0 {
		t.Errorf("count = %d, want 0", ix.Count())
	}
}

func TestPersistAndLoad(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()
	dir := t.TempDir()

	if err := ix.AddDocument(ctx, "files/consensus.txt", "raft leader election"); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if err := ix.Persist(dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	restored := newTestIndex(t)
	if err := restored.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored.Count() != 1 {
		t.Fatalf("restored count = %d, want 1", restored.Count())
	}

	matches, err := restored.Search(ctx, "raft", 1)
	if err != nil {
		t.Fatalf("Search after load: %v", err)
	}
	if len(matches) != 1 || matches[0].Path != "files/consensus.txt" {
		t.Errorf("matches = %+v", matches)
	}
}

func TestLoadMissingDirIsNoop(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Load(t.TempDir()); err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if ix.Count() != 0 {
		t.Errorf("count = %d", ix.Count())
	}
}

func TestChunk(t *testing.T) {
	if got := Chunk(""); got != nil {
		t.Errorf("Chunk(\"\") = %v", got)
	}

	short := "one short paragraph."
	if got := Chunk(short); len(got) != 1 || got[0] != short {
		t.Errorf("Chunk(short) = %v", got)
	}

	// Build text well past one chunk; sentences end with periods so the
	// splitter has boundaries to cut on.
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("This sentence pads the document with enough length to split. ")
	}
	chunks := Chunk(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len([]rune(c)) > chunkSize {
			t.Errorf("chunk %d exceeds chunk size: %d runes", i, len([]rune(c)))
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}
