// Package simindex maintains a local vector index over the text of
// documents this client has uploaded, used by the writing assistant's
// similarity check. It never sees the backend's own retrieval state.
package simindex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/nselim/graphdesk/internal/embeddings"
)

const collectionName = "uploads"

// chunkSize is the approximate number of runes per indexed chunk.
// Overlap keeps sentences split across a boundary findable.
const (
	chunkSize    = 1200
	chunkOverlap = 200
)

// Match is one similarity hit against an uploaded document.
type Match struct {
	Path       string  `json:"path"`
	Filename   string  `json:"filename"`
	Chunk      string  `json:"chunk"`
	Similarity float32 `json:"similarity"`
}

// Index is a chromem-backed similarity index.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// New creates an empty in-memory index using the given embedder.
func New(embedder embeddings.Embedder) (*Index, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Index{db: db, collection: col, embedFunc: ef}, nil
}

// AddDocument chunks the document text and indexes every chunk under
// the document's path. Empty text (e.g. docx, scanned PDFs) is a no-op.
func (ix *Index) AddDocument(ctx context.Context, path, text string) error {
	chunks := Chunk(text)
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("%s#%d", path, i),
			Content: chunk,
			Metadata: map[string]string{
				"path":     path,
				"filename": filepath.Base(path),
			},
		}
	}
	return ix.collection.AddDocuments(ctx, docs, 1)
}

// Search returns the chunks most similar to the query text.
func (ix *Index) Search(ctx context.Context, text string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 5
	}

	// chromem-go requires nResults <= collection size.
	count := ix.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := ix.collection.Query(ctx, text, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			Path:       r.Metadata["path"],
			Filename:   r.Metadata["filename"],
			Chunk:      r.Content,
			Similarity: r.Similarity,
		}
	}
	return matches, nil
}

// Count returns the number of indexed chunks.
func (ix *Index) Count() int { return ix.collection.Count() }

// Persist saves the index under dir.
func (ix *Index) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	return ix.db.ExportToFile(filepath.Join(dir, "simindex.gob.gz"), true, "")
}

// Load restores the index from dir. A missing file leaves the index empty.
func (ix *Index) Load(dir string) error {
	path := filepath.Join(dir, "simindex.gob.gz")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := ix.db.ImportFromFile(path, ""); err != nil {
		return fmt.Errorf("importing index: %w", err)
	}

	// Re-acquire collection reference after import.
	col := ix.db.GetCollection(collectionName, ix.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	ix.collection = col
	return nil
}

// Chunk splits text into overlapping rune windows, breaking on the last
// paragraph or sentence boundary inside each window when one exists.
func Chunk(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}

		window := string(runes[start:end])
		// Boundaries are ASCII, so byte offsets map back to rune counts.
		cut := len(runes[start:end])
		if idx := strings.LastIndex(window, "\n\n"); idx > 0 && len([]rune(window[:idx])) > chunkSize/2 {
			cut = len([]rune(window[:idx]))
		} else if idx := strings.LastIndexAny(window, ".!?"); idx >= 0 && len([]rune(window[:idx+1])) > chunkSize/2 {
			cut = len([]rune(window[:idx+1]))
		}

		chunk := strings.TrimSpace(string(runes[start : start+cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		advance := cut - chunkOverlap
		if advance < 1 {
			advance = cut
		}
		start += advance
	}
	return chunks
}
