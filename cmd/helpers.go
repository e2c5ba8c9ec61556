package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/nselim/graphdesk/internal/config"
	"github.com/nselim/graphdesk/internal/db"
	"github.com/nselim/graphdesk/internal/embeddings"
	"github.com/nselim/graphdesk/internal/graphrag"
	"github.com/nselim/graphdesk/internal/simindex"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `graphdesk init` to create a config file", err)
	}
	return cfg, nil
}

// newBackendClient creates the GraphRAG client from config.
func newBackendClient(cfg *config.Config) *graphrag.Client {
	return graphrag.NewClient(cfg.BackendURL, time.Duration(cfg.RequestTimeout)*time.Second)
}

// openDatabase opens the local state database under the data directory.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	return db.Open(filepath.Join(cfg.DataDir, "graphdesk.db"))
}

// newEmbedder creates the OpenAI embedder for the similarity index.
func newEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	apiKey := config.OpenAIAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for similarity embeddings")
	}
	model := embeddings.OpenAIModel(cfg.Assistant.EmbeddingModel)
	if model == "" {
		model = embeddings.ModelTextEmbedding3Small
	}
	return embeddings.NewOpenAIEmbedder(apiKey, model), nil
}

// loadIndex opens the persisted similarity index, creating an empty one on
// first use.
func loadIndex(cfg *config.Config, embedder embeddings.Embedder) (*simindex.Index, error) {
	ix, err := simindex.New(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating similarity index: %w", err)
	}
	if err := ix.Load(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("loading similarity index: %w", err)
	}
	return ix, nil
}
