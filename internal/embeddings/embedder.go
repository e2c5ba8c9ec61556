package embeddings

import "context"

// Embedder turns text into vectors for the upload similarity index.
type Embedder interface {
	// Embed returns one vector per input text, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions reports the width of the vectors this embedder produces.
	Dimensions() int

	// Name identifies the underlying model, for logging and index metadata.
	Name() string
}
