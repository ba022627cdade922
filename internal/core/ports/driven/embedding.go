package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorStore which stores and searches
// vectors. EmbeddingService generates vectors; VectorStore stores them.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//
// Embeddings are independent of LLM credentials: a query made without
// an LLM key must still be able to embed. Failures are wrapped into
// domain.ErrEmbeddingUnavailable, never degraded to zero vectors.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// This is determined by the model and must match the stored index.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
