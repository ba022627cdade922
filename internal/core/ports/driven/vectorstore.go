package driven

import (
	"context"

	"github.com/harborlight/docq/internal/core/domain"
)

// VectorStore persists chunk embeddings and metadata and answers
// nearest-neighbour queries over them. Entries are written durably as
// they are upserted; a search immediately following an upsert in the
// same process observes the new entries.
type VectorStore interface {
	// UpsertDocument atomically replaces the stored chunk set for the
	// chunks' owning document. Idempotent by chunk ID: re-adding an ID
	// replaces its embedding and metadata, never duplicates it. Either
	// all chunks are stored or none are.
	UpsertDocument(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// Search returns at most topK entries ordered by descending cosine
	// similarity to the query embedding, ties broken by insertion order.
	// topK <= 0 is a configuration error.
	Search(ctx context.Context, embedding []float32, topK int, filter domain.Query) ([]VectorHit, error)

	// DeleteByDocument removes all entries owned by the document and
	// returns the number removed.
	DeleteByDocument(ctx context.Context, documentID string) (int, error)

	// Clear removes all entries and returns the number removed.
	// Clearing is a local index mutation and needs no credentials.
	Clear(ctx context.Context) (int, error)

	// ListDocuments returns stored documents aggregated by document ID.
	ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error)

	// ChunksByDocument returns the stored chunks for a document in
	// position order.
	ChunksByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Close releases resources.
	Close() error
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk, embedding included.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score.
	Similarity float64
}
