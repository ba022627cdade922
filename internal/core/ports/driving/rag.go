package driving

import (
	"context"

	"github.com/harborlight/docq/internal/core/domain"
)

// RAGService is the retrieval orchestrator exposed to external actors.
// Operations are re-entrant and independent: queries are read-only and
// may run concurrently with each other and with ingestion of different
// documents; ingestion of the same document ID is serialized.
type RAGService interface {
	// Ingest chunks, embeds, and stores one document. All-or-nothing:
	// a failure at any step leaves no partial chunk set behind.
	// Returns the number of chunks stored.
	Ingest(ctx context.Context, doc domain.Document) (int, error)

	// Query embeds the question, retrieves the nearest passages, and
	// generates a source-attributed answer. When retrieval finds
	// nothing relevant, it returns the insufficient-context answer
	// without invoking the generator.
	Query(ctx context.Context, q domain.Query) (*domain.Answer, error)

	// ListDocuments returns stored documents aggregated by ID.
	ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error)

	// DocumentContent returns the concatenated chunk content of a
	// stored document.
	DocumentContent(ctx context.Context, documentID string) (string, error)

	// DeleteDocument removes all chunks owned by the document and
	// returns the number removed.
	DeleteDocument(ctx context.Context, documentID string) (int, error)

	// ClearIndex removes every entry from the vector store and returns
	// the number removed. Needs no provider credentials.
	ClearIndex(ctx context.Context) (int, error)
}
