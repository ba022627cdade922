package driven

import "github.com/harborlight/docq/internal/core/domain"

// Chunker splits a document's text into overlapping passages.
// Chunking is deterministic: the same document and configuration always
// yield the same chunk sequence, including chunk IDs.
type Chunker interface {
	// Chunk derives the chunk sequence for a document. An empty
	// document yields an empty sequence, not an error.
	Chunk(doc domain.Document) ([]domain.Chunk, error)
}
