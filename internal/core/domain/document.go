package domain

import (
	"fmt"
	"time"
)

// Document represents a logical source unit of text to be indexed.
// It is immutable once chunked: re-ingesting the same ID replaces
// the stored chunk set atomically.
type Document struct {
	// ID is the unique identifier, typically the file name.
	ID string

	// Type is a free-form document classification tag (e.g. "manual").
	Type string

	// Source is the original location the content came from (file path, URL).
	Source string

	// Content is the full text content after conversion.
	Content string

	// Metadata contains arbitrary key-value pairs carried onto chunks.
	Metadata map[string]any

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk is the retrieval unit: a contiguous span of a document's text.
type Chunk struct {
	// ID is the deterministic chunk identifier, derived from the owning
	// document ID and the chunk's ordinal position. Determinism makes
	// re-ingestion of a document idempotent.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// DocumentType is a copy of the owning document's type tag.
	DocumentType string

	// Source is a copy of the owning document's source location.
	Source string

	// Position is the ordinal position within the document.
	Position int

	// Content is the text content of this chunk.
	Content string

	// TokenCount is the number of tokens in Content.
	TokenCount int

	// Section is the heading the chunk falls under, when derivable.
	Section string

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// ChunkID derives the deterministic chunk identifier for a document
// position. Chunk IDs must be stable across re-ingestion so that
// upserting a document never leaves stale duplicates behind.
func ChunkID(documentID string, position int) string {
	return fmt.Sprintf("%s#%d", documentID, position)
}

// DocumentInfo is an aggregate view of a stored document.
type DocumentInfo struct {
	// DocumentID is the document identifier.
	DocumentID string

	// Type is the document classification tag.
	Type string

	// Source is the original location.
	Source string

	// ChunkCount is the number of chunks stored for this document.
	ChunkCount int
}
