package mcp

import (
	"github.com/harborlight/docq/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// RAG answers questions and manages the vector index.
	RAG driving.RAGService

	// Ingest converts and ingests source files.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	// Ingest is optional; add_document reports unsupported without it.
	return nil
}
