// Package domain defines the core business entities for docq.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A source unit of text to be indexed
//   - Chunk: The retrieval unit stored in the vector index
//   - Query: An ephemeral retrieval request
//   - Answer: A generated, source-attributed response
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
