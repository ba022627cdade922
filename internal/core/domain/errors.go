package domain

import "errors"

// Domain errors represent business logic failures.
// Adapter errors are wrapped into these so that callers (CLI, MCP)
// can map them onto transport-appropriate responses without knowing
// collaborator internals.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfiguration indicates bad construction parameters,
	// such as chunk overlap >= chunk size or a non-positive top-k.
	// It is raised at construction or first use, never silently corrected.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnreadablePDF indicates a corrupted or unparsable PDF.
	// Batch ingestion skips the file and reports it.
	ErrUnreadablePDF = errors.New("unreadable PDF")

	// ErrPasswordProtected indicates an encrypted PDF.
	// Batch ingestion skips the file with a warning.
	ErrPasswordProtected = errors.New("password protected PDF")

	// ErrEmbeddingUnavailable indicates the embedding backend failed to
	// load or respond. There is no degraded fallback: a zero-vector
	// substitute would silently corrupt retrieval ranking.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrProviderAuth indicates missing or invalid LLM credentials.
	// It surfaces only when a query actually needs generation;
	// ingestion and listing never require provider credentials.
	ErrProviderAuth = errors.New("provider authentication failed")

	// ErrProviderUnavailable indicates a transient LLM provider failure
	// (timeout, rate limit, 5xx). Caller-level retry is appropriate;
	// the core does not retry.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrIndexCorruption indicates the persisted index is unreadable or
	// inconsistent. Fatal: starting over with an empty index would
	// silently lose data, so the caller must decide how to recover.
	ErrIndexCorruption = errors.New("index corruption")

	// ErrDimensionMismatch indicates two vectors of different dimension
	// were compared, usually a sign of mixed embedder configurations.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
