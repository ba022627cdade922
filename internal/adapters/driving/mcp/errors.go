// Package mcp provides an MCP (Model Context Protocol) server adapter
// for docq. It lets AI assistants query and manage the local document
// knowledge base.
package mcp

import "errors"

// ErrMissingRAGService is returned when the RAG service is not provided.
var ErrMissingRAGService = errors.New("mcp: rag service is required")
