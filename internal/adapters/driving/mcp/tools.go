package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harborlight/docq/internal/core/domain"
)

// QueryInput is the input schema for the query_documents tool.
type QueryInput struct {
	Question     string `json:"question" jsonschema:"the question to answer from the knowledge base"`
	TopK         int    `json:"top_k,omitempty" jsonschema:"number of passages to retrieve (default from settings)"`
	DocumentType string `json:"document_type,omitempty" jsonschema:"restrict retrieval to documents with this type tag"`
	DocumentID   string `json:"document_id,omitempty" jsonschema:"restrict retrieval to a single document"`
}

// QueryOutput is the output schema for the query_documents tool.
type QueryOutput struct {
	Answer              string         `json:"answer"`
	Confidence          float64        `json:"confidence"`
	Sources             []SourceOutput `json:"sources"`
	Model               string         `json:"model,omitempty"`
	InsufficientContext bool           `json:"insufficient_context"`
}

// SourceOutput is one citation in a query answer.
type SourceOutput struct {
	DocumentID string  `json:"document_id"`
	Section    string  `json:"section,omitempty"`
	Position   int     `json:"position"`
	Similarity float64 `json:"similarity"`
}

// AddDocumentInput is the input schema for the add_document tool.
type AddDocumentInput struct {
	Path         string `json:"path" jsonschema:"filesystem path of the PDF to ingest"`
	DocumentType string `json:"document_type,omitempty" jsonschema:"type tag to store with the document"`
}

// AddDocumentOutput is the output schema for the add_document tool.
type AddDocumentOutput struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput is one stored document in a listing.
type DocumentOutput struct {
	DocumentID string `json:"document_id"`
	Type       string `json:"type,omitempty"`
	Source     string `json:"source,omitempty"`
	Chunks     int    `json:"chunks"`
}

// DeleteDocumentInput is the input schema for the delete_document tool.
type DeleteDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document whose chunks should be removed"`
}

// DeleteDocumentOutput is the output schema for the delete_document tool.
type DeleteDocumentOutput struct {
	Deleted int `json:"deleted"`
}

// ClearDatabaseOutput is the output schema for the clear_database tool.
type ClearDatabaseOutput struct {
	Deleted int `json:"deleted"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_documents",
		Description: "Answer a question from the ingested documents, with source citations",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_document",
		Description: "Convert a PDF file and add it to the knowledge base",
	}, s.handleAddDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List documents stored in the knowledge base",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Remove one document and all of its chunks",
	}, s.handleDeleteDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_database",
		Description: "Remove every document from the knowledge base",
	}, s.handleClearDatabase)
}

// handleQuery handles the query_documents tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	answer, err := s.ports.RAG.Query(ctx, domain.Query{
		Question:     input.Question,
		TopK:         input.TopK,
		DocumentType: input.DocumentType,
		DocumentID:   input.DocumentID,
	})
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Answer:              answer.Text,
		Confidence:          answer.Confidence,
		Sources:             make([]SourceOutput, len(answer.Sources)),
		Model:               answer.Model,
		InsufficientContext: answer.InsufficientContext,
	}
	for i, src := range answer.Sources {
		output.Sources[i] = SourceOutput{
			DocumentID: src.DocumentID,
			Section:    src.Section,
			Position:   src.Position,
			Similarity: src.Similarity,
		}
	}
	return nil, output, nil
}

// handleAddDocument handles the add_document tool invocation.
func (s *Server) handleAddDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDocumentInput,
) (*mcp.CallToolResult, AddDocumentOutput, error) {
	if s.ports.Ingest == nil {
		return nil, AddDocumentOutput{}, errors.New("document ingestion is not available on this server")
	}

	result := s.ports.Ingest.AddFile(ctx, input.Path, input.DocumentType)
	if result.Err != nil {
		return nil, AddDocumentOutput{}, result.Err
	}
	return nil, AddDocumentOutput{
		DocumentID: result.DocumentID,
		Chunks:     result.Chunks,
	}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.RAG.ListDocuments(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i, doc := range docs {
		output.Documents[i] = DocumentOutput{
			DocumentID: doc.DocumentID,
			Type:       doc.Type,
			Source:     doc.Source,
			Chunks:     doc.ChunkCount,
		}
	}
	return nil, output, nil
}

// handleDeleteDocument handles the delete_document tool invocation.
func (s *Server) handleDeleteDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteDocumentInput,
) (*mcp.CallToolResult, DeleteDocumentOutput, error) {
	deleted, err := s.ports.RAG.DeleteDocument(ctx, input.DocumentID)
	if err != nil {
		return nil, DeleteDocumentOutput{}, err
	}
	return nil, DeleteDocumentOutput{Deleted: deleted}, nil
}

// handleClearDatabase handles the clear_database tool invocation.
func (s *Server) handleClearDatabase(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ClearDatabaseOutput, error) {
	deleted, err := s.ports.RAG.ClearIndex(ctx)
	if err != nil {
		return nil, ClearDatabaseOutput{}, err
	}
	return nil, ClearDatabaseOutput{Deleted: deleted}, nil
}
