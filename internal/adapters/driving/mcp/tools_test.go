package mcp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlight/docq/internal/core/domain"
)

func newTestServer(t *testing.T, rag *mockRAGService, ingest *mockIngestService) *Server {
	t.Helper()
	ports := &Ports{RAG: rag}
	if ingest != nil {
		ports.Ingest = ingest
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestHandleQuery_Success(t *testing.T) {
	rag := &mockRAGService{answer: &domain.Answer{
		Text:       "Use AT+RESET.",
		Confidence: 0.82,
		Model:      "gpt-4o-mini",
		Sources: []domain.Citation{
			{DocumentID: "manual.pdf", Section: "Reset", Position: 3, Similarity: 0.91},
		},
	}}
	server := newTestServer(t, rag, nil)

	_, output, err := server.handleQuery(context.Background(), nil, QueryInput{
		Question:     "how do I reset?",
		TopK:         3,
		DocumentType: "manual",
	})

	require.NoError(t, err)
	assert.Equal(t, "Use AT+RESET.", output.Answer)
	assert.InDelta(t, 0.82, output.Confidence, 1e-9)
	assert.False(t, output.InsufficientContext)
	require.Len(t, output.Sources, 1)
	assert.Equal(t, "manual.pdf", output.Sources[0].DocumentID)
	assert.Equal(t, 3, output.Sources[0].Position)

	// The query filter reaches the service unchanged.
	assert.Equal(t, "how do I reset?", rag.lastQuery.Question)
	assert.Equal(t, 3, rag.lastQuery.TopK)
	assert.Equal(t, "manual", rag.lastQuery.DocumentType)
}

func TestHandleQuery_InsufficientContext(t *testing.T) {
	rag := &mockRAGService{answer: domain.InsufficientContextAnswer("gpt-4o-mini")}
	server := newTestServer(t, rag, nil)

	_, output, err := server.handleQuery(context.Background(), nil, QueryInput{Question: "unknown topic?"})

	require.NoError(t, err)
	assert.True(t, output.InsufficientContext)
	assert.Equal(t, 0.0, output.Confidence)
	assert.Empty(t, output.Sources)
}

func TestHandleQuery_Error(t *testing.T) {
	rag := &mockRAGService{queryErr: fmt.Errorf("%w: bad key", domain.ErrProviderAuth)}
	server := newTestServer(t, rag, nil)

	_, _, err := server.handleQuery(context.Background(), nil, QueryInput{Question: "q"})

	require.ErrorIs(t, err, domain.ErrProviderAuth)
}

func TestHandleAddDocument_Success(t *testing.T) {
	ingest := &mockIngestService{result: domain.IngestResult{
		DocumentID: "guide.pdf",
		Chunks:     7,
	}}
	server := newTestServer(t, &mockRAGService{}, ingest)

	_, output, err := server.handleAddDocument(context.Background(), nil, AddDocumentInput{
		Path:         "/docs/guide.pdf",
		DocumentType: "manual",
	})

	require.NoError(t, err)
	assert.Equal(t, "guide.pdf", output.DocumentID)
	assert.Equal(t, 7, output.Chunks)
	assert.Equal(t, "/docs/guide.pdf", ingest.lastPath)
	assert.Equal(t, "manual", ingest.lastType)
}

func TestHandleAddDocument_Failure(t *testing.T) {
	ingest := &mockIngestService{result: domain.IngestResult{
		DocumentID: "bad.pdf",
		Err:        fmt.Errorf("%w: /docs/bad.pdf", domain.ErrUnreadablePDF),
	}}
	server := newTestServer(t, &mockRAGService{}, ingest)

	_, _, err := server.handleAddDocument(context.Background(), nil, AddDocumentInput{Path: "/docs/bad.pdf"})

	require.ErrorIs(t, err, domain.ErrUnreadablePDF)
}

func TestHandleAddDocument_NoIngestService(t *testing.T) {
	server := newTestServer(t, &mockRAGService{}, nil)

	_, _, err := server.handleAddDocument(context.Background(), nil, AddDocumentInput{Path: "/docs/a.pdf"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestHandleListDocuments(t *testing.T) {
	rag := &mockRAGService{docs: []domain.DocumentInfo{
		{DocumentID: "a.pdf", Type: "manual", ChunkCount: 4},
		{DocumentID: "b.pdf", ChunkCount: 2},
	}}
	server := newTestServer(t, rag, nil)

	_, output, err := server.handleListDocuments(context.Background(), nil, struct{}{})

	require.NoError(t, err)
	assert.Equal(t, 2, output.Count)
	require.Len(t, output.Documents, 2)
	assert.Equal(t, "a.pdf", output.Documents[0].DocumentID)
	assert.Equal(t, "manual", output.Documents[0].Type)
	assert.Equal(t, 4, output.Documents[0].Chunks)
}

func TestHandleDeleteDocument(t *testing.T) {
	rag := &mockRAGService{deleted: 5}
	server := newTestServer(t, rag, nil)

	_, output, err := server.handleDeleteDocument(context.Background(), nil, DeleteDocumentInput{DocumentID: "a.pdf"})

	require.NoError(t, err)
	assert.Equal(t, 5, output.Deleted)
}

func TestHandleClearDatabase(t *testing.T) {
	rag := &mockRAGService{cleared: 42}
	server := newTestServer(t, rag, nil)

	_, output, err := server.handleClearDatabase(context.Background(), nil, struct{}{})

	require.NoError(t, err)
	assert.Equal(t, 42, output.Deleted)
}
