package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlight/docq/internal/core/domain"
)

func TestAddFile_Success(t *testing.T) {
	converter := &mockConverter{texts: map[string]string{
		"/docs/modem-guide.pdf": "# Guide\nsome content",
	}}
	rag := &mockRAG{chunks: 4}
	ingester := NewIngester(converter, rag)

	result := ingester.AddFile(context.Background(), "/docs/modem-guide.pdf", "manual")

	require.NoError(t, result.Err)
	assert.True(t, result.OK())
	assert.Equal(t, "modem-guide.pdf", result.DocumentID, "document ID is the base name")
	assert.Equal(t, "/docs/modem-guide.pdf", result.Source)
	assert.Equal(t, 4, result.Chunks)

	require.Len(t, rag.ingested, 1)
	assert.Equal(t, "manual", rag.ingested[0].Type)
	assert.Equal(t, "# Guide\nsome content", rag.ingested[0].Content)
	assert.False(t, rag.ingested[0].CreatedAt.IsZero())
}

func TestAddFile_PasswordProtected(t *testing.T) {
	converter := &mockConverter{errs: map[string]error{
		"/docs/locked.pdf": fmt.Errorf("%w: /docs/locked.pdf", domain.ErrPasswordProtected),
	}}
	rag := &mockRAG{}
	ingester := NewIngester(converter, rag)

	result := ingester.AddFile(context.Background(), "/docs/locked.pdf", "")

	require.ErrorIs(t, result.Err, domain.ErrPasswordProtected)
	assert.Empty(t, rag.ingested, "a protected file is skipped, not ingested")
}

func TestAddFile_IngestFailure(t *testing.T) {
	converter := &mockConverter{texts: map[string]string{"/docs/a.pdf": "text"}}
	rag := &mockRAG{ingestErr: fmt.Errorf("%w: ollama down", domain.ErrEmbeddingUnavailable)}
	ingester := NewIngester(converter, rag)

	result := ingester.AddFile(context.Background(), "/docs/a.pdf", "")

	require.ErrorIs(t, result.Err, domain.ErrEmbeddingUnavailable)
}

func TestAddBatch_OneBadFileDoesNotAbort(t *testing.T) {
	converter := &mockConverter{
		texts: map[string]string{
			"/docs/a.pdf": "content a",
			"/docs/c.pdf": "content c",
		},
		errs: map[string]error{
			"/docs/b.pdf": fmt.Errorf("%w: /docs/b.pdf", domain.ErrUnreadablePDF),
		},
	}
	rag := &mockRAG{chunks: 2}
	ingester := NewIngester(converter, rag)

	report := ingester.AddBatch(context.Background(), []string{"/docs/a.pdf", "/docs/b.pdf", "/docs/c.pdf"}, "manual")

	assert.NotEmpty(t, report.ID)
	require.Len(t, report.Results, 3)
	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Failed())

	// Results keep request order.
	assert.Equal(t, "a.pdf", report.Results[0].DocumentID)
	assert.True(t, report.Results[0].OK())
	assert.ErrorIs(t, report.Results[1].Err, domain.ErrUnreadablePDF)
	assert.Equal(t, "c.pdf", report.Results[2].DocumentID)
	assert.True(t, report.Results[2].OK())

	assert.Len(t, rag.ingested, 2)
}

func TestAddBatch_TenDocumentsAllReported(t *testing.T) {
	converter := &mockConverter{texts: map[string]string{}, errs: map[string]error{}}
	var paths []string
	for i := 0; i < 10; i++ {
		path := fmt.Sprintf("/docs/doc-%02d.pdf", i)
		paths = append(paths, path)
		if i == 3 {
			converter.errs[path] = fmt.Errorf("%w: %s", domain.ErrUnreadablePDF, path)
			continue
		}
		converter.texts[path] = fmt.Sprintf("content of document %d", i)
	}
	rag := &mockRAG{chunks: 1}
	ingester := NewIngester(converter, rag)

	report := ingester.AddBatch(context.Background(), paths, "")

	// Every requested document gets a result line; none vanish silently.
	require.Len(t, report.Results, 10)
	assert.Equal(t, 9, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	for i, r := range report.Results {
		assert.Equal(t, fmt.Sprintf("doc-%02d.pdf", i), r.DocumentID)
	}
	assert.ErrorIs(t, report.Results[3].Err, domain.ErrUnreadablePDF)
	assert.Len(t, rag.ingested, 9)
}

func TestAddBatch_Empty(t *testing.T) {
	ingester := NewIngester(&mockConverter{}, &mockRAG{})

	report := ingester.AddBatch(context.Background(), nil, "")

	assert.NotEmpty(t, report.ID)
	assert.Empty(t, report.Results)
	assert.Equal(t, 0, report.Succeeded())
	assert.Equal(t, 0, report.Failed())
}
