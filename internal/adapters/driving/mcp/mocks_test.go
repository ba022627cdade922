package mcp

import (
	"context"
	"errors"

	"github.com/harborlight/docq/internal/core/domain"
)

// mockRAGService is a scripted RAG service for handler tests.
type mockRAGService struct {
	answer     *domain.Answer
	queryErr   error
	lastQuery  domain.Query
	queryCalls int

	docs    []domain.DocumentInfo
	content string

	deleted int
	cleared int
}

func (m *mockRAGService) Ingest(_ context.Context, _ domain.Document) (int, error) {
	return 0, errors.New("not implemented")
}

func (m *mockRAGService) Query(_ context.Context, q domain.Query) (*domain.Answer, error) {
	m.queryCalls++
	m.lastQuery = q
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.answer, nil
}

func (m *mockRAGService) ListDocuments(_ context.Context) ([]domain.DocumentInfo, error) {
	return m.docs, nil
}

func (m *mockRAGService) DocumentContent(_ context.Context, documentID string) (string, error) {
	if m.content == "" {
		return "", domain.ErrNotFound
	}
	return m.content, nil
}

func (m *mockRAGService) DeleteDocument(_ context.Context, _ string) (int, error) {
	return m.deleted, nil
}

func (m *mockRAGService) ClearIndex(_ context.Context) (int, error) {
	return m.cleared, nil
}

// mockIngestService records AddFile calls.
type mockIngestService struct {
	result   domain.IngestResult
	lastPath string
	lastType string
}

func (m *mockIngestService) AddFile(_ context.Context, path, docType string) domain.IngestResult {
	m.lastPath = path
	m.lastType = docType
	return m.result
}

func (m *mockIngestService) AddBatch(_ context.Context, paths []string, docType string) domain.BatchReport {
	report := domain.BatchReport{ID: "batch"}
	for _, path := range paths {
		report.Results = append(report.Results, m.AddFile(context.Background(), path, docType))
	}
	return report
}
