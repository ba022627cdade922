package cli

import (
	"context"
	"errors"

	"github.com/harborlight/docq/internal/core/domain"
)

// mockRAGService is a scripted RAG service for command tests.
type mockRAGService struct {
	answer   *domain.Answer
	queryErr error
	docs     []domain.DocumentInfo
	content  string
	deleted  int
	cleared  int
}

func (m *mockRAGService) Ingest(_ context.Context, _ domain.Document) (int, error) {
	return 0, errors.New("not implemented")
}

func (m *mockRAGService) Query(_ context.Context, _ domain.Query) (*domain.Answer, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.answer, nil
}

func (m *mockRAGService) ListDocuments(_ context.Context) ([]domain.DocumentInfo, error) {
	return m.docs, nil
}

func (m *mockRAGService) DocumentContent(_ context.Context, _ string) (string, error) {
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

// mockIngestService returns canned per-file results.
type mockIngestService struct {
	results map[string]domain.IngestResult
}

func (m *mockIngestService) AddFile(_ context.Context, path, _ string) domain.IngestResult {
	if r, ok := m.results[path]; ok {
		return r
	}
	return domain.IngestResult{DocumentID: path, Source: path, Err: errors.New("unexpected path")}
}

func (m *mockIngestService) AddBatch(ctx context.Context, paths []string, docType string) domain.BatchReport {
	report := domain.BatchReport{ID: "test-batch"}
	for _, path := range paths {
		report.Results = append(report.Results, m.AddFile(ctx, path, docType))
	}
	return report
}
