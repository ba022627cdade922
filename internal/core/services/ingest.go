package services

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/harborlight/docq/internal/core/domain"
	"github.com/harborlight/docq/internal/core/ports/driven"
	"github.com/harborlight/docq/internal/core/ports/driving"
	"github.com/harborlight/docq/internal/logger"
)

// Ensure Ingester implements the interface.
var _ driving.IngestService = (*Ingester)(nil)

// Ingester converts source files and feeds them through the RAG
// pipeline, reporting per-document outcomes.
type Ingester struct {
	converter driven.Converter
	rag       driving.RAGService
}

// NewIngester creates a file ingestion service.
func NewIngester(converter driven.Converter, rag driving.RAGService) *Ingester {
	return &Ingester{
		converter: converter,
		rag:       rag,
	}
}

// AddFile converts one file and ingests it under its base name.
func (s *Ingester) AddFile(ctx context.Context, path, docType string) domain.IngestResult {
	documentID := filepath.Base(path)
	result := domain.IngestResult{
		DocumentID: documentID,
		Source:     path,
	}

	text, err := s.converter.Convert(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordProtected) {
			logger.Warn("Skipping %s: %v", path, err)
		}
		result.Err = err
		return result
	}

	doc := domain.Document{
		ID:        documentID,
		Type:      docType,
		Source:    path,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	}

	chunks, err := s.rag.Ingest(ctx, doc)
	if err != nil {
		result.Err = err
		return result
	}

	result.Chunks = chunks
	return result
}

// AddBatch converts and ingests many files. Each file succeeds or
// fails on its own; one corrupted source never aborts the batch.
func (s *Ingester) AddBatch(ctx context.Context, paths []string, docType string) domain.BatchReport {
	report := domain.BatchReport{
		ID:      uuid.New().String(),
		Results: make([]domain.IngestResult, 0, len(paths)),
	}

	logger.Stage("Batch Ingest")
	defer logger.Timed("batch " + report.ID)()
	logger.Debug("Batch %s: %d files", report.ID, len(paths))

	for _, path := range paths {
		result := s.AddFile(ctx, path, docType)
		if result.Err != nil {
			logger.Warn("Failed %s: %v", path, result.Err)
		}
		report.Results = append(report.Results, result)
	}

	logger.Info("Batch %s: %d succeeded, %d failed", report.ID, report.Succeeded(), report.Failed())
	return report
}
