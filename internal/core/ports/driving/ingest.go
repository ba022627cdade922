package driving

import (
	"context"

	"github.com/harborlight/docq/internal/core/domain"
)

// IngestService converts source files and feeds them through the RAG
// pipeline.
type IngestService interface {
	// AddFile converts one file and ingests it with the given document
	// type tag. Returns the per-document result.
	AddFile(ctx context.Context, path, docType string) domain.IngestResult

	// AddBatch converts and ingests many files. One bad file never
	// aborts the batch; the report carries a per-document outcome.
	AddBatch(ctx context.Context, paths []string, docType string) domain.BatchReport
}
