package driven

import "context"

// Converter extracts text from a source file for ingestion.
// The PDF implementation wraps an external parsing library; the core
// never parses PDFs itself.
//
// Failures are wrapped into domain.ErrUnreadablePDF (corrupted) or
// domain.ErrPasswordProtected (encrypted, skip with warning).
type Converter interface {
	// Convert reads the file at path and returns its text content.
	Convert(ctx context.Context, path string) (string, error)
}
