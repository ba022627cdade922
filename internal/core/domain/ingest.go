package domain

// IngestResult reports the outcome of ingesting one document.
// A batch never aborts on a single bad document; each entry carries
// its own success or a specific failure reason.
type IngestResult struct {
	// DocumentID is the document this result is for.
	DocumentID string

	// Source is the original location that was ingested.
	Source string

	// Chunks is the number of chunks stored on success.
	Chunks int

	// Err is the failure reason, nil on success.
	Err error
}

// OK returns true if the document was ingested successfully.
func (r IngestResult) OK() bool {
	return r.Err == nil
}

// BatchReport aggregates per-document results for a batch ingestion.
type BatchReport struct {
	// ID identifies the batch run.
	ID string

	// Results holds one entry per requested document, in request order.
	Results []IngestResult
}

// Succeeded returns the number of successfully ingested documents.
func (b BatchReport) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of failed documents.
func (b BatchReport) Failed() int {
	return len(b.Results) - b.Succeeded()
}
