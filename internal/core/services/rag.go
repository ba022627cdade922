package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/harborlight/docq/internal/core/domain"
	"github.com/harborlight/docq/internal/core/ports/driven"
	"github.com/harborlight/docq/internal/core/ports/driving"
	"github.com/harborlight/docq/internal/logger"
)

// Ensure RAGEngine implements the interface.
var _ driving.RAGService = (*RAGEngine)(nil)

// RAGEngine composes the chunker, embedder, vector store, and answer
// generator into the ingestion and query operations.
type RAGEngine struct {
	chunker   driven.Chunker
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	generator AnswerGenerator
	topK      int

	// docLocks serializes ingestion per document ID. Concurrent
	// ingestion of different documents proceeds in parallel; concurrent
	// ingestion of the same ID must not interleave chunk sets.
	mu       sync.Mutex
	docLocks map[string]*sync.Mutex
}

// NewRAGEngine creates the retrieval orchestrator.
func NewRAGEngine(
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	generator AnswerGenerator,
	retrieval domain.RetrievalSettings,
) *RAGEngine {
	topK := retrieval.TopK
	if topK <= 0 {
		topK = 5
	}
	return &RAGEngine{
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		generator: generator,
		topK:      topK,
		docLocks:  make(map[string]*sync.Mutex),
	}
}

// Ingest chunks, embeds, and stores one document. Atomic per document:
// if chunking or embedding fails, nothing is stored, so re-ingesting
// the same document ID stays idempotent.
func (e *RAGEngine) Ingest(ctx context.Context, doc domain.Document) (int, error) {
	if strings.TrimSpace(doc.ID) == "" {
		return 0, fmt.Errorf("%w: document ID is required", domain.ErrInvalidConfiguration)
	}

	lock := e.lockFor(doc.ID)
	lock.Lock()
	defer lock.Unlock()

	logger.Stage("Ingest")
	defer logger.Timed("ingest " + doc.ID)()
	logger.Debug("Document: %s (type=%s, %d bytes)", doc.ID, doc.Type, len(doc.Content))

	chunks, err := e.chunker.Chunk(doc)
	if err != nil {
		return 0, fmt.Errorf("chunking document %s: %w", doc.ID, err)
	}
	if len(chunks) == 0 {
		// Replace semantics hold even here: a document whose new
		// content yields nothing must not keep its previous chunk set.
		if _, err := e.store.DeleteByDocument(ctx, doc.ID); err != nil {
			return 0, fmt.Errorf("removing stale chunks for %s: %w", doc.ID, err)
		}
		logger.Warn("Document %s produced no chunks", doc.ID)
		return 0, nil
	}
	logger.Debug("Created %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	// Upsert only happens after the full batch is embedded, so an
	// abandoned call never leaves a partial chunk set behind.
	embeddings, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding document %s: %w", doc.ID, err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingUnavailable, len(embeddings), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := e.store.UpsertDocument(ctx, doc.ID, chunks); err != nil {
		return 0, fmt.Errorf("storing document %s: %w", doc.ID, err)
	}

	logger.Info("Ingested %s: %d chunks", doc.ID, len(chunks))
	return len(chunks), nil
}

// Query embeds the question, retrieves the nearest passages, and asks
// the generator for an answer. Zero search results short-circuit to the
// insufficient-context answer; the generator is never invoked without
// passages to ground it.
func (e *RAGEngine) Query(ctx context.Context, q domain.Query) (*domain.Answer, error) {
	question := strings.TrimSpace(q.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidConfiguration)
	}

	topK := q.TopK
	if topK == 0 {
		topK = e.topK
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrInvalidConfiguration, topK)
	}

	logger.Stage("Query")
	defer logger.Timed("query")()
	logger.Debug("Question: %q, top-k: %d", question, topK)

	embedding, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	hits, err := e.store.Search(ctx, embedding, topK, q)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	logger.Debug("Retrieved %d passages", len(hits))

	if len(hits) == 0 {
		logger.Info("No relevant passages, returning insufficient-context answer")
		return domain.InsufficientContextAnswer(e.generator.ModelName()), nil
	}

	return e.generator.Generate(ctx, question, hits)
}

// ListDocuments returns stored documents aggregated by ID.
func (e *RAGEngine) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	return e.store.ListDocuments(ctx)
}

// DocumentContent returns the concatenated chunk content of a document.
func (e *RAGEngine) DocumentContent(ctx context.Context, documentID string) (string, error) {
	chunks, err := e.store.ChunksByDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	var b strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(chunk.Content)
	}
	return b.String(), nil
}

// DeleteDocument removes all chunks owned by the document.
func (e *RAGEngine) DeleteDocument(ctx context.Context, documentID string) (int, error) {
	lock := e.lockFor(documentID)
	lock.Lock()
	defer lock.Unlock()

	removed, err := e.store.DeleteByDocument(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("deleting document %s: %w", documentID, err)
	}
	logger.Info("Deleted %s: %d chunks removed", documentID, removed)
	return removed, nil
}

// ClearIndex removes every entry. It touches neither the generator nor
// the embedder configuration and needs no provider credentials.
func (e *RAGEngine) ClearIndex(ctx context.Context) (int, error) {
	removed, err := e.store.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clearing index: %w", err)
	}
	logger.Info("Cleared index: %d chunks removed", removed)
	return removed, nil
}

// lockFor returns the per-document ingestion lock.
func (e *RAGEngine) lockFor(documentID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.docLocks[documentID]
	if !ok {
		lock = &sync.Mutex{}
		e.docLocks[documentID] = lock
	}
	return lock
}
