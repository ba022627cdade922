package services

import (
	"context"
	"errors"
	"sync"

	"github.com/harborlight/docq/internal/core/domain"
	"github.com/harborlight/docq/internal/core/ports/driven"
)

// mockChunker returns a fixed chunk sequence.
type mockChunker struct {
	chunks []domain.Chunk
	err    error
}

func (m *mockChunker) Chunk(_ domain.Document) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

// mockEmbedder returns canned vectors and counts calls.
type mockEmbedder struct {
	vector     []float32
	batchErr   error
	embedErr   error
	batchCalls int
	embedCalls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = m.vector
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return len(m.vector) }
func (m *mockEmbedder) ModelName() string            { return "mock-embedder" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockStore records upserts and serves canned search hits.
type mockStore struct {
	mu          sync.Mutex
	upserted    map[string][]domain.Chunk
	upsertErr   error
	hits        []driven.VectorHit
	searchErr   error
	docs        []domain.DocumentInfo
	chunks      []domain.Chunk
	deleteCount int
	deleteCalls int
	clearCount  int
}

func newMockStore() *mockStore {
	return &mockStore{upserted: make(map[string][]domain.Chunk)}
}

func (m *mockStore) UpsertDocument(_ context.Context, documentID string, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted[documentID] = chunks
	return nil
}

func (m *mockStore) Search(_ context.Context, _ []float32, _ int, _ domain.Query) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.hits, nil
}

func (m *mockStore) DeleteByDocument(_ context.Context, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	return m.deleteCount, nil
}

func (m *mockStore) Clear(_ context.Context) (int, error) {
	return m.clearCount, nil
}

func (m *mockStore) ListDocuments(_ context.Context) ([]domain.DocumentInfo, error) {
	return m.docs, nil
}

func (m *mockStore) ChunksByDocument(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, nil
}

func (m *mockStore) Close() error { return nil }

// mockGenerator counts invocations so tests can assert the zero-hit
// short-circuit never reaches it.
type mockGenerator struct {
	answer *domain.Answer
	err    error
	calls  int
}

func (m *mockGenerator) Generate(_ context.Context, _ string, _ []driven.VectorHit) (*domain.Answer, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockGenerator) ModelName() string { return "mock-model" }

// mockLLM is a scripted provider client.
type mockLLM struct {
	response      string
	generateErr   error
	pingErr       error
	generateCalls int
	pingCalls     int
	closed        bool
}

func (m *mockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	m.generateCalls++
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error {
	m.pingCalls++
	return m.pingErr
}

func (m *mockLLM) Close() error {
	m.closed = true
	return nil
}

// countingFactory wraps an LLM factory and counts invocations.
type countingFactory struct {
	llm   *mockLLM
	err   error
	calls int
}

func (f *countingFactory) factory() driven.LLMFactory {
	return func() (driven.LLMService, error) {
		f.calls++
		if f.err != nil {
			return nil, f.err
		}
		return f.llm, nil
	}
}

// mockConverter returns canned text per path.
type mockConverter struct {
	texts map[string]string
	errs  map[string]error
}

func (m *mockConverter) Convert(_ context.Context, path string) (string, error) {
	if err, ok := m.errs[path]; ok {
		return "", err
	}
	if text, ok := m.texts[path]; ok {
		return text, nil
	}
	return "", errors.New("unexpected path: " + path)
}

// mockRAG records ingested documents.
type mockRAG struct {
	ingested  []domain.Document
	ingestErr error
	chunks    int
}

func (m *mockRAG) Ingest(_ context.Context, doc domain.Document) (int, error) {
	if m.ingestErr != nil {
		return 0, m.ingestErr
	}
	m.ingested = append(m.ingested, doc)
	return m.chunks, nil
}

func (m *mockRAG) Query(_ context.Context, _ domain.Query) (*domain.Answer, error) {
	return nil, errors.New("not implemented")
}

func (m *mockRAG) ListDocuments(_ context.Context) ([]domain.DocumentInfo, error) {
	return nil, nil
}

func (m *mockRAG) DocumentContent(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (m *mockRAG) DeleteDocument(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (m *mockRAG) ClearIndex(_ context.Context) (int, error) {
	return 0, nil
}
