package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlight/docq/internal/adapters/driven/storage/sqlite"
	"github.com/harborlight/docq/internal/chunker"
	"github.com/harborlight/docq/internal/core/domain"
)

// keywordEmbedder embeds text as keyword occurrence counts, giving the
// pipeline tests deterministic similarities without a provider.
type keywordEmbedder struct {
	vocab []string
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	vec := make([]float32, len(e.vocab))
	for i, word := range e.vocab {
		vec[i] = float32(strings.Count(lower, word))
	}
	return vec, nil
}

func (e *keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *keywordEmbedder) Dimensions() int              { return len(e.vocab) }
func (e *keywordEmbedder) ModelName() string            { return "keyword-stub" }
func (e *keywordEmbedder) Ping(_ context.Context) error { return nil }
func (e *keywordEmbedder) Close() error                 { return nil }

// newPipeline wires a real chunker and sqlite store to the stub
// embedder and LLM, mirroring the production assembly in the CLI.
func newPipeline(t *testing.T, llm *mockLLM) (*RAGEngine, *countingFactory) {
	t.Helper()

	chunk, err := chunker.New(domain.ChunkingSettings{
		MaxTokens:     10,
		OverlapTokens: 2,
		Strategy:      domain.ChunkStrategyTokens,
	})
	require.NoError(t, err)

	store, err := sqlite.NewStore(t.TempDir(), "pipeline_docs", "stub/keyword-v1")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	embedder := &keywordEmbedder{vocab: []string{"reset", "device", "signal", "csq"}}
	cf := &countingFactory{llm: llm}
	gen := NewGenerator(cf.factory(), domain.LLMSettings{Model: "stub-llm"}, domain.RetrievalSettings{SimilarityThreshold: 0.3})

	engine := NewRAGEngine(chunk, embedder, store, gen, domain.RetrievalSettings{TopK: 5, SimilarityThreshold: 0.3})
	return engine, cf
}

func TestPipeline_IngestAndQuery(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{response: "Send AT+RESET to restart the device."}
	engine, cf := newPipeline(t, llm)

	content := "Section 1: reset the device with AT+RESET. Section 2: check device signal with AT+CSQ."
	stored, err := engine.Ingest(ctx, domain.Document{ID: "manual.pdf", Type: "manual", Content: content})
	require.NoError(t, err)
	assert.Equal(t, 2, stored, "ten-token windows with overlap two split the manual in half")

	answer, err := engine.Query(ctx, domain.Query{Question: "How do I reset the device?"})
	require.NoError(t, err)

	assert.False(t, answer.InsufficientContext)
	assert.Equal(t, "Send AT+RESET to restart the device.", answer.Text)
	assert.Greater(t, answer.Confidence, 0.5)

	// The passage carrying AT+RESET must come back as the top citation.
	require.NotEmpty(t, answer.Sources)
	top := answer.Sources[0]
	assert.Equal(t, "manual.pdf", top.DocumentID)
	assert.Equal(t, 0, top.Position)
	assert.Greater(t, top.Similarity, 0.9)
	require.NotEmpty(t, answer.Passages)
	assert.Contains(t, answer.Passages[0].Content, "AT+RESET")

	assert.Equal(t, 1, cf.calls)
	assert.Equal(t, 1, llm.generateCalls)
}

func TestPipeline_ClearEmptiesIndex(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLM{response: "unused"}
	engine, cf := newPipeline(t, llm)

	// 20 tokens chunk into windows of 10 starting at 0, 8, and 16.
	words := make([]string, 20)
	for i := range words {
		words[i] = fmt.Sprintf("w%02d", i)
	}
	content := strings.Join(words, " ")

	for _, id := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		stored, err := engine.Ingest(ctx, domain.Document{ID: id, Content: content})
		require.NoError(t, err)
		require.Equal(t, 3, stored)
	}

	docs, err := engine.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for _, doc := range docs {
		assert.Equal(t, 3, doc.ChunkCount)
	}

	removed, err := engine.ClearIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, removed)

	docs, err = engine.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	// Querying the emptied index short-circuits; the provider stays cold.
	answer, err := engine.Query(ctx, domain.Query{Question: "How do I reset the device?"})
	require.NoError(t, err)
	assert.True(t, answer.InsufficientContext)
	assert.Equal(t, 0, cf.calls)
	assert.Equal(t, 0, llm.generateCalls)
}
