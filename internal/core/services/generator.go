package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/harborlight/docq/internal/core/domain"
	"github.com/harborlight/docq/internal/core/ports/driven"
	"github.com/harborlight/docq/internal/logger"
)

// AnswerGenerator produces a source-attributed answer from retrieved
// passages. RAGEngine depends on this interface so tests can observe
// whether generation was invoked at all.
type AnswerGenerator interface {
	// Generate builds a prompt from the question and passages and asks
	// the provider for an answer.
	Generate(ctx context.Context, question string, hits []driven.VectorHit) (*domain.Answer, error)

	// ModelName returns the configured model name without initialising
	// the provider.
	ModelName() string
}

// Ensure Generator implements the interface.
var _ AnswerGenerator = (*Generator)(nil)

// providerState tracks the two-phase provider lifecycle. The client is
// only constructed and validated on first use, so ingestion-only and
// listing-only workflows never need provider credentials.
type providerState int

const (
	providerUninitialized providerState = iota
	providerReady
	providerFailed
)

// Generator synthesises answers from retrieved passages via an LLM
// provider. Constructing a Generator never touches the provider.
type Generator struct {
	factory   driven.LLMFactory
	modelName string
	opts      driven.GenerateOptions
	threshold float64

	mu      sync.Mutex
	state   providerState
	llm     driven.LLMService
	initErr error
}

// NewGenerator creates an answer generator. The factory is invoked on
// first Generate, not here; credential problems surface at call time as
// domain.ErrProviderAuth.
func NewGenerator(factory driven.LLMFactory, llm domain.LLMSettings, retrieval domain.RetrievalSettings) *Generator {
	return &Generator{
		factory:   factory,
		modelName: llm.Model,
		opts: driven.GenerateOptions{
			Temperature: llm.Temperature,
		},
		threshold: retrieval.SimilarityThreshold,
	}
}

// ModelName returns the configured model name.
func (g *Generator) ModelName() string {
	return g.modelName
}

// Generate produces an answer grounded in the given passages.
// When the best passage similarity falls below the configured
// threshold, it returns the insufficient-context answer without a
// provider call. This is the hallucination-prevention contract.
func (g *Generator) Generate(ctx context.Context, question string, hits []driven.VectorHit) (*domain.Answer, error) {
	if len(hits) == 0 || hits[0].Similarity < g.threshold {
		logger.Info("Best similarity below threshold %.2f, returning insufficient-context answer", g.threshold)
		return domain.InsufficientContextAnswer(g.modelName), nil
	}

	llm, err := g.client(ctx)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(question, hits)
	logger.Debug("Prompt length: %d characters, %d passages", len(prompt), len(hits))

	text, err := llm.Generate(ctx, prompt, g.opts)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	answer := &domain.Answer{
		Text:       text,
		Sources:    citations(hits),
		Confidence: confidence(question, hits),
		Passages:   passages(hits),
		Model:      llm.ModelName(),
	}
	logger.Info("Generated answer with confidence %.2f", answer.Confidence)
	return answer, nil
}

// client returns the validated provider, constructing it on first use.
// Authentication failures latch the Failed state; transient failures do
// not, so a later call may succeed once the provider recovers.
func (g *Generator) client(ctx context.Context) (driven.LLMService, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case providerReady:
		return g.llm, nil
	case providerFailed:
		return nil, g.initErr
	case providerUninitialized:
	}

	if g.factory == nil {
		g.initErr = fmt.Errorf("%w: no LLM provider configured", domain.ErrProviderAuth)
		g.state = providerFailed
		return nil, g.initErr
	}

	llm, err := g.factory()
	if err != nil {
		err = fmt.Errorf("initialising LLM provider: %w", err)
		if errors.Is(err, domain.ErrProviderAuth) {
			g.initErr = err
			g.state = providerFailed
		}
		return nil, err
	}

	if err := llm.Ping(ctx); err != nil {
		llm.Close() //nolint:errcheck
		err = fmt.Errorf("validating LLM provider: %w", err)
		if errors.Is(err, domain.ErrProviderAuth) {
			g.initErr = err
			g.state = providerFailed
		}
		return nil, err
	}

	g.llm = llm
	g.state = providerReady
	logger.Info("LLM provider ready: %s", llm.ModelName())
	return llm, nil
}

// Close releases the provider client if one was initialised.
func (g *Generator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.llm != nil {
		return g.llm.Close()
	}
	return nil
}

const systemInstructions = `You are a technical documentation assistant.

Answer the question using ONLY the context passages below. Cite the
source documents you used. Format commands and code in code blocks.
If the information is not available in the provided context, state
that clearly instead of speculating.`

// buildPrompt assembles the grounded prompt: instructions, the
// passages verbatim with source labels, then the question.
func buildPrompt(question string, hits []driven.VectorHit) string {
	var b strings.Builder
	b.WriteString(systemInstructions)
	b.WriteString("\n\nContext from technical documentation:\n")

	for i, hit := range hits {
		chunk := hit.Chunk
		b.WriteString(fmt.Sprintf("\n[Source %d: %s", i+1, chunk.DocumentID))
		if chunk.Section != "" {
			b.WriteString(" - " + chunk.Section)
		}
		b.WriteString(fmt.Sprintf(", passage %d]\n", chunk.Position))
		b.WriteString(chunk.Content)
		b.WriteString("\n")
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer based on the context above, citing your sources.")
	return b.String()
}

// citations maps hits to source citations in retrieval order.
func citations(hits []driven.VectorHit) []domain.Citation {
	out := make([]domain.Citation, len(hits))
	for i, hit := range hits {
		out[i] = domain.Citation{
			DocumentID: hit.Chunk.DocumentID,
			Section:    hit.Chunk.Section,
			Position:   hit.Chunk.Position,
			Similarity: hit.Similarity,
		}
	}
	return out
}

// passages extracts the chunks handed to the model.
func passages(hits []driven.VectorHit) []domain.Chunk {
	out := make([]domain.Chunk, len(hits))
	for i, hit := range hits {
		out[i] = hit.Chunk
	}
	return out
}

// confidence blends retrieval similarity with simple relevance
// heuristics, clamped to [0,1]. Three factors: mean similarity of the
// retrieved passages, passage count, and query-keyword coverage.
func confidence(question string, hits []driven.VectorHit) float64 {
	if len(hits) == 0 {
		return 0
	}

	var simSum float64
	for _, hit := range hits {
		simSum += hit.Similarity
	}
	simFactor := simSum / float64(len(hits))
	if simFactor < 0 {
		simFactor = 0
	}

	countFactor := float64(len(hits)) * 0.2
	if countFactor > 1 {
		countFactor = 1
	}

	words := strings.Fields(strings.ToLower(question))
	matched := 0
	for _, hit := range hits {
		content := strings.ToLower(hit.Chunk.Content)
		for _, w := range words {
			if strings.Contains(content, w) {
				matched++
				break
			}
		}
	}
	relevanceFactor := float64(matched) / float64(len(hits))

	c := (simFactor + countFactor + relevanceFactor) / 3
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}
