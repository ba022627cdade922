package domain

import "fmt"

const unknownDescription = "Unknown"

// ChunkStrategy selects how documents are split into chunks.
type ChunkStrategy string

// Available chunking strategies.
const (
	// ChunkStrategyTokens uses greedy fixed-size token windows.
	ChunkStrategyTokens ChunkStrategy = "tokens"

	// ChunkStrategySections splits on markdown headings first, then
	// sub-chunks oversized sections with token windows.
	ChunkStrategySections ChunkStrategy = "sections"

	// ChunkStrategyPattern splits on command-table markers (AT command
	// manuals) before falling back to token windows.
	ChunkStrategyPattern ChunkStrategy = "pattern"
)

// IsValid returns true if the chunk strategy is recognised.
func (s ChunkStrategy) IsValid() bool {
	switch s {
	case ChunkStrategyTokens, ChunkStrategySections, ChunkStrategyPattern:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ChunkStrategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s ChunkStrategy) Description() string {
	switch s {
	case ChunkStrategyTokens:
		return "Tokens (fixed-size windows)"
	case ChunkStrategySections:
		return "Sections (heading-aware)"
	case ChunkStrategyPattern:
		return "Pattern (command-table aware)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally without credentials.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// ChunkingSettings holds chunker configuration.
type ChunkingSettings struct {
	// MaxTokens is the maximum tokens per chunk.
	MaxTokens int

	// OverlapTokens is the number of tokens shared with the previous chunk.
	OverlapTokens int

	// Strategy selects the chunking strategy.
	Strategy ChunkStrategy
}

// Validate checks the chunking parameters.
func (c ChunkingSettings) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidConfiguration, c.MaxTokens)
	}
	if c.OverlapTokens < 0 {
		return fmt.Errorf("%w: overlap tokens must not be negative, got %d", ErrInvalidConfiguration, c.OverlapTokens)
	}
	if c.OverlapTokens >= c.MaxTokens {
		return fmt.Errorf("%w: overlap tokens (%d) must be smaller than max tokens (%d)",
			ErrInvalidConfiguration, c.OverlapTokens, c.MaxTokens)
	}
	if !c.Strategy.IsValid() {
		return fmt.Errorf("%w: unknown chunk strategy %q", ErrInvalidConfiguration, c.Strategy)
	}
	return nil
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the embedding vector size.
	Dimensions int
}

// Identity returns the embedder identifier persisted alongside the
// index. Vectors from different embedder configurations must never be
// mixed in one index.
func (e EmbeddingSettings) Identity() string {
	return fmt.Sprintf("%s/%s", e.Provider, e.Model)
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the generation provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI and Anthropic).
	APIKey string

	// Temperature controls generation randomness. Low values favour
	// technical accuracy.
	Temperature float64
}

// IsConfigured returns true if a generation provider is set up.
// Ingestion and listing work without one.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() {
		return l.APIKey != ""
	}
	return true
}

// StoreSettings holds vector store configuration.
type StoreSettings struct {
	// DataDir is the directory holding the index database.
	DataDir string

	// Collection is the logical collection name within the store.
	Collection string
}

// RetrievalSettings holds query-time retrieval configuration.
type RetrievalSettings struct {
	// TopK is the default number of passages to retrieve.
	TopK int

	// SimilarityThreshold is the minimum best-passage similarity below
	// which a query short-circuits to the insufficient-context answer.
	SimilarityThreshold float64
}

// Settings is the explicit configuration value object. It is
// constructed once by the config loader and passed into each
// component's constructor; no component reads ambient global state.
type Settings struct {
	Chunking  ChunkingSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Store     StoreSettings
	Retrieval RetrievalSettings
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		Chunking: ChunkingSettings{
			MaxTokens:     512,
			OverlapTokens: 50,
			Strategy:      ChunkStrategySections,
		},
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      "nomic-embed-text",
			BaseURL:    "http://localhost:11434",
			Dimensions: 768,
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       "gpt-4o-mini",
			Temperature: 0.1,
		},
		Store: StoreSettings{
			Collection: "technical_docs",
		},
		Retrieval: RetrievalSettings{
			TopK:                5,
			SimilarityThreshold: 0.3,
		},
	}
}
