package driven

import "context"

// LLMService provides text generation for answer synthesis.
// The generator is polymorphic over this capability: swapping the
// provider never changes chunking, embedding, or indexing behaviour.
//
// Implementations may include:
//   - OpenAI (cloud, API key)
//   - Anthropic (cloud, API key)
//   - Ollama (local service, no key)
//
// Adapters wrap authentication failures into domain.ErrProviderAuth and
// transient failures (timeouts, rate limits, 5xx) into
// domain.ErrProviderUnavailable. The core never retries.
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable and credentials are valid
	// by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// LLMFactory constructs an LLM service on demand. Construction happens
// lazily so that ingestion-only and listing-only workflows succeed
// without any provider credentials configured.
type LLMFactory func() (LLMService, error)
