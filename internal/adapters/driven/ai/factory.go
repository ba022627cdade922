// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"
	"os"

	ollamaembed "github.com/harborlight/docq/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/harborlight/docq/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/harborlight/docq/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/harborlight/docq/internal/adapters/driven/llm/ollama"
	openaillm "github.com/harborlight/docq/internal/adapters/driven/llm/openai"
	"github.com/harborlight/docq/internal/core/domain"
	"github.com/harborlight/docq/internal/core/ports/driven"
)

// Environment variables consulted when the config file carries no key.
const (
	envOpenAIKey    = "OPENAI_API_KEY"
	envAnthropicKey = "ANTHROPIC_API_KEY"
)

// CreateEmbeddingService creates the embedding service selected by the
// settings. The provider variant is fixed here at construction time.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     resolveKey(settings.APIKey, envOpenAIKey),
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		}), nil

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not offer an embeddings API, use ollama or openai",
			domain.ErrInvalidConfiguration)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q",
			domain.ErrInvalidConfiguration, settings.Provider)
	}
}

// CreateLLMFactory returns a factory that constructs the configured LLM
// service on first use. Credentials are not touched here: a missing or
// bad API key only surfaces when the factory runs, so ingestion and
// listing never require generation credentials.
func CreateLLMFactory(settings domain.LLMSettings) driven.LLMFactory {
	return func() (driven.LLMService, error) {
		switch settings.Provider {
		case domain.AIProviderOllama:
			return ollamallm.NewLLMService(ollamallm.Config{
				BaseURL: settings.BaseURL,
				Model:   settings.Model,
			})

		case domain.AIProviderOpenAI:
			return openaillm.NewLLMService(openaillm.Config{
				APIKey:  resolveKey(settings.APIKey, envOpenAIKey),
				BaseURL: settings.BaseURL,
				Model:   settings.Model,
			})

		case domain.AIProviderAnthropic:
			return anthropicllm.NewLLMService(anthropicllm.Config{
				APIKey:  resolveKey(settings.APIKey, envAnthropicKey),
				BaseURL: settings.BaseURL,
				Model:   settings.Model,
			})

		default:
			return nil, fmt.Errorf("%w: unsupported LLM provider %q",
				domain.ErrInvalidConfiguration, settings.Provider)
		}
	}
}

// LLMModelName reports the model a factory from CreateLLMFactory will
// use, without constructing the service.
func LLMModelName(settings domain.LLMSettings) string {
	if settings.Model != "" {
		return settings.Model
	}
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.DefaultModel
	case domain.AIProviderAnthropic:
		return anthropicllm.DefaultModel
	default:
		return openaillm.DefaultModel
	}
}

// resolveKey prefers the configured key, falling back to the environment.
func resolveKey(configured, envVar string) string {
	if configured != "" {
		return configured
	}
	return os.Getenv(envVar)
}
