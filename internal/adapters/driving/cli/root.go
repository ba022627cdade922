// Package cli provides the cobra command-line interface for docq.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborlight/docq/internal/adapters/driven/ai"
	configfile "github.com/harborlight/docq/internal/adapters/driven/config/file"
	"github.com/harborlight/docq/internal/adapters/driven/pdf"
	"github.com/harborlight/docq/internal/adapters/driven/storage/sqlite"
	"github.com/harborlight/docq/internal/adapters/driving/mcp"
	"github.com/harborlight/docq/internal/chunker"
	"github.com/harborlight/docq/internal/core/domain"
	"github.com/harborlight/docq/internal/core/ports/driving"
	"github.com/harborlight/docq/internal/core/services"
	"github.com/harborlight/docq/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
)

// Services wired by initServices. Tests inject mocks here directly.
var (
	ragService    driving.RAGService
	ingestService driving.IngestService
	settings      domain.Settings
	closers       []func() error
)

var rootCmd = &cobra.Command{
	Use:   "docq",
	Short: "Ask questions about your PDF documentation",
	Long: `docq ingests PDF documents into a local vector index and answers
questions about them with source citations.

Documents are chunked, embedded, and stored locally. Queries retrieve
the most similar passages and generate an answer grounded in them;
when nothing relevant is stored, docq says so instead of guessing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// version and help never need the service stack.
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.docq)")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices wires the full service stack from configuration.
// It is a no-op when services are already set (tests inject mocks).
func initServices() error {
	if ragService != nil {
		return nil
	}

	cfgStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	settings, err = cfgStore.Load()
	if err != nil {
		return fmt.Errorf("loading config %s: %w", cfgStore.Path(), err)
	}
	logger.Debug("Config: %s", cfgStore.Path())

	chunk, err := chunker.New(settings.Chunking)
	if err != nil {
		return err
	}

	embedder, err := ai.CreateEmbeddingService(settings.Embedding)
	if err != nil {
		return err
	}
	closers = append(closers, embedder.Close)

	store, err := sqlite.NewStore(settings.Store.DataDir, settings.Store.Collection, settings.Embedding.Identity())
	if err != nil {
		embedder.Close() //nolint:errcheck
		return err
	}
	closers = append(closers, store.Close)

	// The generator never touches provider credentials until the first
	// answer is generated; ingest and list work without a key.
	settings.LLM.Model = ai.LLMModelName(settings.LLM)
	generator := services.NewGenerator(ai.CreateLLMFactory(settings.LLM), settings.LLM, settings.Retrieval)

	engine := services.NewRAGEngine(chunk, embedder, store, generator, settings.Retrieval)
	ragService = engine
	ingestService = services.NewIngester(pdf.NewConverter(), engine)

	return nil
}

// closeServices releases resources acquired by initServices.
func closeServices() {
	for _, c := range closers {
		c() //nolint:errcheck
	}
	closers = nil
}

// newMCPPorts bundles the wired services for the MCP server.
func newMCPPorts() *mcp.Ports {
	return &mcp.Ports{
		RAG:    ragService,
		Ingest: ingestService,
	}
}
