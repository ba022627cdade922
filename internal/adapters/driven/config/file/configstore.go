// Package file provides a TOML file-based settings store.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/harborlight/docq/internal/core/domain"
	"github.com/harborlight/docq/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// fileSettings is the TOML representation of domain.Settings. Unset
// fields fall back to defaults on load. Fields where zero is a valid
// explicit choice (overlap, temperature, similarity threshold) are
// pointers so "absent" and "set to 0" stay distinguishable.
type fileSettings struct {
	Chunking struct {
		MaxTokens     int    `toml:"max_tokens"`
		OverlapTokens *int   `toml:"overlap_tokens"`
		Strategy      string `toml:"strategy"`
	} `toml:"chunking"`
	Embedding struct {
		Provider   string `toml:"provider"`
		Model      string `toml:"model"`
		BaseURL    string `toml:"base_url"`
		APIKey     string `toml:"api_key"`
		Dimensions int    `toml:"dimensions"`
	} `toml:"embedding"`
	LLM struct {
		Provider    string   `toml:"provider"`
		Model       string   `toml:"model"`
		BaseURL     string   `toml:"base_url"`
		APIKey      string   `toml:"api_key"`
		Temperature *float64 `toml:"temperature"`
	} `toml:"llm"`
	Store struct {
		DataDir    string `toml:"data_dir"`
		Collection string `toml:"collection"`
	} `toml:"store"`
	Retrieval struct {
		TopK                int      `toml:"top_k"`
		SimilarityThreshold *float64 `toml:"similarity_threshold"`
	} `toml:"retrieval"`
}

// ConfigStore is a file-based implementation of driven.ConfigStore
// using TOML. Settings live in a single file within the docq config
// directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.docq/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".docq")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads settings from disk. A missing file yields the defaults;
// a present file overrides defaults field by field, so a partial
// config stays valid.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("read config: %w", err)
	}

	var fs fileSettings
	if err := toml.Unmarshal(data, &fs); err != nil {
		return settings, fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidConfiguration, s.filePath, err)
	}

	applyFile(&settings, fs)
	if err := settings.Chunking.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Save writes settings to disk.
func (s *ConfigStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fs fileSettings
	fs.Chunking.MaxTokens = settings.Chunking.MaxTokens
	fs.Chunking.OverlapTokens = &settings.Chunking.OverlapTokens
	fs.Chunking.Strategy = settings.Chunking.Strategy.String()
	fs.Embedding.Provider = settings.Embedding.Provider.String()
	fs.Embedding.Model = settings.Embedding.Model
	fs.Embedding.BaseURL = settings.Embedding.BaseURL
	fs.Embedding.APIKey = settings.Embedding.APIKey
	fs.Embedding.Dimensions = settings.Embedding.Dimensions
	fs.LLM.Provider = settings.LLM.Provider.String()
	fs.LLM.Model = settings.LLM.Model
	fs.LLM.BaseURL = settings.LLM.BaseURL
	fs.LLM.APIKey = settings.LLM.APIKey
	fs.LLM.Temperature = &settings.LLM.Temperature
	fs.Store.DataDir = settings.Store.DataDir
	fs.Store.Collection = settings.Store.Collection
	fs.Retrieval.TopK = settings.Retrieval.TopK
	fs.Retrieval.SimilarityThreshold = &settings.Retrieval.SimilarityThreshold

	data, err := toml.Marshal(fs)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Config may hold API keys; keep it private.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// applyFile overlays non-zero file values onto the defaults.
func applyFile(settings *domain.Settings, fs fileSettings) {
	if fs.Chunking.MaxTokens != 0 {
		settings.Chunking.MaxTokens = fs.Chunking.MaxTokens
	}
	if fs.Chunking.OverlapTokens != nil {
		settings.Chunking.OverlapTokens = *fs.Chunking.OverlapTokens
	}
	if fs.Chunking.Strategy != "" {
		settings.Chunking.Strategy = domain.ChunkStrategy(fs.Chunking.Strategy)
	}
	if fs.Embedding.Provider != "" {
		settings.Embedding.Provider = domain.AIProvider(fs.Embedding.Provider)
	}
	if fs.Embedding.Model != "" {
		settings.Embedding.Model = fs.Embedding.Model
	}
	if fs.Embedding.BaseURL != "" {
		settings.Embedding.BaseURL = fs.Embedding.BaseURL
	}
	if fs.Embedding.APIKey != "" {
		settings.Embedding.APIKey = fs.Embedding.APIKey
	}
	if fs.Embedding.Dimensions != 0 {
		settings.Embedding.Dimensions = fs.Embedding.Dimensions
	}
	if fs.LLM.Provider != "" {
		settings.LLM.Provider = domain.AIProvider(fs.LLM.Provider)
	}
	if fs.LLM.Model != "" {
		settings.LLM.Model = fs.LLM.Model
	}
	if fs.LLM.BaseURL != "" {
		settings.LLM.BaseURL = fs.LLM.BaseURL
	}
	if fs.LLM.APIKey != "" {
		settings.LLM.APIKey = fs.LLM.APIKey
	}
	if fs.LLM.Temperature != nil {
		settings.LLM.Temperature = *fs.LLM.Temperature
	}
	if fs.Store.DataDir != "" {
		settings.Store.DataDir = fs.Store.DataDir
	}
	if fs.Store.Collection != "" {
		settings.Store.Collection = fs.Store.Collection
	}
	if fs.Retrieval.TopK != 0 {
		settings.Retrieval.TopK = fs.Retrieval.TopK
	}
	if fs.Retrieval.SimilarityThreshold != nil {
		settings.Retrieval.SimilarityThreshold = *fs.Retrieval.SimilarityThreshold
	}
}
