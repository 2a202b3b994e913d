// Package file provides a TOML-backed configuration store.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Config keys understood by the application.
const (
	KeyLLMProvider   = "llm.provider" // "openai", "ollama" or "" (unconfigured)
	KeyLLMAPIKey     = "llm.api_key"
	KeyLLMBaseURL    = "llm.base_url"
	KeyLLMModel      = "llm.model"
	KeyEmbedProvider = "embedding.provider" // "openai" or "ollama"
	KeyEmbedAPIKey   = "embedding.api_key"
	KeyEmbedBaseURL  = "embedding.base_url"
	KeyEmbedModel    = "embedding.model"
	KeyChunkSize     = "ingest.chunk_size"
	KeyChunkOverlap  = "ingest.overlap"
	KeyMaxTopK       = "search.max_top_k"
	KeyMemoryBackend = "memory.backend" // "file" (default) or "sqlite"
	KeyMemoryDir     = "memory.dir"
	KeyVectorDir     = "vector.dir"
)

// ConfigStore is a file-based configuration store using TOML.
// Configuration lives in a flat key/value table inside the Anchora
// config directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore creates a TOML config store. If configDir is empty,
// it defaults to ~/.anchora.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".anchora")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Load reads the config file into memory.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	data := make(map[string]any)
	if err := toml.Unmarshal(content, &data); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	s.data = data
	return nil
}

// Save writes the in-memory config back to disk.
func (s *ConfigStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(s.filePath, content, 0600)
}

// Set stores a value in memory; call Save to persist it.
func (s *ConfigStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value, or "" if unset.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value, or fallback if
// unset or not a number.
func (s *ConfigStore) GetInt(key string, fallback int) int {
	val, ok := s.Get(key)
	if !ok {
		return fallback
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// Path returns the config file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
