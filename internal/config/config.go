// Package config loads, defaults and saves the application configuration.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	MaxSize      int `yaml:"max_size"`
	OverlapWords int `yaml:"overlap_words"`
	MinWords     int `yaml:"min_words"`
}

// EncoderConfig configures the sparse encoder. Changing the bucket count
// invalidates previously stored vectors.
type EncoderConfig struct {
	Buckets uint32 `yaml:"buckets"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store backend.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// GeneratorConfig configures the OpenAI-compatible generation client.
type GeneratorConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	MaxTokens   int    `yaml:"max_tokens"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ConversationConfig bounds per-conversation history.
type ConversationConfig struct {
	MaxTurns int `yaml:"max_turns"`
}

// RetrievalConfig controls query-time behavior.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// RegistryConfig locates the document metadata database.
type RegistryConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig selects the logger profile.
type LoggingConfig struct {
	Mode string `yaml:"mode"` // "production" or "development"
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker      ChunkerConfig      `yaml:"chunker"`
	Encoder      EncoderConfig      `yaml:"encoder"`
	VectorStore  VectorStoreConfig  `yaml:"vector_store"`
	Generator    GeneratorConfig    `yaml:"generator"`
	Conversation ConversationConfig `yaml:"conversation"`
	Retrieval    RetrievalConfig    `yaml:"retrieval"`
	Registry     RegistryConfig     `yaml:"registry"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// Load reads a config from the given path. A missing file yields defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docchat/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Chunker.MaxSize == 0 {
		cfg.Chunker.MaxSize = 1000
	}
	if cfg.Chunker.OverlapWords == 0 {
		cfg.Chunker.OverlapWords = 50
	}
	if cfg.Chunker.MinWords == 0 {
		cfg.Chunker.MinWords = 10
	}
	if cfg.Encoder.Buckets == 0 {
		cfg.Encoder.Buckets = 100_000
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil {
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = "docchat"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}
	if cfg.Generator.BaseURL == "" {
		cfg.Generator.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Generator.APIKeyEnv == "" {
		cfg.Generator.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Generator.Model == "" {
		cfg.Generator.Model = "gpt-4o-mini"
	}
	if cfg.Generator.MaxTokens == 0 {
		cfg.Generator.MaxTokens = 1000
	}
	if cfg.Generator.TimeoutSecs == 0 {
		cfg.Generator.TimeoutSecs = 60
	}
	if cfg.Conversation.MaxTurns == 0 {
		cfg.Conversation.MaxTurns = 10
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Logging.Mode == "" {
		cfg.Logging.Mode = "production"
	}
}
