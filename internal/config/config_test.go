package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Chunker.MaxSize)
	assert.Equal(t, 50, cfg.Chunker.OverlapWords)
	assert.Equal(t, 10, cfg.Chunker.MinWords)
	assert.Equal(t, uint32(100_000), cfg.Encoder.Buckets)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Equal(t, 10, cfg.Conversation.MaxTurns)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Generator.APIKeyEnv)
	assert.Equal(t, "production", cfg.Logging.Mode)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker:\n  max_size: 400\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Chunker.MaxSize)
	assert.Equal(t, 50, cfg.Chunker.OverlapWords, "unset fields fall back to defaults")
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.VectorStore.Type = "qdrant"
	cfg.VectorStore.Qdrant = &QdrantConfig{URL: "http://localhost:6333"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "qdrant", loaded.VectorStore.Type)
	require.NotNil(t, loaded.VectorStore.Qdrant)
	assert.Equal(t, "http://localhost:6333", loaded.VectorStore.Qdrant.URL)
	assert.Equal(t, "docchat", loaded.VectorStore.Qdrant.Collection, "qdrant defaults applied")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker: [not a map"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
