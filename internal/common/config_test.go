package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "./data/coquus", cfg.Storage.Badger.Path)
	assert.Equal(t, "./data/index", cfg.Storage.Badger.IndexPath)
	assert.Equal(t, 5, cfg.Chat.TopK)
	assert.Equal(t, "gemini-embedding-001", cfg.Gemini.EmbedModel)
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbedModel)
	assert.False(t, cfg.Processing.Enabled)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coquus.toml")
	content := `
[storage.badger]
path = "/tmp/corpus"
index_path = "/tmp/index"

[chat]
top_k = 3

[gemini]
api_key = "file-key"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/corpus", cfg.Storage.Badger.Path)
	assert.Equal(t, "/tmp/index", cfg.Storage.Badger.IndexPath)
	assert.Equal(t, 3, cfg.Chat.TopK)
	if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, "./data/coquus", cfg.Storage.Badger.Path)
}

func TestLoadConfigLaterFilesOverride(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")
	require.NoError(t, os.WriteFile(first, []byte("[chat]\ntop_k = 2\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("[chat]\ntop_k = 7\n"), 0644))

	cfg, err := LoadConfig(first, second)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Chat.TopK)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COQUUS_BADGER_PATH", "/env/corpus")
	t.Setenv("COQUUS_CHAT_TOP_K", "9")
	t.Setenv("OPENAI_API_KEY", "env-openai")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/env/corpus", cfg.Storage.Badger.Path)
	assert.Equal(t, 9, cfg.Chat.TopK)
	assert.Equal(t, "env-openai", cfg.OpenAI.APIKey)
}

func TestLoadConfigRejectsInvalidTopK(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coquus.toml")
	require.NoError(t, os.WriteFile(path, []byte("[chat]\ntop_k = 100\n"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
