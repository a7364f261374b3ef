package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/coquus/internal/common"
	"github.com/ternarybob/coquus/internal/interfaces"
)

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		model    string
		expected interfaces.Provider
	}{
		{"claude-haiku-3-5-20241022", interfaces.ProviderClaude},
		{"gemini-2.5-flash", interfaces.ProviderGemini},
		{"gpt-4o-mini", interfaces.ProviderOpenAI},
		{"o3-mini", interfaces.ProviderOpenAI},
		{"  Claude-Sonnet ", interfaces.ProviderClaude},
		{"llama-3", interfaces.Provider("")},
		{"", interfaces.Provider("")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DetectProvider(tt.model), "model %q", tt.model)
	}
}

func TestSelectEmbedderNoCredentials(t *testing.T) {
	config := common.NewDefaultConfig()
	logger := common.GetLogger()

	embedder, err := SelectEmbedder(context.Background(), config, logger)
	require.NoError(t, err)
	assert.Nil(t, embedder, "missing credentials should be a soft absence, not an error")
}

func TestSelectEmbedderOpenAIFallback(t *testing.T) {
	config := common.NewDefaultConfig()
	config.OpenAI.APIKey = "test-key"
	logger := common.GetLogger()

	embedder, err := SelectEmbedder(context.Background(), config, logger)
	require.NoError(t, err)
	require.NotNil(t, embedder)
	assert.Equal(t, interfaces.ProviderOpenAI, embedder.Provider())
}

func TestSelectGeneratorNoCredentials(t *testing.T) {
	config := common.NewDefaultConfig()
	logger := common.GetLogger()

	generator, err := SelectGenerator(context.Background(), config, logger)
	require.NoError(t, err)
	assert.Nil(t, generator)
}

func TestSelectGeneratorClaudePrecedence(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Claude.APIKey = "test-key"
	logger := common.GetLogger()

	generator, err := SelectGenerator(context.Background(), config, logger)
	require.NoError(t, err)
	require.NotNil(t, generator)
	assert.Equal(t, interfaces.ProviderClaude, generator.Provider())
}

func TestSelectGeneratorPinnedModel(t *testing.T) {
	config := common.NewDefaultConfig()
	config.OpenAI.APIKey = "openai-key"
	config.Claude.APIKey = "claude-key"
	config.LLM.GenerationModel = "claude-haiku-3-5-20241022"
	logger := common.GetLogger()

	generator, err := SelectGenerator(context.Background(), config, logger)
	require.NoError(t, err)
	require.NotNil(t, generator)
	assert.Equal(t, interfaces.ProviderClaude, generator.Provider(),
		"a pinned generation model overrides credential precedence")
}

func TestSelectGeneratorPinnedModelMissingCredential(t *testing.T) {
	config := common.NewDefaultConfig()
	config.LLM.GenerationModel = "gpt-4o-mini"
	logger := common.GetLogger()

	_, err := SelectGenerator(context.Background(), config, logger)
	assert.Error(t, err, "pinning a backend without its credential should fail loudly")
}
