package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/coquus/internal/common"
	"github.com/ternarybob/coquus/internal/interfaces"
)

func newTestOpenAIService(t *testing.T, handler http.HandlerFunc) *OpenAIService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := &common.OpenAIConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "gpt-4o-mini",
		EmbedModel:  "text-embedding-3-small",
		Timeout:     "5s",
		Temperature: 0.7,
	}
	service, err := NewOpenAIService(config, common.GetLogger())
	require.NoError(t, err)
	return service
}

func TestOpenAIEmbedBatch(t *testing.T) {
	service := newTestOpenAIService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openaiEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)
		require.Len(t, req.Input, 2)

		// Respond out of order to prove placement follows the index field.
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.5, 0.6}, "index": 1},
				{"embedding": []float64{0.1, 0.2}, "index": 0},
			},
		})
	})

	vectors, err := service.Embed(context.Background(), []string{"first", "second"}, interfaces.EmbedModeDocument)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2}, vectors[0])
	assert.Equal(t, []float32{0.5, 0.6}, vectors[1])
}

func TestOpenAIEmbedEmptyInput(t *testing.T) {
	service := newTestOpenAIService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty input")
	})

	vectors, err := service.Embed(context.Background(), nil, interfaces.EmbedModeQuery)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestOpenAIEmbedCountMismatch(t *testing.T) {
	service := newTestOpenAIService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.1}, "index": 0},
			},
		})
	})

	_, err := service.Embed(context.Background(), []string{"a", "b"}, interfaces.EmbedModeDocument)
	assert.Error(t, err)
}

func TestOpenAIGenerate(t *testing.T) {
	service := newTestOpenAIService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req openaiChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 500, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "Answer from context only.", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Use fresh basil."}},
			},
		})
	})

	text, err := service.Generate(context.Background(), &interfaces.GenerateRequest{
		SystemInstruction: "Answer from context only.",
		Prompt:            "How do I garnish pizza?",
		MaxTokens:         500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Use fresh basil.", text)
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	service := newTestOpenAIService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid model", "type": "invalid_request_error"},
		})
	})

	_, err := service.Generate(context.Background(), &interfaces.GenerateRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
