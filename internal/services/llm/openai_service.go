package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/common"
	"github.com/ternarybob/coquus/internal/interfaces"
	"golang.org/x/time/rate"
)

// OpenAIService implements the Embedder and Generator interfaces against the
// OpenAI REST API. It talks plain HTTP so the base URL can be pointed at any
// OpenAI-compatible endpoint.
type OpenAIService struct {
	config     *common.OpenAIConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// NewOpenAIService creates a new OpenAI-backed service.
func NewOpenAIService(config *common.OpenAIConfig, logger arbor.ILogger) (*OpenAIService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai API key is not configured")
	}

	return &OpenAIService{
		config:     config,
		httpClient: &http.Client{Timeout: parseTimeout(config.Timeout)},
		limiter:    newLimiter(config.RateLimit),
		logger:     logger,
	}, nil
}

// Provider returns the backend identity
func (s *OpenAIService) Provider() interfaces.Provider {
	return interfaces.ProviderOpenAI
}

type openaiEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openaiEmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *openaiError `json:"error,omitempty"`
}

type openaiChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float32         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
	Error *openaiError `json:"error,omitempty"`
}

type openaiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Embed generates one embedding per input text in a single batch request.
// OpenAI does not distinguish document and query embeddings, so the mode is
// accepted for interface symmetry and otherwise ignored.
func (s *OpenAIService) Embed(ctx context.Context, texts []string, _ interfaces.EmbedMode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := openaiEmbeddingRequest{
		Model: s.config.EmbedModel,
		Input: texts,
	}

	var respBody openaiEmbeddingResponse
	if err := s.post(ctx, "/embeddings", reqBody, &respBody); err != nil {
		return nil, fmt.Errorf("openai embedding failed: %w", err)
	}
	if respBody.Error != nil {
		return nil, fmt.Errorf("openai embedding failed: %s", respBody.Error.Message)
	}
	if len(respBody.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d texts", len(respBody.Data), len(texts))
	}

	// The API documents order-preservation but also carries an index per
	// item, so place by index rather than position.
	vectors := make([][]float32, len(texts))
	for _, item := range respBody.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("openai returned embedding with out-of-range index %d", item.Index)
		}
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		vectors[item.Index] = vec
	}
	for i, vec := range vectors {
		if len(vec) == 0 {
			return nil, fmt.Errorf("openai returned an empty embedding at position %d", i)
		}
	}

	s.logger.Debug().
		Int("texts", len(texts)).
		Int("dimension", len(vectors[0])).
		Msg("Generated OpenAI embeddings")

	return vectors, nil
}

// Generate produces free text via the chat completions endpoint.
func (s *OpenAIService) Generate(ctx context.Context, req *interfaces.GenerateRequest) (string, error) {
	messages := make([]openaiMessage, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, openaiMessage{Role: "system", Content: req.SystemInstruction})
	}
	messages = append(messages, openaiMessage{Role: "user", Content: req.Prompt})

	reqBody := openaiChatRequest{
		Model:       s.config.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: s.config.Temperature,
	}

	var respBody openaiChatResponse
	if err := s.post(ctx, "/chat/completions", reqBody, &respBody); err != nil {
		return "", fmt.Errorf("openai generation failed: %w", err)
	}
	if respBody.Error != nil {
		return "", fmt.Errorf("openai generation failed: %s", respBody.Error.Message)
	}
	if len(respBody.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI API")
	}

	return respBody.Choices[0].Message.Content, nil
}

// post issues a JSON POST to the configured base URL, retrying on rate
// limits, and decodes the response into out.
func (s *OpenAIService) post(ctx context.Context, path string, in any, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	retryConfig := NewDefaultRetryConfig()
	var lastErr error

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < retryConfig.MaxRetries {
			backoff := retryConfig.CalculateBackoff(attempt, 0)
			s.logger.Warn().
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("Retrying OpenAI API call")
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return lastErr
}
