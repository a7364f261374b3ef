package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/common"
	"github.com/ternarybob/coquus/internal/interfaces"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiTaskType maps an embed mode to the Gemini embedding task type.
// Gemini optimizes document and query vectors differently, which is why the
// mode tag exists at all.
func geminiTaskType(mode interfaces.EmbedMode) string {
	if mode == interfaces.EmbedModeQuery {
		return "RETRIEVAL_QUERY"
	}
	return "RETRIEVAL_DOCUMENT"
}

// GeminiService implements the Embedder and Generator interfaces using the
// Google Gemini API.
type GeminiService struct {
	config  *common.GeminiConfig
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
	logger  arbor.ILogger
}

// NewGeminiService creates a new Gemini-backed service. The API key must
// already be resolved into the config; callers use SelectEmbedder /
// SelectGenerator to handle the no-credential case.
func NewGeminiService(ctx context.Context, config *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		config:  config,
		client:  client,
		limiter: newLimiter(config.RateLimit),
		timeout: parseTimeout(config.Timeout),
		logger:  logger,
	}, nil
}

// Provider returns the backend identity
func (s *GeminiService) Provider() interfaces.Provider {
	return interfaces.ProviderGemini
}

// Embed generates one embedding per input text in a single batch call,
// tagged with the task type for the given mode.
func (s *GeminiService) Embed(ctx context.Context, texts []string, mode interfaces.EmbedMode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	embeddingConfig := &genai.EmbedContentConfig{
		TaskType: geminiTaskType(mode),
	}

	result, err := s.client.Models.EmbedContent(ctx, s.config.EmbedModel, contents, embeddingConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding failed: %w", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", got, len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("gemini returned an empty embedding at position %d", i)
		}
		vectors[i] = emb.Values
	}

	s.logger.Debug().
		Int("texts", len(texts)).
		Str("mode", string(mode)).
		Int("dimension", len(vectors[0])).
		Msg("Generated Gemini embeddings")

	return vectors, nil
}

// Generate produces free text from the prompt, retrying on rate limits.
func (s *GeminiService) Generate(ctx context.Context, req *interfaces.GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}

	var resp *genai.GenerateContentResponse
	var apiErr error
	retryConfig := NewDefaultRetryConfig()

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, apiErr = s.client.Models.GenerateContent(ctx, s.config.Model, contents, config)
		if apiErr == nil {
			break
		}
		if attempt == retryConfig.MaxRetries || !IsRateLimitError(apiErr) {
			break
		}

		backoff := retryConfig.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		s.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Gemini API call")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	if apiErr != nil {
		return "", fmt.Errorf("gemini generation failed: %w", apiErr)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}

	return resp.Text(), nil
}

// newLimiter builds a rate limiter from a minimum-interval duration string.
// Unset or malformed intervals disable limiting.
func newLimiter(interval string) *rate.Limiter {
	d, err := time.ParseDuration(interval)
	if err != nil || d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// parseTimeout parses an operation timeout with a 2 minute default.
func parseTimeout(timeout string) time.Duration {
	d, err := time.ParseDuration(timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}
