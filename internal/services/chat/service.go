// Package chat implements the question-answering pipeline: retrieve recipe
// context from the vector index, generate a grounded answer, and degrade to
// keyword search whenever retrieval is unavailable.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/common"
	"github.com/ternarybob/coquus/internal/interfaces"
	"github.com/ternarybob/coquus/internal/models"
	"github.com/ternarybob/coquus/internal/services/search"
)

// Confidence values are a fixed contract with callers: they encode which
// path produced the answer, not answer quality.
const (
	ConfidenceRetrieved = 0.9 // vector hits grounded the answer
	ConfidenceNoContext = 0.6 // pipeline ran but found nothing, or never started
	ConfidenceDegraded  = 0.5 // a mid-pipeline failure forced the fallback
)

// AskRequest is one user question.
type AskRequest struct {
	Message   string
	SessionID string
	User      string
	BaseURL   string
}

// RetrievedRef identifies a recipe that informed the answer.
type RetrievedRef struct {
	RecipeID int64  `json:"recipe_id"`
	Title    string `json:"title"`
}

// AskResult is the pipeline's answer. Ask always produces one; it never
// returns an error to the caller.
type AskResult struct {
	Answer     string         `json:"answer"`
	Retrieved  []RetrievedRef `json:"retrieved_docs"`
	Confidence float64        `json:"confidence"`
}

// Service orchestrates retrieval, generation, and the keyword fallback.
type Service struct {
	config   *common.Config
	storage  interfaces.StorageManager
	embedder interfaces.Embedder
	composer *AnswerComposer
	keyword  *search.KeywordService
	logger   arbor.ILogger
}

// NewService wires the pipeline. Both embedder and generator may be nil when
// no credentials are configured; the service degrades instead of failing.
func NewService(config *common.Config, storage interfaces.StorageManager, embedder interfaces.Embedder, generator interfaces.Generator, logger arbor.ILogger) *Service {
	return &Service{
		config:   config,
		storage:  storage,
		embedder: embedder,
		composer: NewAnswerComposer(generator, logger),
		keyword:  search.NewKeywordService(storage.RecipeStorage(), logger),
		logger:   logger,
	}
}

// Ask answers a user question. Every internal failure is logged and routed
// to the keyword fallback with a degraded confidence; the caller always gets
// an answer.
func (s *Service) Ask(ctx context.Context, req *AskRequest) *AskResult {
	result := s.answer(ctx, req)
	s.persistExchange(req, result)
	return result
}

func (s *Service) answer(ctx context.Context, req *AskRequest) *AskResult {
	if s.embedder == nil {
		s.logger.Debug().Msg("No embedding provider, using keyword fallback")
		return s.fallback(req.Message, ConfidenceNoContext)
	}

	if !s.storage.IndexExists() {
		s.logger.Debug().Msg("Vector index not built yet, using keyword fallback")
		return s.fallback(req.Message, ConfidenceNoContext)
	}

	vectors, err := s.storage.VectorStorage()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to open vector index, using keyword fallback")
		return s.fallback(req.Message, ConfidenceNoContext)
	}

	count, err := vectors.Count()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to count vector index, using keyword fallback")
		return s.fallback(req.Message, ConfidenceNoContext)
	}
	if count == 0 {
		s.logger.Debug().Msg("Vector index is empty, using keyword fallback")
		return s.fallback(req.Message, ConfidenceNoContext)
	}

	retriever := NewRetriever(s.embedder, vectors, s.logger)
	snippets, err := retriever.Retrieve(ctx, req.Message, s.config.Chat.TopK)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Retrieval failed, using keyword fallback")
		return s.fallback(req.Message, ConfidenceDegraded)
	}

	answer, err := s.composer.ComposeAnswer(ctx, req.Message, snippets, s.baseURL(req))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Generation failed, using keyword fallback")
		return s.fallback(req.Message, ConfidenceDegraded)
	}

	confidence := ConfidenceNoContext
	if len(snippets) > 0 {
		confidence = ConfidenceRetrieved
	}

	retrieved := make([]RetrievedRef, 0, len(snippets))
	for _, snippet := range snippets {
		retrieved = append(retrieved, RetrievedRef{RecipeID: snippet.RecipeID, Title: snippet.Title})
	}

	return &AskResult{Answer: answer, Retrieved: retrieved, Confidence: confidence}
}

// fallback answers with keyword search, resolving matched IDs back to
// titles. Even a failure inside the fallback still yields an answer.
func (s *Service) fallback(message string, confidence float64) *AskResult {
	answer, ids, err := s.keyword.Answer(message)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Keyword fallback failed")
		return &AskResult{
			Answer:     search.NoKeywordsAnswer,
			Retrieved:  []RetrievedRef{},
			Confidence: confidence,
		}
	}

	retrieved := make([]RetrievedRef, 0, len(ids))
	for _, id := range ids {
		ref := RetrievedRef{RecipeID: id}
		if recipe, err := s.storage.RecipeStorage().GetRecipe(id); err == nil {
			ref.Title = recipe.Title
		} else if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warn().Err(err).Int64("recipe_id", id).Msg("Failed to resolve recipe title")
		}
		retrieved = append(retrieved, ref)
	}

	return &AskResult{Answer: answer, Retrieved: retrieved, Confidence: confidence}
}

// baseURL prefers the per-request base URL, then the configured site URL.
func (s *Service) baseURL(req *AskRequest) string {
	if req.BaseURL != "" {
		return req.BaseURL
	}
	return s.config.Site.BaseURL
}

// persistExchange records the question and answer for session history.
// Persistence failures are logged, never surfaced.
func (s *Service) persistExchange(req *AskRequest, result *AskResult) {
	ids := make([]int64, 0, len(result.Retrieved))
	for _, ref := range result.Retrieved {
		ids = append(ids, ref.RecipeID)
	}

	confidence := result.Confidence
	exchange := &models.ChatExchange{
		ID:                 common.NewExchangeID(),
		SessionID:          req.SessionID,
		User:               req.User,
		Message:            req.Message,
		Response:           result.Answer,
		RetrievedRecipeIDs: ids,
		Confidence:         &confidence,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.storage.ChatStorage().SaveExchange(exchange); err != nil {
		s.logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("Failed to persist chat exchange")
	}
}
