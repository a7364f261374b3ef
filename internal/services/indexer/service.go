// Package indexer builds the vector index from the recipe corpus. Indexing
// is an operator batch operation: it embeds every recipe document in one
// call and upserts the results, so re-running it on an unchanged corpus is
// idempotent.
package indexer

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/interfaces"
	"github.com/ternarybob/coquus/internal/models"
	"github.com/ternarybob/coquus/internal/services/documents"
)

// IndexReport summarizes a completed indexing run.
type IndexReport struct {
	Indexed  int    `json:"indexed"`
	Provider string `json:"provider"`
}

// Service indexes the full recipe corpus into the vector store.
type Service struct {
	storage  interfaces.StorageManager
	embedder interfaces.Embedder
	logger   arbor.ILogger
}

// NewService creates an indexer. Unlike the chat pipeline, indexing demands
// an embedding backend: IndexAll fails loudly when embedder is nil.
func NewService(storage interfaces.StorageManager, embedder interfaces.Embedder, logger arbor.ILogger) *Service {
	return &Service{storage: storage, embedder: embedder, logger: logger}
}

// IndexAll embeds and indexes every recipe. The whole corpus is embedded in
// a single batch call before anything is written, so an embedding failure
// leaves the prior index untouched. When clear is set the index is wiped
// after the batch succeeds, before the new vectors land.
func (s *Service) IndexAll(ctx context.Context, clear bool) (*IndexReport, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("no embedding provider configured, set GEMINI_API_KEY or OPENAI_API_KEY")
	}

	recipes, err := s.storage.RecipeStorage().ListRecipes()
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	provider := string(s.embedder.Provider())
	if len(recipes) == 0 {
		s.logger.Info().Msg("No recipes to index")
		return &IndexReport{Indexed: 0, Provider: provider}, nil
	}

	texts := make([]string, len(recipes))
	for i, recipe := range recipes {
		texts[i] = documents.BuildRecipeDocument(recipe)
	}

	embeddings, err := s.embedder.Embed(ctx, texts, interfaces.EmbedModeDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to embed recipe documents: %w", err)
	}
	if len(embeddings) != len(recipes) {
		return nil, fmt.Errorf("embedding count mismatch: %d embeddings for %d recipes", len(embeddings), len(recipes))
	}

	vectors, err := s.storage.VectorStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	if clear {
		if err := vectors.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear vector index: %w", err)
		}
	}

	docs := make([]*models.VectorDocument, len(recipes))
	for i, recipe := range recipes {
		docs[i] = &models.VectorDocument{
			ID:        documents.DocumentID(recipe),
			Text:      texts[i],
			Embedding: embeddings[i],
			Metadata:  documents.BuildMetadata(recipe),
		}
	}

	indexed, err := vectors.Upsert(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	s.logger.Info().
		Int("indexed", indexed).
		Str("provider", provider).
		Bool("clear", clear).
		Msg("Indexed recipe corpus")

	return &IndexReport{Indexed: indexed, Provider: provider}, nil
}
