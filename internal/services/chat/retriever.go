package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/interfaces"
	"github.com/ternarybob/coquus/internal/models"
)

// snippetLength is the character cap applied to retrieved document snippets.
const snippetLength = 300

// Retriever embeds a user query and pulls the nearest recipe documents from
// the vector index.
type Retriever struct {
	embedder interfaces.Embedder
	vectors  interfaces.VectorStorage
	logger   arbor.ILogger
}

// NewRetriever creates a retriever over an open vector index.
func NewRetriever(embedder interfaces.Embedder, vectors interfaces.VectorStorage, logger arbor.ILogger) *Retriever {
	return &Retriever{embedder: embedder, vectors: vectors, logger: logger}
}

// Retrieve returns up to k snippets nearest to the query, closest first.
// Blank queries and an empty index both short-circuit to an empty result
// without calling the embedding backend.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]models.RetrievedSnippet, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}

	count, err := r.vectors.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count index entries: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	embeddings, err := r.embedder.Embed(ctx, []string{trimmed}, interfaces.EmbedModeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("expected 1 query embedding, got %d", len(embeddings))
	}

	hits, err := r.vectors.Query(embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	snippets := make([]models.RetrievedSnippet, 0, len(hits))
	for _, hit := range hits {
		snippets = append(snippets, models.RetrievedSnippet{
			RecipeID: recipeIDFromHit(hit),
			Title:    hit.Metadata["title"],
			Snippet:  snippetOf(hit.Text),
		})
	}

	r.logger.Debug().
		Int("hits", len(snippets)).
		Int("k", k).
		Msg("Retrieved recipe snippets")

	return snippets, nil
}

// recipeIDFromHit reads the recipe ID from hit metadata, falling back to the
// document ID itself when the metadata entry is missing or malformed.
func recipeIDFromHit(hit models.SearchHit) int64 {
	if raw, ok := hit.Metadata["recipe_id"]; ok {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return id
		}
	}
	if id, err := strconv.ParseInt(hit.ID, 10, 64); err == nil {
		return id
	}
	return 0
}

// snippetOf truncates a document to the snippet cap, appending an ellipsis
// when anything was cut.
func snippetOf(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLength {
		return text
	}
	return string(runes[:snippetLength]) + "..."
}
