// Package search provides the keyword fallback used when vector retrieval
// is unavailable: no embedding credentials, no index yet, or a failure in
// the middle of the pipeline.
package search

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/interfaces"
)

const (
	maxKeywords = 5
	maxResults  = 5
)

// NoKeywordsAnswer is returned when the message yields no usable keywords.
const NoKeywordsAnswer = "Ask me about recipes, ingredients, or cooking! For example: 'Easy Italian recipes' or 'What can I make with tomatoes?'"

// KeywordService answers questions with a plain keyword match over the
// recipe corpus.
type KeywordService struct {
	recipes interfaces.RecipeStorage
	logger  arbor.ILogger
}

// NewKeywordService creates a keyword fallback service.
func NewKeywordService(recipes interfaces.RecipeStorage, logger arbor.ILogger) *KeywordService {
	return &KeywordService{recipes: recipes, logger: logger}
}

// Tokenize splits a message into search keywords: whitespace-separated
// words longer than two characters, capped at five.
func Tokenize(message string) []string {
	var tokens []string
	for _, word := range strings.Fields(message) {
		if len(word) <= 2 {
			continue
		}
		tokens = append(tokens, word)
		if len(tokens) == maxKeywords {
			break
		}
	}
	return tokens
}

// Answer runs a keyword search and formats a templated reply. It returns
// the reply text and the IDs of the matched recipes.
func (s *KeywordService) Answer(message string) (string, []int64, error) {
	tokens := Tokenize(message)
	if len(tokens) == 0 {
		return NoKeywordsAnswer, nil, nil
	}

	recipes, err := s.recipes.SearchKeywords(tokens, maxResults)
	if err != nil {
		return "", nil, fmt.Errorf("keyword search failed: %w", err)
	}

	if len(recipes) == 0 {
		answer := fmt.Sprintf("I couldn't find recipes matching '%s'. Try different keywords or browse all recipes on the site!", message)
		return answer, nil, nil
	}

	titles := make([]string, len(recipes))
	ids := make([]int64, len(recipes))
	for i, recipe := range recipes {
		titles[i] = recipe.Title
		ids[i] = recipe.ID
	}

	s.logger.Debug().
		Int("matches", len(recipes)).
		Strs("keywords", tokens).
		Msg("Keyword fallback matched recipes")

	answer := fmt.Sprintf("I found %d recipe(s) that might match: %s. Check them out on the recipes page for full details!",
		len(recipes), strings.Join(titles, ", "))
	return answer, ids, nil
}
