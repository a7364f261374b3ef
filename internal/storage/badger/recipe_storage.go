package badger

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/coquus/internal/interfaces"
	"github.com/ternarybob/coquus/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// RecipeStorage implements the RecipeStorage interface for Badger
type RecipeStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRecipeStorage creates a new RecipeStorage instance
func NewRecipeStorage(db *BadgerDB, logger arbor.ILogger) interfaces.RecipeStorage {
	return &RecipeStorage{
		db:     db,
		logger: logger,
	}
}

func (s *RecipeStorage) SaveRecipe(recipe *models.Recipe) error {
	if recipe.ID == 0 {
		return fmt.Errorf("recipe ID is required")
	}

	now := time.Now()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now

	if err := s.db.Store().Upsert(recipe.ID, recipe); err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

func (s *RecipeStorage) GetRecipe(id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.Store().Get(id, &recipe); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// ListRecipes returns all recipes in the corpus's natural order (ascending ID)
func (s *RecipeStorage) ListRecipes() ([]*models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.Store().Find(&recipes, badgerhold.Where("ID").Ne(int64(0)).SortBy("ID")); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, nil
}

func (s *RecipeStorage) CountRecipes() (int, error) {
	count, err := s.db.Store().Count(&models.Recipe{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return int(count), nil
}

// SearchKeywords returns recipes whose title, description, or instructions
// case-insensitively contain any of the tokens (logical OR across tokens and
// fields), in natural order, deduplicated, capped at limit. Badgerhold's
// RegExp queries can't express the OR-of-fields cheaply, so this filters a
// full scan; fine at corpus scale.
func (s *RecipeStorage) SearchKeywords(tokens []string, limit int) ([]*models.Recipe, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	recipes, err := s.ListRecipes()
	if err != nil {
		return nil, err
	}

	lowered := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			lowered = append(lowered, strings.ToLower(tok))
		}
	}

	var matched []*models.Recipe
	for _, recipe := range recipes {
		if limit > 0 && len(matched) >= limit {
			break
		}
		haystack := strings.ToLower(recipe.Title + "\n" + recipe.Description + "\n" + recipe.Instructions)
		for _, tok := range lowered {
			if strings.Contains(haystack, tok) {
				matched = append(matched, recipe)
				break
			}
		}
	}
	return matched, nil
}
