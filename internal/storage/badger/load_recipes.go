package badger

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/coquus/internal/models"
)

// RecipeFile represents the structure of a recipe seed file.
// Format:
//
//	[[recipes]]
//	id = 1
//	title = "Margherita Pizza"
//	description = "Classic Italian pizza"
//	difficulty = "easy"
//	prep_time = 20
//	cook_time = 15
//	servings = 4
//	instructions = "Bake at 450F"
//	category = "Italian"
//	ingredients = [{ quantity = "500g", name = "flour" }]
type RecipeFile struct {
	Recipes []RecipeEntry `toml:"recipes"`
}

// RecipeEntry is a single recipe in a seed file
type RecipeEntry struct {
	ID           int64             `toml:"id"`
	Title        string            `toml:"title"`
	Description  string            `toml:"description"`
	Difficulty   string            `toml:"difficulty"`
	PrepTime     int               `toml:"prep_time"`
	CookTime     int               `toml:"cook_time"`
	Servings     int               `toml:"servings"`
	Instructions string            `toml:"instructions"`
	Category     string            `toml:"category"`
	Ingredients  []IngredientEntry `toml:"ingredients"`
}

// IngredientEntry is a single ingredient line in a seed file
type IngredientEntry struct {
	Quantity string `toml:"quantity"`
	Name     string `toml:"name"`
}

// LoadRecipesFromFile loads recipes from a TOML seed file into the corpus,
// upserting by ID. Returns the number of recipes loaded.
func (m *Manager) LoadRecipesFromFile(filePath string) (int, error) {
	m.logger.Debug().Str("file", filePath).Msg("Loading recipes from file")

	content, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read recipe file: %w", err)
	}

	var file RecipeFile
	if err := toml.Unmarshal(content, &file); err != nil {
		return 0, fmt.Errorf("failed to parse recipe file: %w", err)
	}

	loaded := 0
	for _, entry := range file.Recipes {
		if entry.ID == 0 || entry.Title == "" {
			m.logger.Warn().
				Int64("id", entry.ID).
				Str("title", entry.Title).
				Msg("Skipping recipe without id or title")
			continue
		}

		ingredients := make([]models.RecipeIngredient, 0, len(entry.Ingredients))
		for _, ing := range entry.Ingredients {
			ingredients = append(ingredients, models.RecipeIngredient{
				Quantity: ing.Quantity,
				Name:     ing.Name,
			})
		}

		recipe := &models.Recipe{
			ID:           entry.ID,
			Title:        entry.Title,
			Description:  entry.Description,
			Difficulty:   entry.Difficulty,
			PrepTime:     entry.PrepTime,
			CookTime:     entry.CookTime,
			Servings:     entry.Servings,
			Instructions: entry.Instructions,
			Category:     entry.Category,
			Ingredients:  ingredients,
		}

		if err := m.recipe.SaveRecipe(recipe); err != nil {
			return loaded, fmt.Errorf("failed to save recipe %d: %w", entry.ID, err)
		}
		loaded++
	}

	m.logger.Info().Int("loaded", loaded).Str("file", filePath).Msg("Finished loading recipes")
	return loaded, nil
}
