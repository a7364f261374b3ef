// Package documents turns recipes into the flat text documents that get
// embedded and indexed. The format is a deterministic line-per-field layout
// so re-indexing an unchanged recipe produces an identical document.
package documents

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ternarybob/coquus/internal/models"
)

// MaxMetadataTitleLength caps the title carried in index metadata.
const MaxMetadataTitleLength = 200

// BuildRecipeDocument renders a recipe as a searchable text document. Field
// lines always appear in the same order; the ingredients and category lines
// are omitted when the recipe has none.
func BuildRecipeDocument(recipe *models.Recipe) string {
	parts := []string{
		fmt.Sprintf("Title: %s", recipe.Title),
		fmt.Sprintf("Description: %s", recipe.Description),
		fmt.Sprintf("Difficulty: %s", recipe.Difficulty),
		fmt.Sprintf("Prep time: %d minutes. Cook time: %d minutes.", recipe.PrepTime, recipe.CookTime),
		fmt.Sprintf("Servings: %d", recipe.Servings),
		fmt.Sprintf("Instructions: %s", recipe.Instructions),
	}

	if len(recipe.Ingredients) > 0 {
		ingredients := make([]string, len(recipe.Ingredients))
		for i, ing := range recipe.Ingredients {
			ingredients[i] = fmt.Sprintf("%s %s", ing.Quantity, ing.Name)
		}
		parts = append(parts, "Ingredients: "+strings.Join(ingredients, ", "))
	}

	if recipe.Category != "" {
		parts = append(parts, fmt.Sprintf("Category: %s", recipe.Category))
	}

	return strings.Join(parts, "\n")
}

// BuildMetadata returns the metadata stored alongside a recipe's vector:
// the recipe ID and a length-capped title.
func BuildMetadata(recipe *models.Recipe) map[string]string {
	title := recipe.Title
	if runes := []rune(title); len(runes) > MaxMetadataTitleLength {
		title = string(runes[:MaxMetadataTitleLength])
	}
	return map[string]string{
		"recipe_id": strconv.FormatInt(recipe.ID, 10),
		"title":     title,
	}
}

// DocumentID returns the vector document ID for a recipe, which is just its
// numeric ID rendered as a string.
func DocumentID(recipe *models.Recipe) string {
	return strconv.FormatInt(recipe.ID, 10)
}
