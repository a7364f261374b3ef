package documents

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/coquus/internal/models"
)

func fullRecipe() *models.Recipe {
	return &models.Recipe{
		ID:           42,
		Title:        "Margherita Pizza",
		Description:  "Classic Neapolitan pizza",
		Difficulty:   "medium",
		PrepTime:     30,
		CookTime:     15,
		Servings:     4,
		Instructions: "Stretch the dough, top, and bake hot.",
		Ingredients: []models.RecipeIngredient{
			{Quantity: "500g", Name: "flour"},
			{Quantity: "2", Name: "tomatoes"},
		},
		Category: "Italian",
	}
}

func TestBuildRecipeDocument(t *testing.T) {
	doc := BuildRecipeDocument(fullRecipe())

	expected := strings.Join([]string{
		"Title: Margherita Pizza",
		"Description: Classic Neapolitan pizza",
		"Difficulty: medium",
		"Prep time: 30 minutes. Cook time: 15 minutes.",
		"Servings: 4",
		"Instructions: Stretch the dough, top, and bake hot.",
		"Ingredients: 500g flour, 2 tomatoes",
		"Category: Italian",
	}, "\n")

	assert.Equal(t, expected, doc)
}

func TestBuildRecipeDocumentOmitsEmptySections(t *testing.T) {
	recipe := fullRecipe()
	recipe.Ingredients = nil
	recipe.Category = ""

	doc := BuildRecipeDocument(recipe)
	assert.NotContains(t, doc, "Ingredients:")
	assert.NotContains(t, doc, "Category:")
	assert.True(t, strings.HasSuffix(doc, "Instructions: Stretch the dough, top, and bake hot."))
}

func TestBuildRecipeDocumentDeterministic(t *testing.T) {
	recipe := fullRecipe()
	assert.Equal(t, BuildRecipeDocument(recipe), BuildRecipeDocument(recipe),
		"same recipe must render byte-identical documents")
}

func TestBuildMetadata(t *testing.T) {
	meta := BuildMetadata(fullRecipe())
	assert.Equal(t, "42", meta["recipe_id"])
	assert.Equal(t, "Margherita Pizza", meta["title"])
}

func TestBuildMetadataCapsTitle(t *testing.T) {
	recipe := fullRecipe()
	recipe.Title = strings.Repeat("x", 300)

	meta := BuildMetadata(recipe)
	assert.Len(t, meta["title"], MaxMetadataTitleLength)
}

func TestBuildMetadataCapsTitleByRunes(t *testing.T) {
	recipe := fullRecipe()
	recipe.Title = strings.Repeat("é", 300)

	meta := BuildMetadata(recipe)
	assert.Equal(t, strings.Repeat("é", MaxMetadataTitleLength), meta["title"],
		"truncation must not split a multi-byte character")
	assert.True(t, utf8.ValidString(meta["title"]))
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "42", DocumentID(fullRecipe()))
}
