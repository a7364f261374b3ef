package models

import "time"

// RecipeIngredient is a single (quantity, ingredient name) pair on a recipe.
type RecipeIngredient struct {
	Quantity string `json:"quantity"` // e.g., "2 cups", "500g"
	Name     string `json:"name"`
}

// Recipe is a source record in the corpus. Recipes are owned by the
// record-management side of the system; the assistant only reads them.
type Recipe struct {
	ID          int64  `json:"id" badgerhold:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"` // easy, medium, hard

	PrepTime int `json:"prep_time"` // minutes
	CookTime int `json:"cook_time"` // minutes
	Servings int `json:"servings"`

	Instructions string             `json:"instructions"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Category     string             `json:"category,omitempty"` // optional

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
