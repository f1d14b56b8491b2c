package types

// Recipe is one free-text recipe entry. Ingredients and Procedure are
// opaque text blocks; only the name is validated.
type Recipe struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Ingredients string `json:"ingredients"`
	Procedure   string `json:"procedure"`
}

// RecipeBook is the single recipe catalog document (no buy/sell split).
type RecipeBook struct {
	Recipes []Recipe `json:"recipes"`
}

// DefaultRecipeBook returns the document written when the recipe slot is
// absent or unparsable.
func DefaultRecipeBook() RecipeBook {
	return RecipeBook{Recipes: []Recipe{}}
}
