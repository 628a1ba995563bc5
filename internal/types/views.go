package types

import (
	"github.com/google/uuid"
)

// TagView is the read shape of a tag.
type TagView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// IngredientView is the read shape of a catalog ingredient.
type IngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// RecipeIngredientView is one ingredient line inside a recipe view.
type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// UserView is the read shape of a user. IsSubscribed is relative to the
// viewer and always false for anonymous viewers.
type UserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// RecipeView is the full read shape of a recipe. IsFavorited and
// IsInShoppingCart are relative to the viewer.
type RecipeView struct {
	ID               uuid.UUID              `json:"id"`
	Tags             []TagView              `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// ShortRecipeView is the condensed recipe shape used wherever a recipe is
// embedded inside another view.
type ShortRecipeView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// SubscriptionView is an author entry in the subscriptions listing:
// the author profile plus a capped recipe preview and the true total.
type SubscriptionView struct {
	UserView
	Recipes      []ShortRecipeView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

// PagedResponse wraps a paged listing with its total row count.
type PagedResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}
