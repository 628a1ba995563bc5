package types

// RegisterRequest represents the request body for creating a user
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for token issuance
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RecipeIngredientRequest is one (ingredient, amount) line of a submitted
// recipe.
type RecipeIngredientRequest struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required"`
}

// RecipeRequest represents the request body for creating or updating a
// recipe. Updates are a full replace: tags or ingredients omitted from the
// payload are removed from the recipe.
type RecipeRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Text        string                    `json:"text" binding:"required"`
	Image       string                    `json:"image"`
	CookingTime int                       `json:"cooking_time" binding:"required"`
	Ingredients []RecipeIngredientRequest `json:"ingredients" binding:"required"`
	Tags        []uint                    `json:"tags"`
}
