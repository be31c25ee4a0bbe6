package types

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries a freshly issued bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// Tags and ingredients are lists of names; each is resolved to an owned row,
// reusing an existing one when the name matches.
type CreateRecipeRequest struct {
	Title       string   `json:"title" binding:"required"`
	TimeMinutes int      `json:"time_minutes" binding:"min=0"`
	Price       float64  `json:"price" binding:"min=0"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Tags        []string `json:"tags"`
	Ingredients []string `json:"ingredients"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// Pointer fields distinguish "absent" from "set to zero value": a nil field is
// left untouched, a present empty tag/ingredient list clears that relation.
type UpdateRecipeRequest struct {
	Title       *string   `json:"title"`
	TimeMinutes *int      `json:"time_minutes" binding:"omitempty,min=0"`
	Price       *float64  `json:"price" binding:"omitempty,min=0"`
	Description *string   `json:"description"`
	Link        *string   `json:"link"`
	Tags        *[]string `json:"tags"`
	Ingredients *[]string `json:"ingredients"`
}

// UpdateNameRequest renames a tag or an ingredient
type UpdateNameRequest struct {
	Name string `json:"name" binding:"required"`
}
