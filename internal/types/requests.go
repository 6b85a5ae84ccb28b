package types

import "github.com/google/uuid"

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// IngredientAmount is one {id, amount} pair of a recipe write payload.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// CreateRecipeRequest is bound without struct-tag validation: the recipe
// service reports each problem with its own error category.
type CreateRecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uuid.UUID        `json:"tags"`
	Image       string             `json:"image"`
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	CookingTime int                `json:"cooking_time"`
}

// UpdateRecipeRequest is a partial update. Ingredients and Tags are required
// and replace the existing sets; nil scalar fields keep their current value.
type UpdateRecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uuid.UUID        `json:"tags"`
	Image       *string            `json:"image"`
	Name        *string            `json:"name"`
	Text        *string            `json:"text"`
	CookingTime *int               `json:"cooking_time"`
}

type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// TagInput is a catalog tag as read by the seeding tool.
type TagInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}
