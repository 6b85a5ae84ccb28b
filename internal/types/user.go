package types

import "github.com/google/uuid"

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// SubscriptionResponse is a followed author with a sample of their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeBrief `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}
