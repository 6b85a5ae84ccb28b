package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication and account operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context, page types.Pagination) ([]model.User, int64, error)
	SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeResponse, error)
	Update(ctx context.Context, userID, recipeID uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error)
	Delete(ctx context.Context, userID, recipeID uuid.UUID) error
	Get(ctx context.Context, viewer *uuid.UUID, recipeID uuid.UUID) (*types.RecipeResponse, error)
	List(ctx context.Context, viewer *uuid.UUID, filter RecipeFilter, page types.Pagination) ([]types.RecipeResponse, int64, error)
}

// IMembershipService defines the interface for favorites and the shopping cart
type IMembershipService interface {
	Add(ctx context.Context, kind model.MembershipKind, userID, recipeID uuid.UUID) (*types.RecipeBrief, error)
	Remove(ctx context.Context, kind model.MembershipKind, userID, recipeID uuid.UUID) error
}

type IShoppingListService interface {
	Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error)
}

// IFollowService defines the interface for subscriptions between users
type IFollowService interface {
	Follow(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error)
	Unfollow(ctx context.Context, userID, authorID uuid.UUID) error
	Subscriptions(ctx context.Context, userID uuid.UUID, page types.Pagination, recipesLimit int) ([]types.SubscriptionResponse, int64, error)
	UserViews(ctx context.Context, viewer *uuid.UUID, users []model.User) ([]types.UserResponse, error)
}

// ICatalogService defines the interface for the tag and ingredient catalogs
type ICatalogService interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	SearchIngredients(ctx context.Context, term string) ([]model.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	ImportIngredients(ctx context.Context, r io.Reader) (ImportResult, error)
	SeedTags(ctx context.Context, inputs []types.TagInput) (int64, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IMembershipService   = (*MembershipService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
	_ IFollowService       = (*FollowService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
)
