package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, userID, recipeID uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	args := m.Called(ctx, userID, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockRecipeService) Get(ctx context.Context, viewer *uuid.UUID, recipeID uuid.UUID) (*types.RecipeResponse, error) {
	args := m.Called(ctx, viewer, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, viewer *uuid.UUID, filter service.RecipeFilter, page types.Pagination) ([]types.RecipeResponse, int64, error) {
	args := m.Called(ctx, viewer, filter, page)
	recipes, _ := args.Get(0).([]types.RecipeResponse)
	return recipes, args.Get(1).(int64), args.Error(2)
}

// MockMembershipService is a mock implementation of service.IMembershipService
type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) Add(ctx context.Context, kind model.MembershipKind, userID, recipeID uuid.UUID) (*types.RecipeBrief, error) {
	args := m.Called(ctx, kind, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeBrief), args.Error(1)
}

func (m *MockMembershipService) Remove(ctx context.Context, kind model.MembershipKind, userID, recipeID uuid.UUID) error {
	args := m.Called(ctx, kind, userID, recipeID)
	return args.Error(0)
}

type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]service.ShoppingListItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]service.ShoppingListItem)
	return items, args.Error(1)
}
