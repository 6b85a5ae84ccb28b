package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockCatalogService is a mock implementation of service.ICatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListTags(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]model.Tag)
	return tags, args.Error(1)
}

func (m *MockCatalogService) GetTag(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockCatalogService) SearchIngredients(ctx context.Context, term string) ([]model.Ingredient, error) {
	args := m.Called(ctx, term)
	ingredients, _ := args.Get(0).([]model.Ingredient)
	return ingredients, args.Error(1)
}

func (m *MockCatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

func (m *MockCatalogService) ImportIngredients(ctx context.Context, r io.Reader) (service.ImportResult, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(service.ImportResult), args.Error(1)
}

func (m *MockCatalogService) SeedTags(ctx context.Context, inputs []types.TagInput) (int64, error) {
	args := m.Called(ctx, inputs)
	return args.Get(0).(int64), args.Error(1)
}
