package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockFollowService is a mock implementation of service.IFollowService
type MockFollowService struct {
	mock.Mock
}

func (m *MockFollowService) Follow(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error) {
	args := m.Called(ctx, userID, authorID, recipesLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SubscriptionResponse), args.Error(1)
}

func (m *MockFollowService) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	args := m.Called(ctx, userID, authorID)
	return args.Error(0)
}

func (m *MockFollowService) Subscriptions(ctx context.Context, userID uuid.UUID, page types.Pagination, recipesLimit int) ([]types.SubscriptionResponse, int64, error) {
	args := m.Called(ctx, userID, page, recipesLimit)
	subs, _ := args.Get(0).([]types.SubscriptionResponse)
	return subs, args.Get(1).(int64), args.Error(2)
}

func (m *MockFollowService) UserViews(ctx context.Context, viewer *uuid.UUID, users []model.User) ([]types.UserResponse, error) {
	args := m.Called(ctx, viewer, users)
	views, _ := args.Get(0).([]types.UserResponse)
	return views, args.Error(1)
}
