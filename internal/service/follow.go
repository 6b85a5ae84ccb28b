package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperror"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/types"
)

// NoRecipesLimit returns every recipe of an author in a subscription.
const NoRecipesLimit = -1

// concurrent per-author queries when building a subscription page
const subscriptionWorkers = 4

// FollowService manages the follower graph.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// ParseRecipesLimit reads the recipes_limit query parameter. An empty value
// means no limit.
func ParseRecipesLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NoRecipesLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.ValidationFailed("recipes_limit", "recipes_limit must be a non-negative integer")
	}
	return n, nil
}

// Follow subscribes userID to authorID and returns the author as a
// subscription entry.
func (s *FollowService) Follow(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error) {
	if userID == authorID {
		return nil, apperror.SelfFollow()
	}

	db := s.db.WithContext(ctx)

	var author model.User
	if err := db.First(&author, "id = ?", authorID).Error; err != nil {
		return nil, notFoundOr(err, "user", authorID.String(), "failed to load author")
	}

	var count int64
	if err := db.Model(&model.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if count > 0 {
		return nil, apperror.Conflict("author", "you are already subscribed to this author")
	}

	if err := db.Create(&model.Follow{UserID: userID, AuthorID: authorID}).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperror.Conflict("author", "you are already subscribed to this author")
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	l := applog.Ctx(ctx)
	l.Info().
		Str(applog.FieldUserID, userID.String()).
		Str(applog.FieldAuthorID, authorID.String()).
		Msg("subscribed to author")

	subs, err := s.describe(ctx, []model.User{author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &subs[0], nil
}

// Unfollow removes the subscription. An unknown author or a missing edge is
// NotFound.
func (s *FollowService) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.User{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load author: %w", err)
	}
	if count == 0 {
		return apperror.NotFound("user", authorID.String())
	}

	result := db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&model.Follow{})
	if result.Error != nil {
		return fmt.Errorf("failed to unsubscribe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperror.AppError{
			Err:     apperror.ErrNotFound,
			Message: "you are not subscribed to this author",
			Field:   "author",
		}
	}
	return nil
}

// Subscriptions lists one page of the authors userID follows, ordered by
// username.
func (s *FollowService) Subscriptions(ctx context.Context, userID uuid.UUID, page types.Pagination, recipesLimit int) ([]types.SubscriptionResponse, int64, error) {
	db := s.db.WithContext(ctx)
	followed := func() *gorm.DB {
		return db.Model(&model.User{}).
			Joins("JOIN follows ON follows.author_id = users.id").
			Where("follows.user_id = ?", userID)
	}

	var total int64
	if err := followed().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var authors []model.User
	if err := followed().
		Order("users.username ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs, err := s.describe(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// SubscribedTo reports which of authorIDs userID follows, in one query.
func (s *FollowService) SubscribedTo(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	subscribed := make(map[uuid.UUID]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return subscribed, nil
	}

	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&model.Follow{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}

// describe loads recipe counts and newest-recipe samples for each author.
// The caller follows every author, so is_subscribed is always true.
func (s *FollowService) describe(ctx context.Context, authors []model.User, recipesLimit int) ([]types.SubscriptionResponse, error) {
	out := make([]types.SubscriptionResponse, len(authors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(subscriptionWorkers)

	for i := range authors {
		i := i
		g.Go(func() error {
			author := &authors[i]
			db := s.db.WithContext(gctx)

			var count int64
			if err := db.Model(&model.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count recipes of %s: %w", author.ID, err)
			}

			var recipes []model.Recipe
			if err := db.Where("author_id = ?", author.ID).
				Order("created_at DESC").
				Order("id DESC").
				Limit(recipesLimit).
				Find(&recipes).Error; err != nil {
				return fmt.Errorf("failed to load recipes of %s: %w", author.ID, err)
			}

			briefs := make([]types.RecipeBrief, 0, len(recipes))
			for j := range recipes {
				briefs = append(briefs, briefOf(&recipes[j]))
			}

			out[i] = types.SubscriptionResponse{
				UserResponse: toUserResponse(author, true),
				Recipes:      briefs,
				RecipesCount: count,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// UserViews converts users into responses with is_subscribed computed for viewer.
func (s *FollowService) UserViews(ctx context.Context, viewer *uuid.UUID, users []model.User) ([]types.UserResponse, error) {
	subscribed := map[uuid.UUID]bool{}
	if viewer != nil && len(users) > 0 {
		ids := make([]uuid.UUID, 0, len(users))
		for i := range users {
			ids = append(ids, users[i].ID)
		}
		var err error
		if subscribed, err = s.SubscribedTo(ctx, *viewer, ids); err != nil {
			return nil, err
		}
	}

	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i], subscribed[users[i].ID]))
	}
	return out, nil
}
