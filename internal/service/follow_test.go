package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testutil"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestFollowSelfIsRejected(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewFollowService(db)
	user := testutil.CreateUser(t, db, "")

	_, err := svc.Follow(context.Background(), user.ID, user.ID, service.NoRecipesLimit)
	assert.True(t, errors.Is(err, apperror.ErrSelfFollow))
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	var count int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFollowTwiceConflicts(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewFollowService(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "")
	author := testutil.CreateUser(t, db, "")

	sub, err := svc.Follow(ctx, user.ID, author.ID, service.NoRecipesLimit)
	require.NoError(t, err)
	assert.Equal(t, author.ID, sub.ID)
	assert.True(t, sub.IsSubscribed)

	_, err = svc.Follow(ctx, user.ID, author.ID, service.NoRecipesLimit)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestFollowUnknownAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewFollowService(db)
	user := testutil.CreateUser(t, db, "")

	_, err := svc.Follow(context.Background(), user.ID, uuid.New(), service.NoRecipesLimit)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	err = svc.Unfollow(context.Background(), user.ID, uuid.New())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestUnfollow(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewFollowService(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "")
	author := testutil.CreateUser(t, db, "")

	err := svc.Unfollow(ctx, user.ID, author.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "no edge yet")

	testutil.FollowUser(t, db, user, author)
	require.NoError(t, svc.Unfollow(ctx, user.ID, author.ID))

	subscribed, err := svc.SubscribedTo(ctx, user.ID, []uuid.UUID{author.ID})
	require.NoError(t, err)
	assert.False(t, subscribed[author.ID])
}

func TestSubscriptions(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewFollowService(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "reader")
	anna := testutil.CreateUser(t, db, "anna")
	boris := testutil.CreateUser(t, db, "boris")
	stranger := testutil.CreateUser(t, db, "stranger")

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		testutil.CreateRecipe(t, db, anna, name, testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Hour)))
	}
	testutil.CreateRecipe(t, db, stranger, "unrelated")

	testutil.FollowUser(t, db, user, boris)
	testutil.FollowUser(t, db, user, anna)

	subs, total, err := svc.Subscriptions(ctx, user.ID, types.Pagination{Page: 1, Limit: 10}, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, subs, 2)

	assert.Equal(t, "anna", subs[0].Username)
	assert.True(t, subs[0].IsSubscribed)
	assert.Equal(t, int64(3), subs[0].RecipesCount)
	require.Len(t, subs[0].Recipes, 2, "recipes_limit caps the sample")
	assert.Equal(t, "third", subs[0].Recipes[0].Name)
	assert.Equal(t, "second", subs[0].Recipes[1].Name)

	assert.Equal(t, "boris", subs[1].Username)
	assert.Zero(t, subs[1].RecipesCount)
	assert.Empty(t, subs[1].Recipes)

	all, _, err := svc.Subscriptions(ctx, user.ID, types.Pagination{Page: 1, Limit: 1}, service.NoRecipesLimit)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Recipes, 3)
}

func TestParseRecipesLimit(t *testing.T) {
	n, err := service.ParseRecipesLimit("")
	require.NoError(t, err)
	assert.Equal(t, service.NoRecipesLimit, n)

	n, err = service.ParseRecipesLimit("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"-1", "three", "1.5"} {
		_, err := service.ParseRecipesLimit(bad)
		assert.True(t, errors.Is(err, apperror.ErrValidation), bad)
	}
}

func TestUserViews(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewFollowService(db)
	viewer := testutil.CreateUser(t, db, "")
	followed := testutil.CreateUser(t, db, "")
	other := testutil.CreateUser(t, db, "")
	testutil.FollowUser(t, db, viewer, followed)

	views, err := svc.UserViews(context.Background(), &viewer.ID, []model.User{*followed, *other})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].IsSubscribed)
	assert.False(t, views[1].IsSubscribed)

	anon, err := svc.UserViews(context.Background(), nil, []model.User{*followed})
	require.NoError(t, err)
	assert.False(t, anon[0].IsSubscribed)
}
