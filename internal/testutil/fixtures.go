package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/model"
)

// Password is the plain-text password of every fixture user.
const Password = "s3cret-pass"

var seq atomic.Int64

func next() int64 { return seq.Add(1) }

// passwordHash is computed once; bcrypt is slow on purpose.
var passwordHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	if username == "" {
		username = fmt.Sprintf("user%d", next())
	}
	u := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: passwordHash,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateTag(t *testing.T, db *gorm.DB, slug string) *model.Tag {
	t.Helper()
	n := next()
	tag := &model.Tag{
		Name:  fmt.Sprintf("Tag %s", slug),
		Color: fmt.Sprintf("#%06X", n),
		Slug:  slug,
	}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *model.Ingredient {
	t.Helper()
	ing := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// RecipeOption customizes CreateRecipe.
type RecipeOption func(*model.Recipe)

func WithTags(tags ...*model.Tag) RecipeOption {
	return func(r *model.Recipe) {
		for _, tag := range tags {
			r.Tags = append(r.Tags, *tag)
		}
	}
}

func WithIngredient(ing *model.Ingredient, amount int) RecipeOption {
	return func(r *model.Recipe) {
		r.Ingredients = append(r.Ingredients, model.RecipeIngredient{IngredientID: ing.ID, Amount: amount})
	}
}

// WithCreatedAt pins the creation time so ordering assertions are stable.
func WithCreatedAt(ts time.Time) RecipeOption {
	return func(r *model.Recipe) { r.CreatedAt = ts }
}

// CreateRecipe inserts a recipe with its tag links and amounts directly,
// bypassing service validation.
func CreateRecipe(t *testing.T, db *gorm.DB, author *model.User, name string, opts ...RecipeOption) *model.Recipe {
	t.Helper()
	r := &model.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        name + " instructions",
		CookingTime: 10,
	}
	for _, opt := range opts {
		opt(r)
	}

	tags, ingredients := r.Tags, r.Ingredients
	r.Tags, r.Ingredients = nil, nil
	require.NoError(t, db.Omit(clause.Associations).Create(r).Error)

	for _, tag := range tags {
		require.NoError(t, db.Create(&model.RecipeTag{RecipeID: r.ID, TagID: tag.ID}).Error)
	}
	for i := range ingredients {
		ingredients[i].RecipeID = r.ID
		require.NoError(t, db.Create(&ingredients[i]).Error)
	}
	r.Tags, r.Ingredients = tags, ingredients
	return r
}

// Mark puts a recipe into one of the user's membership sets.
func Mark(t *testing.T, db *gorm.DB, kind model.MembershipKind, user *model.User, recipe *model.Recipe) {
	t.Helper()
	require.NoError(t, db.Create(&model.RecipeMembership{Kind: kind, UserID: user.ID, RecipeID: recipe.ID}).Error)
}

func FollowUser(t *testing.T, db *gorm.DB, user, author *model.User) {
	t.Helper()
	require.NoError(t, db.Create(&model.Follow{UserID: user.ID, AuthorID: author.ID}).Error)
}
