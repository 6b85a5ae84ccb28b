package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testutil"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testApp struct {
	db     *gorm.DB
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)

	store, err := storage.NewLocalStore(config.LocalStorage{BasePath: t.TempDir(), BaseURL: "/media"})
	require.NoError(t, err)

	authService := service.NewAuthService(db, config.JWTConfig{Secret: "test-secret"}, nil).WithBcryptCost(bcrypt.MinCost)
	memberships := service.NewMembershipService(db)
	follows := service.NewFollowService(db)
	recipes := service.NewRecipeService(db, memberships, follows, service.NewImageService(store))

	handlers := Handlers{
		Auth:    api.NewAuthHandler(authService),
		Users:   api.NewUserHandler(authService, follows, 6),
		Recipes: api.NewRecipeHandler(recipes, memberships, service.NewShoppingListService(db), 6),
		Catalog: api.NewCatalogHandler(service.NewCatalogService(db)),
		Health:  api.NewHealthHandler(db, nil),
	}
	r := SetupRouter(handlers, Options{
		Logger:         zerolog.Nop(),
		TokenValidator: authService,
		MediaRoot:      store.BasePath(),
		MediaURL:       store.BaseURL(),
	})
	return &testApp{db: db, router: r}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) signUp(t *testing.T, username string) (string, types.UserResponse) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/users", "", types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user types.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))

	w = a.do(t, http.MethodPost, "/api/auth/token/login", "", types.LoginRequest{
		Email:    username + "@example.com",
		Password: "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tok types.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.AuthToken)
	return tok.AuthToken, user
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRecipeLifecycle(t *testing.T) {
	app := newTestApp(t)
	token, author := app.signUp(t, "chef")

	tag := testutil.CreateTag(t, app.db, "dinner")
	flour := testutil.CreateIngredient(t, app.db, "flour", "g")
	eggs := testutil.CreateIngredient(t, app.db, "eggs", "pcs")

	w := app.do(t, http.MethodPost, "/api/recipes", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/api/recipes", token, types.CreateRecipeRequest{
		Ingredients: []types.IngredientAmount{{ID: flour.ID, Amount: 200}, {ID: eggs.ID, Amount: 2}},
		Tags:        []uuid.UUID{tag.ID},
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 15,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var recipe types.RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	assert.Equal(t, author.ID, recipe.Author.ID)
	assert.Len(t, recipe.Ingredients, 2)

	recipePath := "/api/recipes/" + recipe.ID.String()

	w = app.do(t, http.MethodPost, recipePath+"/favorite", token, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = app.do(t, http.MethodPost, recipePath+"/favorite", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodGet, recipePath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	assert.True(t, recipe.IsFavorited)
	assert.False(t, recipe.IsInShoppingCart)

	w = app.do(t, http.MethodGet, "/api/recipes?is_favorited=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page types.Page[types.RecipeResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page.Count, "favorite filter is ignored for anonymous callers")
	assert.False(t, page.Results[0].IsFavorited)

	w = app.do(t, http.MethodPost, recipePath+"/shopping_cart", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="shopping_cart.txt"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, "Shopping list:\neggs - 2, pcs\nflour - 200, g\n", w.Body.String())

	w = app.do(t, http.MethodDelete, recipePath+"/shopping_cart", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = app.do(t, http.MethodDelete, recipePath+"/shopping_cart", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	other, _ := app.signUp(t, "guest")
	w = app.do(t, http.MethodDelete, recipePath, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodDelete, recipePath, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = app.do(t, http.MethodGet, recipePath, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeValidationErrors(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signUp(t, "chef")
	tag := testutil.CreateTag(t, app.db, "lunch")
	salt := testutil.CreateIngredient(t, app.db, "salt", "g")

	tests := []struct {
		name   string
		req    types.CreateRecipeRequest
		status int
	}{
		{"no ingredients", types.CreateRecipeRequest{Tags: []uuid.UUID{tag.ID}, Name: "x", Text: "y", CookingTime: 1}, http.StatusBadRequest},
		{"zero amount", types.CreateRecipeRequest{
			Ingredients: []types.IngredientAmount{{ID: salt.ID, Amount: 0}},
			Tags:        []uuid.UUID{tag.ID}, Name: "x", Text: "y", CookingTime: 1,
		}, http.StatusBadRequest},
		{"duplicate ingredient", types.CreateRecipeRequest{
			Ingredients: []types.IngredientAmount{{ID: salt.ID, Amount: 1}, {ID: salt.ID, Amount: 2}},
			Tags:        []uuid.UUID{tag.ID}, Name: "x", Text: "y", CookingTime: 1,
		}, http.StatusConflict},
		{"unknown tag", types.CreateRecipeRequest{
			Ingredients: []types.IngredientAmount{{ID: salt.ID, Amount: 1}},
			Tags:        []uuid.UUID{uuid.New()}, Name: "x", Text: "y", CookingTime: 1,
		}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodPost, "/api/recipes", token, tt.req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestUsersAndSubscriptions(t *testing.T) {
	app := newTestApp(t)
	token, me := app.signUp(t, "reader")
	_, author := app.signUp(t, "writer")

	w := app.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), me.ID.String())

	w = app.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/users/%s/subscribe", me.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "self_follow")

	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/users/%s/subscribe?recipes_limit=2", author.ID), token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/users/%s/subscribe", author.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodGet, "/api/users/"+author.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var viewed types.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &viewed))
	assert.True(t, viewed.IsSubscribed)

	w = app.do(t, http.MethodGet, "/api/users/subscriptions?recipes_limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/api/users/subscriptions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subs types.Page[types.SubscriptionResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subs))
	require.Len(t, subs.Results, 1)
	assert.Equal(t, "writer", subs.Results[0].Username)

	w = app.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%s/subscribe", author.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = app.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%s/subscribe", author.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterRejectsInvalidUsername(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodPost, "/api/users", "", types.RegisterRequest{
		Email: "x@example.com", Username: "bad name", FirstName: "a", LastName: "b", Password: "longenough",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"username"`)
}

func TestCatalogRoutes(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateIngredient(t, app.db, "Sugar", "g")
	testutil.CreateIngredient(t, app.db, "salt", "g")
	tag := testutil.CreateTag(t, app.db, "sweet")

	w := app.do(t, http.MethodGet, "/api/ingredients?name=su", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []types.IngredientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Sugar", ingredients[0].Name)

	w = app.do(t, http.MethodGet, "/api/tags/"+tag.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodGet, "/api/tags/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
