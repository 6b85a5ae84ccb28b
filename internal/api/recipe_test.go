package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type recipeFixture struct {
	recipes     *mocks.MockRecipeService
	memberships *mocks.MockMembershipService
	shopping    *mocks.MockShoppingListService
	handler     *RecipeHandler
}

func newRecipeFixture() *recipeFixture {
	f := &recipeFixture{
		recipes:     new(mocks.MockRecipeService),
		memberships: new(mocks.MockMembershipService),
		shopping:    new(mocks.MockShoppingListService),
	}
	f.handler = NewRecipeHandler(f.recipes, f.memberships, f.shopping, 6)
	return f
}

func TestListRecipesPassesFilterAndViewer(t *testing.T) {
	f := newRecipeFixture()
	viewer := uuid.New()
	author := uuid.New()

	wantFilter := service.RecipeFilter{Authors: []uuid.UUID{author}, Tags: []string{"breakfast", "lunch"}, IsFavorited: true}
	f.recipes.On("List", mock.Anything, &viewer, wantFilter, types.Pagination{Page: 1, Limit: 6}).
		Return([]types.RecipeResponse{{ID: uuid.New(), Name: "Omelette"}}, int64(7), nil)

	r := gin.New()
	r.GET("/api/recipes", asUser(viewer), f.handler.ListRecipes)

	w := perform(r, http.MethodGet, "/api/recipes?author="+author.String()+"&tags=breakfast&tags=lunch&is_favorited=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page types.Page[types.RecipeResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 7, page.Count)
	assert.NotNil(t, page.Next)
	assert.Nil(t, page.Previous)
	f.recipes.AssertExpectations(t)
}

func TestListRecipesRejectsBadFilter(t *testing.T) {
	f := newRecipeFixture()
	r := gin.New()
	r.GET("/api/recipes", f.handler.ListRecipes)

	w := perform(r, http.MethodGet, "/api/recipes?is_in_shopping_cart=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.recipes.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRecipe(t *testing.T) {
	f := newRecipeFixture()
	userID := uuid.New()
	created := &types.RecipeResponse{ID: uuid.New(), Name: "Soup", CookingTime: 30}

	f.recipes.On("Create", mock.Anything, userID, mock.MatchedBy(func(req *types.CreateRecipeRequest) bool {
		return req.Name == "Soup" && len(req.Ingredients) == 1
	})).Return(created, nil)

	r := gin.New()
	r.POST("/api/recipes", asUser(userID), f.handler.CreateRecipe)

	w := perform(r, http.MethodPost, "/api/recipes", map[string]interface{}{
		"ingredients":  []map[string]interface{}{{"id": uuid.New(), "amount": 2}},
		"tags":         []uuid.UUID{uuid.New()},
		"name":         "Soup",
		"text":         "Boil.",
		"cooking_time": 30,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), created.ID.String())
}

func TestCreateRecipeRejectsWrongTypes(t *testing.T) {
	f := newRecipeFixture()
	r := gin.New()
	r.POST("/api/recipes", asUser(uuid.New()), f.handler.CreateRecipe)

	w := perform(r, http.MethodPost, "/api/recipes", map[string]interface{}{"cooking_time": "soon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cooking_time", decodeError(t, w).Field)
}

func TestUpdateRecipeMapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not author", apperror.Forbidden("only the author can change this recipe"), http.StatusForbidden},
		{"missing", apperror.NotFound("recipe", "x"), http.StatusNotFound},
		{"duplicate ingredient", apperror.Conflict("ingredients", "duplicate"), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRecipeFixture()
			userID, recipeID := uuid.New(), uuid.New()
			f.recipes.On("Update", mock.Anything, userID, recipeID, mock.Anything).Return(nil, tt.err)

			r := gin.New()
			r.PATCH("/api/recipes/:id", asUser(userID), f.handler.UpdateRecipe)

			w := perform(r, http.MethodPatch, "/api/recipes/"+recipeID.String(), map[string]interface{}{"name": "New"})
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestMembershipRoutes(t *testing.T) {
	f := newRecipeFixture()
	userID, recipeID := uuid.New(), uuid.New()
	brief := &types.RecipeBrief{ID: recipeID, Name: "Pie", CookingTime: 40}

	f.memberships.On("Add", mock.Anything, model.KindFavorite, userID, recipeID).Return(brief, nil).Once()
	f.memberships.On("Add", mock.Anything, model.KindFavorite, userID, recipeID).
		Return(nil, apperror.Conflict("recipe", "recipe is already in favorites")).Once()
	f.memberships.On("Remove", mock.Anything, model.KindShoppingCart, userID, recipeID).
		Return(apperror.NotFound("shopping cart entry", recipeID.String()))

	r := gin.New()
	r.POST("/api/recipes/:id/favorite", asUser(userID), f.handler.FavoriteRecipe)
	r.DELETE("/api/recipes/:id/shopping_cart", asUser(userID), f.handler.RemoveFromShoppingCart)

	path := "/api/recipes/" + recipeID.String()
	w := perform(r, http.MethodPost, path+"/favorite", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var got types.RecipeBrief
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *brief, got)

	w = perform(r, http.MethodPost, path+"/favorite", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = perform(r, http.MethodDelete, path+"/shopping_cart", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	f.memberships.AssertExpectations(t)
}

func TestDownloadShoppingCart(t *testing.T) {
	f := newRecipeFixture()
	userID := uuid.New()
	f.shopping.On("Aggregate", mock.Anything, userID).Return([]service.ShoppingListItem{
		{Name: "flour", Unit: "g", Total: 500},
		{Name: "milk", Unit: "ml", Total: 250},
	}, nil)

	r := gin.New()
	r.GET("/api/recipes/download_shopping_cart", asUser(userID), f.handler.DownloadShoppingCart)

	w := perform(r, http.MethodGet, "/api/recipes/download_shopping_cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_cart.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Shopping list:\nflour - 500, g\nmilk - 250, ml\n", w.Body.String())
}

func TestDeleteRecipeInvalidID(t *testing.T) {
	f := newRecipeFixture()
	r := gin.New()
	r.DELETE("/api/recipes/:id", asUser(uuid.New()), f.handler.DeleteRecipe)

	w := perform(r, http.MethodDelete, "/api/recipes/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	f.recipes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
