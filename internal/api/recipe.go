package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListFilename = "shopping_cart.txt"

type RecipeHandler struct {
	recipeService       service.IRecipeService
	membershipService   service.IMembershipService
	shoppingListService service.IShoppingListService
	pageSize            int
}

func NewRecipeHandler(
	recipeService service.IRecipeService,
	membershipService service.IMembershipService,
	shoppingListService service.IShoppingListService,
	pageSize int,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		membershipService:   membershipService,
		shoppingListService: shoppingListService,
		pageSize:            pageSize,
	}
}

// ListRecipes returns recipes newest first, narrowed by author, tags,
// is_favorited and is_in_shopping_cart.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter, err := service.ParseRecipeFilter(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := parsePagination(c, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	recipes, total, err := h.recipeService.List(c.Request.Context(), middleware.Viewer(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, page, total, recipes))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "recipe")
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := middleware.UserID(c)
	recipe, err := h.recipeService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "recipe")
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := middleware.UserID(c)
	recipe, err := h.recipeService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "recipe")
	if !ok {
		return
	}

	userID, _ := middleware.UserID(c)
	if err := h.recipeService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.addMembership(c, model.KindFavorite)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.removeMembership(c, model.KindFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addMembership(c, model.KindShoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeMembership(c, model.KindShoppingCart)
}

func (h *RecipeHandler) addMembership(c *gin.Context, kind model.MembershipKind) {
	recipeID, ok := pathID(c, "recipe")
	if !ok {
		return
	}

	userID, _ := middleware.UserID(c)
	brief, err := h.membershipService.Add(c.Request.Context(), kind, userID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, brief)
}

func (h *RecipeHandler) removeMembership(c *gin.Context, kind model.MembershipKind) {
	recipeID, ok := pathID(c, "recipe")
	if !ok {
		return
	}

	userID, _ := middleware.UserID(c)
	if err := h.membershipService.Remove(c.Request.Context(), kind, userID, recipeID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart sends the aggregated cart as a plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	items, err := h.shoppingListService.Aggregate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	l := applog.Ctx(c.Request.Context())
	l.Debug().Int("items", len(items)).Msg("shopping list rendered")

	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.Render(items)))
}
