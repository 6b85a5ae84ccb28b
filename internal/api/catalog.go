package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// CatalogHandler serves the read-only tag and ingredient catalogs.
// Neither list is paginated.
type CatalogHandler struct {
	catalogService service.ICatalogService
}

func NewCatalogHandler(catalogService service.ICatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalogService.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]types.TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, service.ToTagResponse(&tags[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c, "tag")
	if !ok {
		return
	}

	tag, err := h.catalogService.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ToTagResponse(tag))
}

// ListIngredients searches names case-insensitively (?name=).
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalogService.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]types.IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		out = append(out, service.ToIngredientResponse(&ingredients[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c, "ingredient")
	if !ok {
		return
	}

	ingredient, err := h.catalogService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ToIngredientResponse(ingredient))
}
