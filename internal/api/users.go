package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves accounts and the follower graph.
type UserHandler struct {
	authService   service.IAuthService
	followService service.IFollowService
	pageSize      int
}

func NewUserHandler(authService service.IAuthService, followService service.IFollowService, pageSize int) *UserHandler {
	return &UserHandler{
		authService:   authService,
		followService: followService,
		pageSize:      pageSize,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondUser(c, http.StatusCreated, nil, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := parsePagination(c, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	users, total, err := h.authService.ListUsers(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := h.followService.UserViews(c.Request.Context(), middleware.Viewer(c), users)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, page, total, views))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondUser(c, http.StatusOK, middleware.Viewer(c), user)
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondUser(c, http.StatusOK, &userID, user)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := middleware.UserID(c)
	if err := h.authService.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := pathID(c, "user")
	if !ok {
		return
	}
	limit, err := service.ParseRecipesLimit(c.Query("recipes_limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	sub, err := h.followService.Follow(c.Request.Context(), userID, authorID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c, "user")
	if !ok {
		return
	}

	userID, _ := middleware.UserID(c)
	if err := h.followService.Unfollow(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the caller follows, each with a sample of
// their newest recipes.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, err := parsePagination(c, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := service.ParseRecipesLimit(c.Query("recipes_limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	subs, total, err := h.followService.Subscriptions(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, page, total, subs))
}

func (h *UserHandler) respondUser(c *gin.Context, status int, viewer *uuid.UUID, user *model.User) {
	views, err := h.followService.UserViews(c.Request.Context(), viewer, []model.User{*user})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, views[0])
}
