package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/foodgram/backend/internal/api"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth    *api.AuthHandler
	Users   *api.UserHandler
	Recipes *api.RecipeHandler
	Catalog *api.CatalogHandler
	Health  *api.HealthHandler
}

type Options struct {
	Logger         zerolog.Logger
	CORSOrigins    []string
	TokenValidator middleware.TokenValidator
	// RecipeCreationLimiter is optional; nil disables rate limiting.
	RecipeCreationLimiter *middleware.RateLimiter
	// MediaRoot and MediaURL serve locally stored images when both are set.
	MediaRoot string
	MediaURL  string
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(applog.GinMiddleware(opts.Logger))
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(opts.CORSOrigins))

	router.GET("/health", h.Health.HealthCheck)

	if opts.MediaRoot != "" && opts.MediaURL != "" {
		router.Static(opts.MediaURL, opts.MediaRoot)
	}

	requireAuth := middleware.AuthMiddleware(opts.TokenValidator)
	optionalAuth := middleware.OptionalAuth(opts.TokenValidator)

	v1 := router.Group("/api")

	// Auth routes
	auth := v1.Group("/auth/token")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", requireAuth, h.Auth.Logout)
	}

	// User routes; static segments are registered before /:id
	users := v1.Group("/users")
	{
		users.POST("", h.Users.Register)
		users.GET("", optionalAuth, h.Users.ListUsers)
		users.GET("/me", requireAuth, h.Users.Me)
		users.POST("/set_password", requireAuth, h.Users.SetPassword)
		users.GET("/subscriptions", requireAuth, h.Users.Subscriptions)
		users.GET("/:id", optionalAuth, h.Users.GetUser)
		users.POST("/:id/subscribe", requireAuth, h.Users.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, h.Users.Unsubscribe)
	}

	// Recipe routes
	createRecipe := []gin.HandlerFunc{requireAuth}
	if opts.RecipeCreationLimiter != nil {
		createRecipe = append(createRecipe, opts.RecipeCreationLimiter.RateLimitMiddleware())
	}
	createRecipe = append(createRecipe, h.Recipes.CreateRecipe)

	recipes := v1.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.Recipes.ListRecipes)
		recipes.POST("", createRecipe...)
		recipes.GET("/download_shopping_cart", requireAuth, h.Recipes.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.Recipes.GetRecipe)
		recipes.PATCH("/:id", requireAuth, h.Recipes.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.Recipes.DeleteRecipe)
		recipes.POST("/:id/favorite", requireAuth, h.Recipes.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", requireAuth, h.Recipes.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", requireAuth, h.Recipes.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", requireAuth, h.Recipes.RemoveFromShoppingCart)
	}

	// Catalog routes
	v1.GET("/tags", h.Catalog.ListTags)
	v1.GET("/tags/:id", h.Catalog.GetTag)
	v1.GET("/ingredients", h.Catalog.ListIngredients)
	v1.GET("/ingredients/:id", h.Catalog.GetIngredient)

	return router
}
