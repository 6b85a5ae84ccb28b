package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	ContextUserID = applog.FieldUserID
	ContextClaims = "claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, validator) {
			return
		}
		if _, ok := UserID(c); !ok {
			abortUnauthorized(c, "authentication credentials were not provided")
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a bad token.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, validator) {
			c.Next()
		}
	}
}

// authenticate stores the caller's claims when an Authorization header is
// present. It returns false after aborting the request.
func authenticate(c *gin.Context, validator TokenValidator) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return true
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		abortUnauthorized(c, "invalid authorization header format")
		return false
	}

	claims, err := validator.ValidateToken(c.Request.Context(), parts[1])
	if err != nil {
		abortUnauthorized(c, err.Error())
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextClaims, claims)
	c.Request = c.Request.WithContext(applog.WithUser(c.Request.Context(), claims.UserID.String()))
	return true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
	})
}

// UserID returns the authenticated caller, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Viewer returns the authenticated caller or nil for anonymous requests.
func Viewer(c *gin.Context) *uuid.UUID {
	if id, ok := UserID(c); ok {
		return &id
	}
	return nil
}

func Claims(c *gin.Context) (*types.TokenClaims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*types.TokenClaims)
	return claims, ok
}
