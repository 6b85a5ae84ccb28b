package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/types"
)

type stubValidator struct {
	userID uuid.UUID
}

func (v stubValidator) ValidateToken(_ context.Context, token string) (*types.TokenClaims, error) {
	if token != "good" {
		return nil, apperror.Unauthorized("invalid or expired token")
	}
	return &types.TokenClaims{UserID: v.userID, Username: "cook"}, nil
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		viewer := Viewer(c)
		if viewer == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, viewer.String())
	})
	return r
}

func doGet(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	id := uuid.New()
	r := newAuthRouter(AuthMiddleware(stubValidator{userID: id}))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Token good", http.StatusUnauthorized, ""},
		{"bad token", "Bearer bad", http.StatusUnauthorized, ""},
		{"valid token", "Bearer good", http.StatusOK, id.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"error":"unauthorized"`)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	id := uuid.New()
	r := newAuthRouter(OptionalAuth(stubValidator{userID: id}))

	w := doGet(r, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = doGet(r, "Bearer good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())

	w = doGet(r, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
