package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperror.SelfFollow(), http.StatusBadRequest, "self_follow"},
		{apperror.ValidationFailed("name", "required"), http.StatusBadRequest, "validation_error"},
		{fmt.Errorf("wrapped: %w", apperror.NotFound("recipe", "1")), http.StatusNotFound, "not_found"},
		{apperror.Conflict("recipe", "dup"), http.StatusConflict, "conflict"},
		{apperror.Forbidden("nope"), http.StatusForbidden, "permission_denied"},
		{apperror.Unauthorized("who"), http.StatusUnauthorized, "unauthorized"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		status, code := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { respondError(c, errors.New("pq: connection refused")) })

	w := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "internal server error", body.Message)
}

func TestRespondErrorCarriesField(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		respondError(c, apperror.ValidationFailed("cooking_time", "cooking time must be at least 1 minute"))
	})

	body := decodeError(t, perform(r, http.MethodGet, "/", nil))
	assert.Equal(t, "validation_error", body.Error)
	assert.Equal(t, "cooking_time", body.Field)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query   string
		want    types.Pagination
		wantErr bool
	}{
		{"", types.Pagination{Page: 1, Limit: 6}, false},
		{"?page=3&limit=10", types.Pagination{Page: 3, Limit: 10}, false},
		{"?limit=1000", types.Pagination{Page: 1, Limit: types.MaxPageSize}, false},
		{"?page=0", types.Pagination{}, true},
		{"?limit=abc", types.Pagination{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/recipes"+tt.query, nil)

			got, err := parsePagination(c, 6)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPageLinks(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "http://api.example.com/api/recipes?page=2&limit=2&tags=dinner", nil)

	page := newPage(c, types.Pagination{Page: 2, Limit: 2}, 5, []int{3, 4})

	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://api.example.com/api/recipes?limit=2&page=3&tags=dinner", *page.Next)
	assert.Equal(t, "http://api.example.com/api/recipes?limit=2&tags=dinner", *page.Previous)

	last := newPage[int](c, types.Pagination{Page: 3, Limit: 2}, 5, nil)
	assert.Nil(t, last.Next)
	assert.NotNil(t, last.Results)
}
