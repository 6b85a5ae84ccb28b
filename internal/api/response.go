package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/apperror"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// statusFor maps a domain error onto an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrSelfFollow):
		return http.StatusBadRequest, "self_follow"
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, "permission_denied"
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	body := ErrorResponse{Error: code, Message: err.Error()}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
		body.Field = appErr.Field
	}

	if status == http.StatusInternalServerError {
		l := applog.Ctx(c.Request.Context())
		l.Error().Err(err).Msg("request failed")
		body.Message = "internal server error"
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the request body into dst and writes a 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.ValidationFailed(fe.Field(), fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag()))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperror.ValidationFailed(typeErr.Field, fmt.Sprintf("%s has the wrong type", typeErr.Field))
	}
	return apperror.ValidationFailed("", "invalid request body")
}

// pathID parses a UUID path parameter. A malformed id cannot match any row,
// so it is reported as not found.
func pathID(c *gin.Context, resource string) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, apperror.NotFound(resource, raw))
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads page and limit. limit defaults to defaultLimit and is
// capped at types.MaxPageSize.
func parsePagination(c *gin.Context, defaultLimit int) (types.Pagination, error) {
	p := types.Pagination{Page: 1, Limit: defaultLimit}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, apperror.NotFound("page", raw)
		}
		p.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, apperror.ValidationFailed("limit", "limit must be a positive integer")
		}
		p.Limit = n
	}
	if p.Limit > types.MaxPageSize {
		p.Limit = types.MaxPageSize
	}
	return p, nil
}

// newPage wraps one page of results with absolute next and previous links.
func newPage[T any](c *gin.Context, p types.Pagination, count int64, results []T) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	page := types.Page[T]{Count: count, Results: results}
	if int64(p.Page*p.Limit) < count {
		next := pageURL(c, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		page.Previous = &prev
	}
	return page
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}

	u := *c.Request.URL
	u.Scheme = scheme
	u.Host = c.Request.Host
	u.RawQuery = q.Encode()
	return u.String()
}
