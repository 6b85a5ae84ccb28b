package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	applog "github.com/pageza/foodgram/backend/internal/log"
)

// Recovery converts a panic into a JSON 500 and logs it with the request logger.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l := applog.Ctx(c.Request.Context())
				l.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("recovered from panic")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
