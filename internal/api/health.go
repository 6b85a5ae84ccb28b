package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	applog "github.com/pageza/foodgram/backend/internal/log"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports whether the database and, when configured, Redis
// are reachable.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	checks := gin.H{"database": "ok"}
	healthy := true

	if err := database.HealthCheck(ctx, h.db); err != nil {
		l := applog.Ctx(ctx)
		l.Error().Err(err).Msg("database health check failed")
		checks["database"] = "unavailable"
		healthy = false
	}
	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			l := applog.Ctx(ctx)
			l.Error().Err(err).Msg("redis health check failed")
			checks["redis"] = "unavailable"
			healthy = false
		}
	}

	status, label := http.StatusOK, "healthy"
	if !healthy {
		status, label = http.StatusServiceUnavailable, "unhealthy"
	}
	c.JSON(status, gin.H{"status": label, "checks": checks})
}
