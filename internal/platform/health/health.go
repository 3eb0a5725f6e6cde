package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const checkTimeout = 2 * time.Second

// Handler serves liveness and readiness probes.
type Handler struct {
	db      *gorm.DB
	redis   *redis.Client
	service string
}

// NewHandler creates a health Handler checking the given dependencies.
func NewHandler(db *gorm.DB, redisClient *redis.Client, service string) *Handler {
	return &Handler{db: db, redis: redisClient, service: service}
}

// RegisterRoutes registers the probe routes on the router.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// Liveness reports that the process is up.
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Readiness reports whether the service can handle requests.
func (h *Handler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	checks := map[string]bool{
		"database": h.checkDatabase(ctx),
		"redis":    h.checkRedis(ctx),
	}

	for _, healthy := range checks {
		if !healthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "checks": checks})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}

func (h *Handler) checkDatabase(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

func (h *Handler) checkRedis(ctx context.Context) bool {
	if h.redis == nil {
		return false
	}
	return h.redis.Ping(ctx).Err() == nil
}
