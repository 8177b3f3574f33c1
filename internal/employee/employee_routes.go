package employee

import (
	"time"

	"ems-sync/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the directory endpoints. guards run before every
// route, typically the session middleware that rejects unauthenticated callers.
// rdb may be nil, which disables Idempotency-Key handling on create.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	guards ...gin.HandlerFunc,
) {
	employees := r.Group("/employees")
	employees.Use(guards...)
	{
		employees.GET("",
			middleware.RateLimitBySession(5, 20),
			handler.List,
		)

		employees.GET("/facets",
			middleware.RateLimitBySession(5, 20),
			handler.Facets,
		)

		employees.GET("/:id",
			middleware.RateLimitBySession(5, 20),
			handler.GetByID,
		)

		employees.POST("",
			middleware.RateLimitBySession(1, 5),
			middleware.Idempotency(rdb, 24*time.Hour),
			handler.Create,
		)

		employees.PATCH("/:id",
			middleware.RateLimitBySession(1, 5),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitBySession(0.5, 2),
			handler.Delete,
		)
	}
}
