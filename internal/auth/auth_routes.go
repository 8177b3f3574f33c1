package auth

import (
	"ems-sync/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, svc Service) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		auth.GET("/me", SessionContext(svc, handler.cookie.Name), handler.Me)
		auth.POST("/refresh", middleware.RateLimitByIP(1, 5), handler.Refresh)
		auth.POST("/logout", handler.Logout)
	}
}
