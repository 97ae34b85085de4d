package auth

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the auth endpoints behind the auth rate class.
func RegisterRoutes(rg *gin.RouterGroup, controller *Controller, authLimit gin.HandlerFunc) {
	authRoutes := rg.Group("/auth")
	authRoutes.Use(authLimit)
	{
		authRoutes.POST("/register", controller.Register)
		authRoutes.POST("/login", controller.Login)
		authRoutes.POST("/refresh", controller.Refresh)

		authRoutes.GET("/me", middleware.JWTAuth(), controller.GetMe)
	}
}
