package events

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the event endpoints.
func RegisterRoutes(rg *gin.RouterGroup, controller *Controller, adminLimit gin.HandlerFunc) {
	eventRoutes := rg.Group("/events")
	{
		// Public reads
		eventRoutes.GET("", controller.ListEvents)
		eventRoutes.GET("/:id", controller.GetEvent)

		// Admin mutations
		adminRoutes := eventRoutes.Group("")
		adminRoutes.Use(adminLimit, middleware.JWTAuth(), middleware.RequireAdmin())
		{
			adminRoutes.POST("", controller.CreateEvent)
			adminRoutes.PUT("/:id", controller.UpdateEvent)
			adminRoutes.DELETE("/:id", controller.DeleteEvent)
		}
	}
}
