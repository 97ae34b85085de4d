package seats

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the seat endpoints under /events/:id/seats.
func RegisterRoutes(rg *gin.RouterGroup, controller *Controller, adminLimit gin.HandlerFunc) {
	seatRoutes := rg.Group("/events/:id/seats")
	{
		// Public reads
		seatRoutes.GET("", controller.GetSeats)
		seatRoutes.GET("/available", controller.GetAvailableSeats)

		// Admin mutations
		adminRoutes := seatRoutes.Group("")
		adminRoutes.Use(adminLimit, middleware.JWTAuth(), middleware.RequireAdmin())
		{
			adminRoutes.PATCH("/:seatId/price", controller.UpdateSeatPrice)
			adminRoutes.POST("/release", controller.ReleaseSeats)
		}
	}
}
