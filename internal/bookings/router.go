package bookings

import (
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the booking endpoints. Everything here requires an
// authenticated user. Reads sit in the booking rate class; the hold, create
// and confirm paths take the stricter booking-critical class so a retry
// storm cannot starve the seat locks.
func RegisterRoutes(rg *gin.RouterGroup, controller *Controller, bookingLimit, criticalLimit gin.HandlerFunc) {
	auth := middleware.JWTAuth()

	bookingRoutes := rg.Group("/bookings")
	bookingRoutes.Use(bookingLimit, auth)
	{
		bookingRoutes.POST("", criticalLimit, controller.CreateBooking)
		bookingRoutes.GET("", controller.ListMyBookings)
		bookingRoutes.GET("/:id", controller.GetBooking)
		bookingRoutes.POST("/:id/confirm", criticalLimit, controller.ConfirmBooking)
		bookingRoutes.GET("/:id/payment", controller.GetPaymentStatus)
	}

	// Seat-map hold flow, addressed by event.
	holdRoutes := rg.Group("/events/:id/holds")
	holdRoutes.Use(bookingLimit, auth)
	{
		holdRoutes.POST("", criticalLimit, controller.HoldSeats)
	}
}
