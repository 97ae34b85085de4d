package bookings

import (
	"net/http"

	"ticketly/internal/shared/utils/response"
	"ticketly/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func currentUser(c *gin.Context) (uuid.UUID, bool, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false, false
	}
	userID, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, false, false
	}

	role, _ := c.Get("user_role")
	isAdmin := role == string(users.RoleAdmin)
	return userID, isAdmin, true
}

// CreateBooking places a hold: seat-based with explicit seat ids, or general
// admission with a quantity.
func (ctrl *Controller) CreateBooking(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Unauthorized", nil, nil)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := ctrl.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", gin.H{
		"booking": booking,
	}, nil)
}

// HoldSeats places a seat hold for the event in the path. The returned
// booking id doubles as the hold id for confirmation.
func (ctrl *Controller) HoldSeats(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Unauthorized", nil, nil)
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req HoldSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid seat ID in request", nil, err.Error())
			return
		}
		seatIDs = append(seatIDs, id)
	}

	booking, err := ctrl.service.HoldSeats(c.Request.Context(), userID, eventID, seatIDs)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seats held successfully", gin.H{
		"booking": booking,
	}, nil)
}

// ConfirmBooking settles a hold. An empty payment_ref gets a mock reference.
func (ctrl *Controller) ConfirmBooking(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Unauthorized", nil, nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	var req ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := ctrl.service.ConfirmBooking(c.Request.Context(), bookingID, userID, req.PaymentRef)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking confirmed successfully", gin.H{
		"booking": booking,
	}, nil)
}

// GetBooking returns one booking. Owners and admins only.
func (ctrl *Controller) GetBooking(c *gin.Context) {
	userID, isAdmin, ok := currentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Unauthorized", nil, nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), bookingID, userID, isAdmin)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking fetched successfully", gin.H{
		"booking": booking,
	}, nil)
}

// ListMyBookings returns the caller's bookings, optionally filtered by status.
func (ctrl *Controller) ListMyBookings(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Unauthorized", nil, nil)
		return
	}

	bookings, err := ctrl.service.ListUserBookings(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings fetched successfully", gin.H{
		"bookings": bookings,
		"total":    len(bookings),
	}, nil)
}

// GetPaymentStatus reports the settlement state of a booking.
func (ctrl *Controller) GetPaymentStatus(c *gin.Context) {
	userID, isAdmin, ok := currentUser(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Unauthorized", nil, nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	status, err := ctrl.service.GetPaymentStatus(c.Request.Context(), bookingID, userID, isAdmin)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payment status fetched successfully", gin.H{
		"payment": status,
	}, nil)
}
