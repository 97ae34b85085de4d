package seats

import (
	"net/http"

	"ticketly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

type updatePriceRequest struct {
	Price float64 `json:"price" binding:"required,gte=0"`
}

type releaseSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}

// GetSeats returns all seats for an event, optionally filtered by category.
func (ctrl *Controller) GetSeats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	seats, err := ctrl.service.ListSeats(c.Request.Context(), eventID, c.Query("category"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats fetched successfully", gin.H{
		"seats": seats,
		"total": len(seats),
	}, nil)
}

// GetAvailableSeats returns only the seats currently claimable for an event.
func (ctrl *Controller) GetAvailableSeats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	seats, err := ctrl.service.ListAvailableSeats(c.Request.Context(), eventID, c.Query("category"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Available seats fetched successfully", gin.H{
		"seats": seats,
		"total": len(seats),
	}, nil)
}

// UpdateSeatPrice changes the price of a single seat. Admin only.
func (ctrl *Controller) UpdateSeatPrice(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}
	seatID, err := uuid.Parse(c.Param("seatId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid seat ID", nil, err.Error())
		return
	}

	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	seat, err := ctrl.service.UpdateSeatPrice(c.Request.Context(), eventID, seatID, req.Price)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat price updated successfully", gin.H{
		"seat": seat,
	}, nil)
}

// ReleaseSeats force-releases reserved seats back to available. Admin only.
func (ctrl *Controller) ReleaseSeats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req releaseSeatsRequest
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

	released, err := ctrl.service.ReleaseSeats(c.Request.Context(), eventID, seatIDs)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats released successfully", gin.H{
		"released": released,
	}, nil)
}
