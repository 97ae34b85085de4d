package events

import (
	"time"

	"ticketly/internal/seats"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RegisterValidations installs the module's custom binding rules on gin's
// validator engine. Call once at router setup.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("rfc3339", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(time.RFC3339, fl.Field().String())
			return err == nil
		})
	}
}

// Event defines the structure for ticketed events
type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Location    string    `gorm:"not null" json:"location"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the table name for Event
func (Event) TableName() string {
	return "events"
}

// CreateEventRequest carries the event fields plus the seat layout that is
// generated atomically with the event row.
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Date        string `json:"date" binding:"required,rfc3339"`
	Location    string `json:"location" binding:"required,min=2,max=200"`

	SeatLayout *seats.GenerateConfig `json:"seat_layout"`
}

// UpdateEventRequest allows partial updates of event metadata.
type UpdateEventRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Date        *string `json:"date" binding:"omitempty,rfc3339"`
	Location    *string `json:"location" binding:"omitempty,min=2,max=200"`
}

// EventResponse for API responses
type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts an Event to its API shape
func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		CreatedBy:   e.CreatedBy.String(),
		CreatedAt:   e.CreatedAt,
	}
}

// ListEventsQuery captures list filters from the query string.
type ListEventsQuery struct {
	Page     int    `form:"page,default=1" binding:"gte=1"`
	Limit    int    `form:"limit,default=10" binding:"gte=1,lte=100"`
	Search   string `form:"search"`
	Upcoming bool   `form:"upcoming"`
}

// PaginatedEvents wraps a page of events with paging metadata.
type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
