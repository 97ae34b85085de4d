package notifications

import (
	"encoding/json"
	"time"
)

// Booking lifecycle event types published to Kafka.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingExpired   = "booking.expired"
)

// BookingEvent is the payload published for every booking state transition.
// Consumers (email workers, analytics) key on BookingID.
type BookingEvent struct {
	Type        string    `json:"type"`
	BookingID   string    `json:"booking_id"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	BookingType string    `json:"booking_type"`
	TotalAmount float64   `json:"total_amount"`
	SeatCodes   []string  `json:"seat_codes,omitempty"`
	Quantity    int       `json:"quantity,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ToJSON serializes the event for the wire.
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
