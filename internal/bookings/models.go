package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the transactional record of a hold over seats or general
// admission capacity. TotalAmount is fixed when the booking is created; later
// price changes never affect it.
type Booking struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"event_id"`
	Type        string     `gorm:"type:varchar(30);not null;check:type IN ('seat_based','general_admission')" json:"type"`
	Status      string     `gorm:"type:varchar(20);not null;default:'reserved';check:status IN ('reserved','confirmed','expired')" json:"status"`
	Quantity    int        `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	TotalAmount float64    `gorm:"not null;check:total_amount >= 0" json:"total_amount"`
	PaymentRef  *string    `gorm:"type:varchar(100)" json:"payment_ref,omitempty"`

	ReservedUntil *time.Time `gorm:"index" json:"reserved_until,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`

	Seats []BookingSeat `gorm:"foreignKey:BookingID" json:"seats,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// BookingSeat joins a booking to a seat, snapshotting the price the buyer saw.
type BookingSeat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`
	SeatID    uuid.UUID `gorm:"type:uuid;not null" json:"seat_id"`
	SeatCode  string    `gorm:"not null" json:"seat_code"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for BookingSeat
func (BookingSeat) TableName() string {
	return "booking_seats"
}

func (b *Booking) IsReserved() bool {
	return b.Status == StatusReserved
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// HoldLapsed reports whether a reserved booking has outlived its hold window.
func (b *Booking) HoldLapsed(now time.Time) bool {
	return b.Status == StatusReserved && b.ReservedUntil != nil && b.ReservedUntil.Before(now)
}

// SeatCodes lists the codes of the seats attached to this booking.
func (b *Booking) SeatCodes() []string {
	codes := make([]string, 0, len(b.Seats))
	for _, s := range b.Seats {
		codes = append(codes, s.SeatCode)
	}
	return codes
}

// ===================== Request / Response DTOs =====================

// CreateBookingRequest creates a hold. Seat-based bookings name their seats;
// general admission bookings name a quantity.
type CreateBookingRequest struct {
	EventID  string   `json:"event_id" binding:"required,uuid"`
	Type     string   `json:"type" binding:"required,oneof=seat_based general_admission"`
	SeatIDs  []string `json:"seat_ids" binding:"omitempty,dive,uuid"`
	Quantity int      `json:"quantity" binding:"omitempty,gte=1"`
}

// HoldSeatsRequest is the seat-selection hold used by the interactive seat
// map. It is the seat-based booking path addressed by event.
type HoldSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}

// ConfirmBookingRequest settles a hold. PaymentRef is optional; when absent a
// mock reference is generated.
type ConfirmBookingRequest struct {
	PaymentRef string `json:"payment_ref" binding:"omitempty,max=100"`
}

// BookingSeatResponse for API responses
type BookingSeatResponse struct {
	SeatID   string  `json:"seat_id"`
	SeatCode string  `json:"seat_code"`
	Price    float64 `json:"price"`
}

// BookingResponse for API responses
type BookingResponse struct {
	ID            string                `json:"id"`
	EventID       string                `json:"event_id"`
	UserID        string                `json:"user_id"`
	Type          string                `json:"type"`
	Status        string                `json:"status"`
	Quantity      int                   `json:"quantity,omitempty"`
	TotalAmount   float64               `json:"total_amount"`
	PaymentRef    *string               `json:"payment_ref,omitempty"`
	ReservedUntil *time.Time            `json:"reserved_until,omitempty"`
	ConfirmedAt   *time.Time            `json:"confirmed_at,omitempty"`
	Seats         []BookingSeatResponse `json:"seats,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ToResponse converts a Booking to its API shape
func (b *Booking) ToResponse() BookingResponse {
	seats := make([]BookingSeatResponse, 0, len(b.Seats))
	for _, s := range b.Seats {
		seats = append(seats, BookingSeatResponse{
			SeatID:   s.SeatID.String(),
			SeatCode: s.SeatCode,
			Price:    s.Price,
		})
	}

	return BookingResponse{
		ID:            b.ID.String(),
		EventID:       b.EventID.String(),
		UserID:        b.UserID.String(),
		Type:          b.Type,
		Status:        b.Status,
		Quantity:      b.Quantity,
		TotalAmount:   b.TotalAmount,
		PaymentRef:    b.PaymentRef,
		ReservedUntil: b.ReservedUntil,
		ConfirmedAt:   b.ConfirmedAt,
		Seats:         seats,
		CreatedAt:     b.CreatedAt,
	}
}

// PaymentStatusResponse reports settlement state for a booking.
type PaymentStatusResponse struct {
	BookingID  string  `json:"booking_id"`
	Status     string  `json:"status"`
	PaymentRef *string `json:"payment_ref,omitempty"`
	Amount     float64 `json:"amount"`
}
