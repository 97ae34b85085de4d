package seats

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Seat statuses. A seat only ever moves available -> reserved -> sold, with
// reserved -> available on release or expiry. Sold is terminal.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
)

// EligibleClause is the SQL predicate for "claimable right now". Expiry is a
// soft TTL: a reserved seat whose hold has lapsed is claimable before the
// sweeper has physically reclaimed it, so every reader applies the lapsed
// check itself instead of trusting seat status alone. Takes one time argument.
const EligibleClause = "(status = 'available' OR (status = 'reserved' AND reserved_until < ?))"

// Seat defines the structure for individual seats
type Seat struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_event_seat_code" json:"event_id"`
	SeatCode      string     `gorm:"not null;uniqueIndex:idx_event_seat_code" json:"seat_code"`
	Category      string     `gorm:"type:varchar(50);not null;default:'standard'" json:"category"`
	Price         float64    `gorm:"not null;check:price >= 0" json:"price"`
	Status        string     `gorm:"type:varchar(20);not null;check:status IN ('available','reserved','sold');default:'available'" json:"status"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
	BookingID     *uuid.UUID `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// Helper methods for seat state

func (s *Seat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

func (s *Seat) IsReserved() bool {
	return s.Status == StatusReserved
}

func (s *Seat) IsSold() bool {
	return s.Status == StatusSold
}

// HoldLapsed reports whether the seat carries a hold that has passed its
// reserved_until stamp at the given instant.
func (s *Seat) HoldLapsed(now time.Time) bool {
	return s.ReservedUntil != nil && s.ReservedUntil.Before(now)
}

// EligibleForHold is the in-memory twin of EligibleClause: a seat can take a
// new hold when it is available, or when its current hold has lapsed and the
// sweeper simply has not caught up yet.
func (s *Seat) EligibleForHold(now time.Time) bool {
	switch s.Status {
	case StatusAvailable:
		return true
	case StatusReserved:
		return s.HoldLapsed(now)
	default:
		return false
	}
}

// SeatResponse for API responses
type SeatResponse struct {
	ID            string     `json:"id"`
	SeatCode      string     `json:"seat_code"`
	Category      string     `json:"category"`
	Price         float64    `json:"price"`
	Status        string     `json:"status"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
}

// ToResponse converts a Seat to its API shape
func (s *Seat) ToResponse() SeatResponse {
	return SeatResponse{
		ID:            s.ID.String(),
		SeatCode:      s.SeatCode,
		Category:      s.Category,
		Price:         s.Price,
		Status:        s.Status,
		ReservedUntil: s.ReservedUntil,
	}
}

// SortSeatIDs deduplicates the ids and returns them in ascending byte order.
// Every multi-seat locking path orders its lock acquisition by this key so
// that two transactions requesting overlapping seat sets can never deadlock
// on each other.
func SortSeatIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
