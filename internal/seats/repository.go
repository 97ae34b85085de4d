package seats

import (
	"context"
	"errors"
	"time"

	"ticketly/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Seat CRUD
	CreateSeats(ctx context.Context, seats []Seat) error
	GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetSeatsByEvent(ctx context.Context, eventID uuid.UUID, category string) ([]Seat, error)
	GetAvailableSeatsByEvent(ctx context.Context, eventID uuid.UUID, category string, now time.Time) ([]Seat, error)
	UpdateSeatPrice(ctx context.Context, eventID, seatID uuid.UUID, price float64) (*Seat, error)

	// Explicit release (reserved -> available). Idempotent for seats that are
	// already available; fails for sold seats.
	ReleaseSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSeats(ctx context.Context, seats []Seat) error {
	return r.db.WithContext(ctx).CreateInBatches(&seats, 500).Error
}

func (r *repository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("seat not found")
		}
		return nil, apperrors.Internal("failed to load seat", err)
	}
	return &seat, nil
}

func (r *repository) GetSeatsByEvent(ctx context.Context, eventID uuid.UUID, category string) ([]Seat, error) {
	var seats []Seat
	query := r.db.WithContext(ctx).Where("event_id = ?", eventID)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("seat_code ASC").Find(&seats).Error; err != nil {
		return nil, apperrors.Internal("failed to list seats", err)
	}
	return seats, nil
}

func (r *repository) GetAvailableSeatsByEvent(ctx context.Context, eventID uuid.UUID, category string, now time.Time) ([]Seat, error) {
	var seats []Seat
	query := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where(EligibleClause, now)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("seat_code ASC").Find(&seats).Error; err != nil {
		return nil, apperrors.Internal("failed to list available seats", err)
	}
	return seats, nil
}

func (r *repository) UpdateSeatPrice(ctx context.Context, eventID, seatID uuid.UUID, price float64) (*Seat, error) {
	result := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("id = ? AND event_id = ?", seatID, eventID).
		Update("price", price)
	if result.Error != nil {
		return nil, apperrors.Internal("failed to update seat price", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("seat not found for this event")
	}
	return r.GetSeatByID(ctx, seatID)
}

// ReleaseSeats transitions the given reserved seats back to available inside
// one transaction, clearing their hold stamps and booking back-references.
// Seats that are already available are left untouched; a sold seat aborts the
// whole release. A reserved booking that loses its last reserved seat here is
// flipped to expired in the same transaction, before the seat rows stop being
// distinguishable from seats that were always available.
func (r *repository) ReleaseSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (int, error) {
	released := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := SortSeatIDs(seatIDs)

		var locked []Seat
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_id = ? AND id IN ?", eventID, ids).
			Order("id ASC").
			Find(&locked).Error
		if err != nil {
			return apperrors.Internal("failed to lock seats for release", err)
		}
		if len(locked) != len(ids) {
			return apperrors.NotFound("some seats not found for this event")
		}

		var toRelease []uuid.UUID
		ownerSet := make(map[uuid.UUID]struct{})
		for _, seat := range locked {
			switch seat.Status {
			case StatusSold:
				return apperrors.Conflict("seat %s is already sold", seat.SeatCode)
			case StatusReserved:
				toRelease = append(toRelease, seat.ID)
				if seat.BookingID != nil {
					ownerSet[*seat.BookingID] = struct{}{}
				}
			}
			// available: idempotent no-op
		}

		if len(toRelease) == 0 {
			return nil
		}

		err = tx.Model(&Seat{}).
			Where("id IN ?", toRelease).
			Updates(map[string]interface{}{
				"status":         StatusAvailable,
				"reserved_until": nil,
				"booking_id":     nil,
			}).Error
		if err != nil {
			return apperrors.Internal("failed to release seats", err)
		}

		if len(ownerSet) > 0 {
			owners := make([]uuid.UUID, 0, len(ownerSet))
			for id := range ownerSet {
				owners = append(owners, id)
			}
			err = tx.Exec(`
				UPDATE bookings SET status = 'expired'
				WHERE id IN ? AND status = 'reserved'
				AND NOT EXISTS (
					SELECT 1 FROM seats
					WHERE seats.booking_id = bookings.id AND seats.status = 'reserved'
				)`, owners).Error
			if err != nil {
				return apperrors.Internal("failed to expire emptied bookings", err)
			}
		}

		released = len(toRelease)
		return nil
	})
	return released, err
}
