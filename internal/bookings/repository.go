package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"ticketly/internal/seats"
	"ticketly/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// CreateSeatBooking places a hold over the named seats: one transaction
	// that locks the seat rows, verifies eligibility, expires lapsed prior
	// holds it claims from, and writes the booking with its seat snapshot.
	CreateSeatBooking(ctx context.Context, userID, eventID uuid.UUID, seatIDs []uuid.UUID, holdTTL time.Duration) (*Booking, error)

	// CreateGeneralAdmissionBooking auto-assigns the first N eligible seats
	// in seat-code order and holds them, or conflicts reporting how many are
	// actually available.
	CreateGeneralAdmissionBooking(ctx context.Context, userID, eventID uuid.UUID, quantity int, holdTTL time.Duration) (*Booking, error)

	// ConfirmBooking settles a live hold: booking to confirmed, its seats to
	// sold. A lapsed or missing hold fails with a conflict.
	ConfirmBooking(ctx context.Context, bookingID, userID uuid.UUID, paymentRef string) (*Booking, error)

	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, status string) ([]Booking, error)

	// SweepExpired reclaims every lapsed hold in one transaction: lapsed
	// seat rows are locked and released, and the bookings that owned them
	// flip to expired. Returns the expired bookings and the number of seats
	// released.
	SweepExpired(ctx context.Context, now time.Time) ([]Booking, int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) eventExists(tx *gorm.DB, eventID uuid.UUID) error {
	var count int64
	if err := tx.Table("events").Where("id = ?", eventID).Count(&count).Error; err != nil {
		return apperrors.Internal("failed to check event", err)
	}
	if count == 0 {
		return apperrors.NotFound("event not found")
	}
	return nil
}

func (r *repository) CreateSeatBooking(ctx context.Context, userID, eventID uuid.UUID, seatIDs []uuid.UUID, holdTTL time.Duration) (*Booking, error) {
	var booking *Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.eventExists(tx, eventID); err != nil {
			return err
		}

		ids := seats.SortSeatIDs(seatIDs)
		now := time.Now().UTC()

		// Lock in canonical id order so overlapping requests serialize
		// instead of deadlocking.
		var locked []seats.Seat
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_id = ? AND id IN ?", eventID, ids).
			Order("id ASC").
			Find(&locked).Error
		if err != nil {
			return apperrors.Internal("failed to lock seats", err)
		}
		if len(locked) != len(ids) {
			return apperrors.NotFound("some seats not found for this event")
		}

		if err := eligibilityConflict(locked, now); err != nil {
			return err
		}

		booking, err = r.holdLockedSeats(tx, userID, eventID, TypeSeatBased, locked, now, holdTTL)
		return err
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *repository) CreateGeneralAdmissionBooking(ctx context.Context, userID, eventID uuid.UUID, quantity int, holdTTL time.Duration) (*Booking, error) {
	var booking *Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.eventExists(tx, eventID); err != nil {
			return err
		}

		now := time.Now().UTC()

		// Lock the first N eligible seats in seat-code order. Count and
		// claim happen under the same locks so a rival transaction cannot
		// grab one of these seats between check and write.
		var locked []seats.Seat
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_id = ?", eventID).
			Where(seats.EligibleClause, now).
			Order("seat_code ASC").
			Limit(quantity).
			Find(&locked).Error
		if err != nil {
			return apperrors.Internal("failed to lock seats", err)
		}
		if len(locked) < quantity {
			return shortfallConflict(len(locked))
		}

		booking, err = r.holdLockedSeats(tx, userID, eventID, TypeGeneralAdmission, locked, now, holdTTL)
		return err
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// eligibilityConflict reports every seat in a locked selection that cannot
// be held right now. Returns nil when the whole selection is eligible.
func eligibilityConflict(locked []seats.Seat, now time.Time) error {
	var taken []string
	for i := range locked {
		if !locked[i].EligibleForHold(now) {
			taken = append(taken, locked[i].SeatCode)
		}
	}
	if len(taken) == 0 {
		return nil
	}
	return apperrors.Conflict("seats not available: %s", strings.Join(taken, ", "))
}

// shortfallConflict reports how many seats a general admission request could
// actually have claimed.
func shortfallConflict(available int) error {
	return apperrors.Conflict("only %d seats available", available)
}

// newHold builds the booking row for seats the caller has already locked and
// checked. The total is the sum of the seat prices at this moment.
func newHold(userID, eventID uuid.UUID, bookingType string, locked []seats.Seat, now time.Time, holdTTL time.Duration) *Booking {
	var total float64
	for i := range locked {
		total += locked[i].Price
	}
	reservedUntil := now.Add(holdTTL)
	return &Booking{
		UserID:        userID,
		EventID:       eventID,
		Type:          bookingType,
		Status:        StatusReserved,
		Quantity:      len(locked),
		TotalAmount:   total,
		ReservedUntil: &reservedUntil,
	}
}

// snapshotSeats captures each seat's code and price into the booking's join
// rows. Later price changes never touch an existing booking.
func snapshotSeats(bookingID uuid.UUID, locked []seats.Seat) []BookingSeat {
	rows := make([]BookingSeat, 0, len(locked))
	for i := range locked {
		rows = append(rows, BookingSeat{
			BookingID: bookingID,
			SeatID:    locked[i].ID,
			SeatCode:  locked[i].SeatCode,
			Price:     locked[i].Price,
		})
	}
	return rows
}

// owningBookingIDs returns the distinct booking ids holding the given
// reserved seats, in seat-lock order. Seats without a hold are skipped.
func owningBookingIDs(seatRows []seats.Seat) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(seatRows))
	var ids []uuid.UUID
	for i := range seatRows {
		seat := &seatRows[i]
		if seat.Status != seats.StatusReserved || seat.BookingID == nil {
			continue
		}
		if _, ok := seen[*seat.BookingID]; ok {
			continue
		}
		seen[*seat.BookingID] = struct{}{}
		ids = append(ids, *seat.BookingID)
	}
	return ids
}

// holdLockedSeats writes one hold over seats the caller has already locked
// and checked for eligibility: lapsed prior holds are expired, the booking
// and its priced seat snapshot are inserted, and every seat is stamped with
// the same reserved_until.
func (r *repository) holdLockedSeats(tx *gorm.DB, userID, eventID uuid.UUID, bookingType string, locked []seats.Seat, now time.Time, holdTTL time.Duration) (*Booking, error) {
	// Claiming lapsed holds: the previous bookings lose these seats and are
	// expired here, before their sweeper turn.
	if priorHolds := owningBookingIDs(locked); len(priorHolds) > 0 {
		err := tx.Model(&Booking{}).
			Where("id IN ? AND status = ?", priorHolds, StatusReserved).
			Update("status", StatusExpired).Error
		if err != nil {
			return nil, apperrors.Internal("failed to expire lapsed holds", err)
		}
	}

	booking := newHold(userID, eventID, bookingType, locked, now, holdTTL)
	if err := tx.Create(booking).Error; err != nil {
		return nil, apperrors.Internal("failed to create booking", err)
	}

	bookingSeats := snapshotSeats(booking.ID, locked)
	if err := tx.Create(&bookingSeats).Error; err != nil {
		return nil, apperrors.Internal("failed to create booking seats", err)
	}
	booking.Seats = bookingSeats

	ids := make([]uuid.UUID, 0, len(locked))
	for i := range locked {
		ids = append(ids, locked[i].ID)
	}
	err := tx.Model(&seats.Seat{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":         seats.StatusReserved,
			"reserved_until": booking.ReservedUntil,
			"booking_id":     booking.ID,
		}).Error
	if err != nil {
		return nil, apperrors.Internal("failed to reserve seats", err)
	}

	return booking, nil
}

func (r *repository) ConfirmBooking(ctx context.Context, bookingID, userID uuid.UUID, paymentRef string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", bookingID, userID).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Conflict("booking expired or not found")
			}
			return apperrors.Internal("failed to lock booking", err)
		}

		now := time.Now().UTC()
		switch {
		case booking.Status == StatusConfirmed:
			return apperrors.Conflict("booking already confirmed")
		case booking.Status == StatusExpired:
			return apperrors.Conflict("booking expired or not found")
		case booking.HoldLapsed(now):
			// Lapsed but unswept: refuse the settlement and leave the hold
			// for the sweeper, which claims seats before bookings.
			return apperrors.Conflict("booking expired or not found")
		}

		updates := map[string]interface{}{
			"status":       StatusConfirmed,
			"payment_ref":  paymentRef,
			"confirmed_at": now,
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return apperrors.Internal("failed to confirm booking", err)
		}

		result := tx.Model(&seats.Seat{}).
			Where("booking_id = ? AND status = ?", booking.ID, seats.StatusReserved).
			Updates(map[string]interface{}{
				"status":         seats.StatusSold,
				"reserved_until": nil,
			})
		if result.Error != nil {
			return apperrors.Internal("failed to mark seats sold", result.Error)
		}
		if result.RowsAffected != int64(booking.Quantity) {
			// A live hold always owns its reserved seats. Anything else
			// means the hold was stolen; abort the settlement.
			return apperrors.Conflict("booking expired or not found")
		}

		booking.Status = StatusConfirmed
		booking.PaymentRef = &paymentRef
		booking.ConfirmedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetBookingByID(ctx, booking.ID)
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Seats").First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("booking not found")
		}
		return nil, apperrors.Internal("failed to load booking", err)
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, status string) ([]Booking, error) {
	var bookings []Booking
	query := r.db.WithContext(ctx).Preload("Seats").Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, apperrors.Internal("failed to list bookings", err)
	}
	return bookings, nil
}

func (r *repository) SweepExpired(ctx context.Context, now time.Time) ([]Booking, int, error) {
	var lapsed []Booking
	seatsReleased := 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the lapsed seat rows first, in the same order the booking
		// coordinators acquire them. Seats before bookings everywhere, so a
		// sweep and a rival claim on the same hold serialize instead of
		// deadlocking.
		var lapsedSeats []seats.Seat
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND reserved_until < ?", seats.StatusReserved, now).
			Order("id ASC").
			Find(&lapsedSeats).Error
		if err != nil {
			return apperrors.Internal("failed to lock lapsed seats", err)
		}
		if len(lapsedSeats) == 0 {
			return nil
		}

		// The expired-booking set comes from the seat rows claimed above,
		// never re-derived after the release.
		bookingIDs := owningBookingIDs(lapsedSeats)

		seatIDs := make([]uuid.UUID, 0, len(lapsedSeats))
		for i := range lapsedSeats {
			seatIDs = append(seatIDs, lapsedSeats[i].ID)
		}
		result := tx.Model(&seats.Seat{}).
			Where("id IN ?", seatIDs).
			Updates(map[string]interface{}{
				"status":         seats.StatusAvailable,
				"reserved_until": nil,
				"booking_id":     nil,
			})
		if result.Error != nil {
			return apperrors.Internal("failed to release seats", result.Error)
		}
		seatsReleased = int(result.RowsAffected)

		if len(bookingIDs) == 0 {
			return nil
		}

		// Bookings already expired elsewhere (a coordinator claiming a
		// lapsed hold) are filtered out here; only live holds flip.
		err = tx.Preload("Seats").
			Where("id IN ? AND status = ?", bookingIDs, StatusReserved).
			Order("id ASC").
			Find(&lapsed).Error
		if err != nil {
			return apperrors.Internal("failed to load lapsed bookings", err)
		}
		if len(lapsed) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(lapsed))
		for i := range lapsed {
			ids = append(ids, lapsed[i].ID)
		}
		err = tx.Model(&Booking{}).
			Where("id IN ?", ids).
			Update("status", StatusExpired).Error
		if err != nil {
			return apperrors.Internal("failed to expire bookings", err)
		}

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	for i := range lapsed {
		lapsed[i].Status = StatusExpired
	}
	return lapsed, seatsReleased, nil
}
