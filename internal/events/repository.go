package events

import (
	"context"
	"errors"
	"time"

	"ticketly/internal/seats"
	"ticketly/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateWithSeats persists the event and its generated seat inventory in
	// one transaction so a half-created event never exists.
	CreateWithSeats(ctx context.Context, event *Event, seatRows []seats.Seat) error

	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetAll(ctx context.Context, query ListEventsQuery) ([]Event, int64, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsAtVenue reports whether another event already occupies the same
	// date and location.
	ExistsAtVenue(ctx context.Context, date time.Time, location string, excludeID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithSeats(ctx context.Context, event *Event, seatRows []seats.Seat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return apperrors.Internal("failed to create event", err)
		}

		if len(seatRows) == 0 {
			return nil
		}

		for i := range seatRows {
			seatRows[i].EventID = event.ID
		}
		if err := tx.CreateInBatches(&seatRows, 500).Error; err != nil {
			return apperrors.Internal("failed to create seats for event", err)
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("event not found")
		}
		return nil, apperrors.Internal("failed to load event", err)
	}
	return &event, nil
}

func (r *repository) GetAll(ctx context.Context, query ListEventsQuery) ([]Event, int64, error) {
	var events []Event
	var total int64

	db := r.db.WithContext(ctx).Model(&Event{})

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		db = db.Where("title ILIKE ? OR location ILIKE ?", pattern, pattern)
	}
	if query.Upcoming {
		db = db.Where("date > ?", time.Now().UTC())
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count events", err)
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Order("date ASC").Offset(offset).Limit(query.Limit).Find(&events).Error
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list events", err)
	}

	return events, total, nil
}

func (r *repository) Update(ctx context.Context, event *Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return apperrors.Internal("failed to update event", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sold int64
		err := tx.Table("seats").
			Where("event_id = ? AND status = ?", id, seats.StatusSold).
			Count(&sold).Error
		if err != nil {
			return apperrors.Internal("failed to check sold seats", err)
		}
		if sold > 0 {
			return apperrors.Conflict("cannot delete an event with sold seats")
		}

		if err := tx.Where("event_id = ?", id).Delete(&seats.Seat{}).Error; err != nil {
			return apperrors.Internal("failed to delete event seats", err)
		}

		result := tx.Delete(&Event{}, "id = ?", id)
		if result.Error != nil {
			return apperrors.Internal("failed to delete event", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("event not found")
		}
		return nil
	})
}

func (r *repository) ExistsAtVenue(ctx context.Context, date time.Time, location string, excludeID uuid.UUID) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&Event{}).
		Where("date = ? AND location = ?", date, location)
	if excludeID != uuid.Nil {
		db = db.Where("id != ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, apperrors.Internal("failed to check venue availability", err)
	}
	return count > 0, nil
}
