package events

import (
	"context"
	"testing"
	"time"

	"ticketly/internal/seats"
	"ticketly/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	createWithSeatsFn func(ctx context.Context, event *Event, seatRows []seats.Seat) error
	getByIDFn         func(ctx context.Context, id uuid.UUID) (*Event, error)
	getAllFn          func(ctx context.Context, query ListEventsQuery) ([]Event, int64, error)
	updateFn          func(ctx context.Context, event *Event) error
	deleteFn          func(ctx context.Context, id uuid.UUID) error
	existsAtVenueFn   func(ctx context.Context, date time.Time, location string, excludeID uuid.UUID) (bool, error)
}

func (m *mockRepository) CreateWithSeats(ctx context.Context, event *Event, seatRows []seats.Seat) error {
	return m.createWithSeatsFn(ctx, event, seatRows)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockRepository) GetAll(ctx context.Context, query ListEventsQuery) ([]Event, int64, error) {
	return m.getAllFn(ctx, query)
}

func (m *mockRepository) Update(ctx context.Context, event *Event) error {
	return m.updateFn(ctx, event)
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRepository) ExistsAtVenue(ctx context.Context, date time.Time, location string, excludeID uuid.UUID) (bool, error) {
	return m.existsAtVenueFn(ctx, date, location, excludeID)
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 2, 0).Format(time.RFC3339)
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	createdBy := uuid.New()

	t.Run("creates event with generated seat inventory", func(t *testing.T) {
		var gotSeats []seats.Seat
		repo := &mockRepository{
			existsAtVenueFn: func(ctx context.Context, date time.Time, location string, excludeID uuid.UUID) (bool, error) {
				return false, nil
			},
			createWithSeatsFn: func(ctx context.Context, event *Event, seatRows []seats.Seat) error {
				event.ID = uuid.New()
				gotSeats = seatRows
				return nil
			},
		}
		svc := NewService(repo, nil, time.Minute)

		resp, err := svc.CreateEvent(ctx, CreateEventRequest{
			Title:      "Spring Concert",
			Date:       futureDate(),
			Location:   "Main Hall",
			SeatLayout: &seats.GenerateConfig{Rows: 2, SeatsPerRow: 5, BasePrice: 40},
		}, createdBy)

		require.NoError(t, err)
		assert.Equal(t, "Spring Concert", resp.Title)
		assert.Len(t, gotSeats, 10)
	})

	t.Run("rejects past dates", func(t *testing.T) {
		svc := NewService(&mockRepository{}, nil, time.Minute)

		_, err := svc.CreateEvent(ctx, CreateEventRequest{
			Title:    "Yesterday",
			Date:     time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
			Location: "Main Hall",
		}, createdBy)

		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects a double booked venue", func(t *testing.T) {
		repo := &mockRepository{
			existsAtVenueFn: func(ctx context.Context, date time.Time, location string, excludeID uuid.UUID) (bool, error) {
				return true, nil
			},
		}
		svc := NewService(repo, nil, time.Minute)

		_, err := svc.CreateEvent(ctx, CreateEventRequest{
			Title:    "Clash",
			Date:     futureDate(),
			Location: "Main Hall",
		}, createdBy)

		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("rejects an invalid seat layout", func(t *testing.T) {
		repo := &mockRepository{
			existsAtVenueFn: func(ctx context.Context, date time.Time, location string, excludeID uuid.UUID) (bool, error) {
				return false, nil
			},
		}
		svc := NewService(repo, nil, time.Minute)

		_, err := svc.CreateEvent(ctx, CreateEventRequest{
			Title:      "Bad Layout",
			Date:       futureDate(),
			Location:   "Main Hall",
			SeatLayout: &seats.GenerateConfig{Rows: 99, SeatsPerRow: 5, BasePrice: 40},
		}, createdBy)

		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()

	existing := func() *Event {
		return &Event{
			ID:       eventID,
			Title:    "Original",
			Date:     time.Now().UTC().AddDate(0, 1, 0),
			Location: "Main Hall",
		}
	}

	t.Run("rejects a venue clash when the date moves", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*Event, error) {
				return existing(), nil
			},
			existsAtVenueFn: func(ctx context.Context, date time.Time, location string, excludeID uuid.UUID) (bool, error) {
				assert.Equal(t, eventID, excludeID)
				return true, nil
			},
		}
		svc := NewService(repo, nil, time.Minute)

		newDate := futureDate()
		_, err := svc.UpdateEvent(ctx, eventID, UpdateEventRequest{Date: &newDate})

		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("updates metadata without a venue check when date and location are unchanged", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*Event, error) {
				return existing(), nil
			},
			updateFn: func(ctx context.Context, event *Event) error {
				return nil
			},
			existsAtVenueFn: func(ctx context.Context, date time.Time, location string, excludeID uuid.UUID) (bool, error) {
				t.Fatal("venue check should not run")
				return false, nil
			},
		}
		svc := NewService(repo, nil, time.Minute)

		title := "Renamed"
		resp, err := svc.UpdateEvent(ctx, eventID, UpdateEventRequest{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.Title)
	})
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()

	repo := &mockRepository{
		getAllFn: func(ctx context.Context, query ListEventsQuery) ([]Event, int64, error) {
			return []Event{{ID: uuid.New(), Title: "One"}}, 21, nil
		},
	}
	svc := NewService(repo, nil, time.Minute)

	result, err := svc.ListEvents(ctx, ListEventsQuery{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(21), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Events, 1)
}
