package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"ticketly/internal/notifications"
	"ticketly/internal/seats"
	"ticketly/internal/shared/apperrors"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================== mocks =====================

type mockRepository struct {
	createSeatBookingFn func(ctx context.Context, userID, eventID uuid.UUID, seatIDs []uuid.UUID, holdTTL time.Duration) (*Booking, error)
	createGABookingFn   func(ctx context.Context, userID, eventID uuid.UUID, quantity int, holdTTL time.Duration) (*Booking, error)
	confirmBookingFn    func(ctx context.Context, bookingID, userID uuid.UUID, paymentRef string) (*Booking, error)
	getBookingByIDFn    func(ctx context.Context, id uuid.UUID) (*Booking, error)
	getUserBookingsFn   func(ctx context.Context, userID uuid.UUID, status string) ([]Booking, error)
	sweepExpiredFn      func(ctx context.Context, now time.Time) ([]Booking, int, error)
}

func (m *mockRepository) CreateSeatBooking(ctx context.Context, userID, eventID uuid.UUID, seatIDs []uuid.UUID, holdTTL time.Duration) (*Booking, error) {
	return m.createSeatBookingFn(ctx, userID, eventID, seatIDs, holdTTL)
}

func (m *mockRepository) CreateGeneralAdmissionBooking(ctx context.Context, userID, eventID uuid.UUID, quantity int, holdTTL time.Duration) (*Booking, error) {
	return m.createGABookingFn(ctx, userID, eventID, quantity, holdTTL)
}

func (m *mockRepository) ConfirmBooking(ctx context.Context, bookingID, userID uuid.UUID, paymentRef string) (*Booking, error) {
	return m.confirmBookingFn(ctx, bookingID, userID, paymentRef)
}

func (m *mockRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return m.getBookingByIDFn(ctx, id)
}

func (m *mockRepository) GetUserBookings(ctx context.Context, userID uuid.UUID, status string) ([]Booking, error) {
	return m.getUserBookingsFn(ctx, userID, status)
}

func (m *mockRepository) SweepExpired(ctx context.Context, now time.Time) ([]Booking, int, error) {
	return m.sweepExpiredFn(ctx, now)
}

type mockSeatService struct {
	invalidated []uuid.UUID
}

func (m *mockSeatService) ListSeats(ctx context.Context, eventID uuid.UUID, category string) ([]seats.SeatResponse, error) {
	return nil, nil
}

func (m *mockSeatService) ListAvailableSeats(ctx context.Context, eventID uuid.UUID, category string) ([]seats.SeatResponse, error) {
	return nil, nil
}

func (m *mockSeatService) UpdateSeatPrice(ctx context.Context, eventID, seatID uuid.UUID, price float64) (*seats.SeatResponse, error) {
	return nil, nil
}

func (m *mockSeatService) ReleaseSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (int, error) {
	return 0, nil
}

func (m *mockSeatService) InvalidateEventSeats(ctx context.Context, eventID uuid.UUID) {
	m.invalidated = append(m.invalidated, eventID)
}

type mockPublisher struct {
	events []notifications.BookingEvent
}

func (m *mockPublisher) PublishBookingEvent(ctx context.Context, event notifications.BookingEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func newTestService(repo *mockRepository) (Service, *mockSeatService, *mockPublisher) {
	seatSvc := &mockSeatService{}
	publisher := &mockPublisher{}
	svc := NewService(repo, seatSvc, publisher, logger.New(), 10*time.Minute)
	return svc, seatSvc, publisher
}

// ===================== tests =====================

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	eventID := uuid.New()
	seatA := uuid.New()
	seatB := uuid.New()

	t.Run("seat based booking delegates to the seat hold path", func(t *testing.T) {
		reservedUntil := time.Now().Add(10 * time.Minute)
		repo := &mockRepository{
			createSeatBookingFn: func(ctx context.Context, uid, eid uuid.UUID, seatIDs []uuid.UUID, ttl time.Duration) (*Booking, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, eventID, eid)
				assert.Len(t, seatIDs, 2)
				assert.Equal(t, 10*time.Minute, ttl)
				return &Booking{
					ID: uuid.New(), UserID: uid, EventID: eid,
					Type: TypeSeatBased, Status: StatusReserved,
					Quantity: 2, TotalAmount: 200, ReservedUntil: &reservedUntil,
				}, nil
			},
		}
		svc, seatSvc, publisher := newTestService(repo)

		resp, err := svc.CreateBooking(ctx, userID, CreateBookingRequest{
			EventID: eventID.String(),
			Type:    TypeSeatBased,
			SeatIDs: []string{seatA.String(), seatB.String()},
		})

		require.NoError(t, err)
		assert.Equal(t, StatusReserved, resp.Status)
		assert.Equal(t, 200.0, resp.TotalAmount)
		assert.NotNil(t, resp.ReservedUntil)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, notifications.TypeBookingCreated, publisher.events[0].Type)
		assert.Equal(t, []uuid.UUID{eventID}, seatSvc.invalidated)
	})

	t.Run("general admission booking claims quantity", func(t *testing.T) {
		repo := &mockRepository{
			createGABookingFn: func(ctx context.Context, uid, eid uuid.UUID, quantity int, ttl time.Duration) (*Booking, error) {
				assert.Equal(t, 3, quantity)
				return &Booking{
					ID: uuid.New(), UserID: uid, EventID: eid,
					Type: TypeGeneralAdmission, Status: StatusReserved,
					Quantity: 3, TotalAmount: 150,
				}, nil
			},
		}
		svc, _, publisher := newTestService(repo)

		resp, err := svc.CreateBooking(ctx, userID, CreateBookingRequest{
			EventID:  eventID.String(),
			Type:     TypeGeneralAdmission,
			Quantity: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, TypeGeneralAdmission, resp.Type)
		assert.Equal(t, 3, resp.Quantity)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, notifications.TypeBookingCreated, publisher.events[0].Type)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc, _, _ := newTestService(&mockRepository{})

		tests := []struct {
			name string
			req  CreateBookingRequest
		}{
			{"seat based without seats", CreateBookingRequest{EventID: eventID.String(), Type: TypeSeatBased}},
			{"ga without quantity", CreateBookingRequest{EventID: eventID.String(), Type: TypeGeneralAdmission}},
			{"ga with seat ids", CreateBookingRequest{EventID: eventID.String(), Type: TypeGeneralAdmission, Quantity: 2, SeatIDs: []string{seatA.String()}}},
			{"unknown type", CreateBookingRequest{EventID: eventID.String(), Type: "standing"}},
			{"bad event id", CreateBookingRequest{EventID: "not-a-uuid", Type: TypeSeatBased, SeatIDs: []string{seatA.String()}}},
			{"quantity mismatch", CreateBookingRequest{EventID: eventID.String(), Type: TypeSeatBased, SeatIDs: []string{seatA.String()}, Quantity: 5}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateBooking(ctx, userID, tt.req)
				assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
			})
		}
	})

	t.Run("seat conflict propagates", func(t *testing.T) {
		repo := &mockRepository{
			createSeatBookingFn: func(ctx context.Context, uid, eid uuid.UUID, seatIDs []uuid.UUID, ttl time.Duration) (*Booking, error) {
				return nil, apperrors.Conflict("seat A1 is not available")
			},
		}
		svc, seatSvc, publisher := newTestService(repo)

		_, err := svc.CreateBooking(ctx, userID, CreateBookingRequest{
			EventID: eventID.String(),
			Type:    TypeSeatBased,
			SeatIDs: []string{seatA.String()},
		})

		assert.True(t, apperrors.IsConflict(err))
		assert.Empty(t, publisher.events)
		assert.Empty(t, seatSvc.invalidated)
	})
}

func TestConfirmBooking(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	bookingID := uuid.New()
	eventID := uuid.New()

	confirmed := func(ref string) *Booking {
		now := time.Now()
		return &Booking{
			ID: bookingID, UserID: userID, EventID: eventID,
			Type: TypeSeatBased, Status: StatusConfirmed,
			TotalAmount: 100, PaymentRef: &ref, ConfirmedAt: &now,
		}
	}

	t.Run("generates a mock payment ref when none given", func(t *testing.T) {
		var gotRef string
		repo := &mockRepository{
			confirmBookingFn: func(ctx context.Context, bid, uid uuid.UUID, paymentRef string) (*Booking, error) {
				gotRef = paymentRef
				return confirmed(paymentRef), nil
			},
		}
		svc, seatSvc, publisher := newTestService(repo)

		resp, err := svc.ConfirmBooking(ctx, bookingID, userID, "")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(gotRef, "mock_pay_"), "got ref %q", gotRef)
		assert.Equal(t, StatusConfirmed, resp.Status)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, notifications.TypeBookingConfirmed, publisher.events[0].Type)
		assert.Equal(t, []uuid.UUID{eventID}, seatSvc.invalidated)
	})

	t.Run("passes through an explicit payment ref", func(t *testing.T) {
		repo := &mockRepository{
			confirmBookingFn: func(ctx context.Context, bid, uid uuid.UUID, paymentRef string) (*Booking, error) {
				assert.Equal(t, "stripe_ch_123", paymentRef)
				return confirmed(paymentRef), nil
			},
		}
		svc, _, _ := newTestService(repo)

		resp, err := svc.ConfirmBooking(ctx, bookingID, userID, "stripe_ch_123")

		require.NoError(t, err)
		require.NotNil(t, resp.PaymentRef)
		assert.Equal(t, "stripe_ch_123", *resp.PaymentRef)
	})

	t.Run("lapsed hold fails with conflict and publishes nothing", func(t *testing.T) {
		repo := &mockRepository{
			confirmBookingFn: func(ctx context.Context, bid, uid uuid.UUID, paymentRef string) (*Booking, error) {
				return nil, apperrors.Conflict("booking expired or not found")
			},
		}
		svc, _, publisher := newTestService(repo)

		_, err := svc.ConfirmBooking(ctx, bookingID, userID, "")

		assert.True(t, apperrors.IsConflict(err))
		assert.Empty(t, publisher.events)
	})
}

func TestGetBooking(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	bookingID := uuid.New()

	repo := &mockRepository{
		getBookingByIDFn: func(ctx context.Context, id uuid.UUID) (*Booking, error) {
			return &Booking{ID: bookingID, UserID: owner, EventID: uuid.New(), Type: TypeSeatBased, Status: StatusReserved}, nil
		},
	}
	svc, _, _ := newTestService(repo)

	t.Run("owner can read their booking", func(t *testing.T) {
		resp, err := svc.GetBooking(ctx, bookingID, owner, false)
		require.NoError(t, err)
		assert.Equal(t, bookingID.String(), resp.ID)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		_, err := svc.GetBooking(ctx, bookingID, stranger, false)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("admin can read any booking", func(t *testing.T) {
		resp, err := svc.GetBooking(ctx, bookingID, stranger, true)
		require.NoError(t, err)
		assert.Equal(t, bookingID.String(), resp.ID)
	})
}

func TestListUserBookings(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := &mockRepository{
		getUserBookingsFn: func(ctx context.Context, uid uuid.UUID, status string) ([]Booking, error) {
			assert.Equal(t, StatusConfirmed, status)
			return []Booking{{ID: uuid.New(), UserID: uid, Status: StatusConfirmed}}, nil
		},
	}
	svc, _, _ := newTestService(repo)

	t.Run("filters by status", func(t *testing.T) {
		resp, err := svc.ListUserBookings(ctx, userID, StatusConfirmed)
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, StatusConfirmed, resp[0].Status)
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		_, err := svc.ListUserBookings(ctx, userID, "cancelled")
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()

	t.Run("publishes an expiry event per booking and invalidates seat cache", func(t *testing.T) {
		expired := []Booking{
			{ID: uuid.New(), UserID: uuid.New(), EventID: eventID, Type: TypeSeatBased, Status: StatusExpired, Quantity: 2},
			{ID: uuid.New(), UserID: uuid.New(), EventID: eventID, Type: TypeGeneralAdmission, Status: StatusExpired, Quantity: 4},
		}
		repo := &mockRepository{
			sweepExpiredFn: func(ctx context.Context, now time.Time) ([]Booking, int, error) {
				return expired, 2, nil
			},
		}
		svc, seatSvc, publisher := newTestService(repo)

		seatsReleased, bookingsExpired, err := svc.SweepExpired(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, seatsReleased)
		assert.Equal(t, 2, bookingsExpired)

		require.Len(t, publisher.events, 2)
		for _, e := range publisher.events {
			assert.Equal(t, notifications.TypeBookingExpired, e.Type)
		}
		// Both bookings share one event: one invalidation.
		assert.Equal(t, []uuid.UUID{eventID}, seatSvc.invalidated)
	})

	t.Run("empty sweep is quiet", func(t *testing.T) {
		repo := &mockRepository{
			sweepExpiredFn: func(ctx context.Context, now time.Time) ([]Booking, int, error) {
				return nil, 0, nil
			},
		}
		svc, seatSvc, publisher := newTestService(repo)

		seatsReleased, bookingsExpired, err := svc.SweepExpired(ctx)

		require.NoError(t, err)
		assert.Zero(t, seatsReleased)
		assert.Zero(t, bookingsExpired)
		assert.Empty(t, publisher.events)
		assert.Empty(t, seatSvc.invalidated)
	})
}
