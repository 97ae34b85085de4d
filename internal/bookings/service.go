package bookings

import (
	"context"
	"fmt"
	"time"

	"ticketly/internal/notifications"
	"ticketly/internal/seats"
	"ticketly/internal/shared/apperrors"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error)

	// HoldSeats is the seat-selection entry point: it places a seat-based
	// booking hold addressed by event. The returned booking id is the hold id.
	HoldSeats(ctx context.Context, userID, eventID uuid.UUID, seatIDs []uuid.UUID) (*BookingResponse, error)

	ConfirmBooking(ctx context.Context, bookingID, userID uuid.UUID, paymentRef string) (*BookingResponse, error)
	GetBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*BookingResponse, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, status string) ([]BookingResponse, error)
	GetPaymentStatus(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*PaymentStatusResponse, error)

	// SweepExpired reclaims lapsed holds once. The background sweeper calls
	// it on a ticker; it can also be invoked directly.
	SweepExpired(ctx context.Context) (seatsReleased, bookingsExpired int, err error)
}

type service struct {
	repo      Repository
	seatSvc   seats.Service
	publisher notifications.Publisher
	log       *logger.Logger
	holdTTL   time.Duration
}

func NewService(repo Repository, seatSvc seats.Service, publisher notifications.Publisher, log *logger.Logger, holdTTL time.Duration) Service {
	return &service{
		repo:      repo,
		seatSvc:   seatSvc,
		publisher: publisher,
		log:       log,
		holdTTL:   holdTTL,
	}
}

func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, apperrors.Validation("event_id must be a valid UUID")
	}

	if !IsValidBookingType(req.Type) {
		return nil, apperrors.Validation("type must be seat_based or general_admission")
	}

	if req.Type == TypeSeatBased {
		if len(req.SeatIDs) == 0 {
			return nil, apperrors.Validation("seat_ids must not be empty for seat based bookings")
		}
		if req.Quantity != 0 && req.Quantity != len(req.SeatIDs) {
			return nil, apperrors.Validation("quantity must match the number of seats")
		}
		seatIDs, err := parseSeatIDs(req.SeatIDs)
		if err != nil {
			return nil, err
		}
		return s.HoldSeats(ctx, userID, eventID, seatIDs)
	}

	if len(req.SeatIDs) > 0 {
		return nil, apperrors.Validation("seat_ids must be empty for general admission bookings")
	}
	if req.Quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}
	booking, err := s.repo.CreateGeneralAdmissionBooking(ctx, userID, eventID, req.Quantity, s.holdTTL)
	if err != nil {
		return nil, err
	}
	s.afterCreated(ctx, booking)
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) HoldSeats(ctx context.Context, userID, eventID uuid.UUID, seatIDs []uuid.UUID) (*BookingResponse, error) {
	if len(seatIDs) == 0 {
		return nil, apperrors.Validation("seat_ids must not be empty")
	}

	booking, err := s.repo.CreateSeatBooking(ctx, userID, eventID, seatIDs, s.holdTTL)
	if err != nil {
		return nil, err
	}

	s.seatSvc.InvalidateEventSeats(ctx, eventID)
	s.afterCreated(ctx, booking)

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) ConfirmBooking(ctx context.Context, bookingID, userID uuid.UUID, paymentRef string) (*BookingResponse, error) {
	if paymentRef == "" {
		paymentRef = fmt.Sprintf("mock_pay_%d", time.Now().UnixMilli())
	}

	booking, err := s.repo.ConfirmBooking(ctx, bookingID, userID, paymentRef)
	if err != nil {
		return nil, err
	}

	s.seatSvc.InvalidateEventSeats(ctx, booking.EventID)
	s.log.LogBookingConfirmed(ctx, booking.ID.String(), paymentRef)
	s.publish(ctx, notifications.BookingEvent{
		Type:        notifications.TypeBookingConfirmed,
		BookingID:   booking.ID.String(),
		EventID:     booking.EventID.String(),
		UserID:      booking.UserID.String(),
		BookingType: booking.Type,
		TotalAmount: booking.TotalAmount,
		SeatCodes:   booking.SeatCodes(),
		Quantity:    booking.Quantity,
	})

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, apperrors.NotFound("booking not found")
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) ListUserBookings(ctx context.Context, userID uuid.UUID, status string) ([]BookingResponse, error) {
	if status != "" && status != StatusReserved && status != StatusConfirmed && status != StatusExpired {
		return nil, apperrors.Validation("invalid status filter")
	}

	bookings, err := s.repo.GetUserBookings(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, bookings[i].ToResponse())
	}
	return responses, nil
}

func (s *service) GetPaymentStatus(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*PaymentStatusResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, apperrors.NotFound("booking not found")
	}

	return &PaymentStatusResponse{
		BookingID:  booking.ID.String(),
		Status:     booking.Status,
		PaymentRef: booking.PaymentRef,
		Amount:     booking.TotalAmount,
	}, nil
}

func (s *service) SweepExpired(ctx context.Context) (int, int, error) {
	started := time.Now()
	expired, seatsReleased, err := s.repo.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, 0, err
	}

	eventSet := make(map[uuid.UUID]struct{})
	for i := range expired {
		b := &expired[i]
		eventSet[b.EventID] = struct{}{}
		s.publish(ctx, notifications.BookingEvent{
			Type:        notifications.TypeBookingExpired,
			BookingID:   b.ID.String(),
			EventID:     b.EventID.String(),
			UserID:      b.UserID.String(),
			BookingType: b.Type,
			TotalAmount: b.TotalAmount,
			SeatCodes:   b.SeatCodes(),
			Quantity:    b.Quantity,
		})
	}
	for eventID := range eventSet {
		s.seatSvc.InvalidateEventSeats(ctx, eventID)
	}

	if seatsReleased > 0 || len(expired) > 0 {
		s.log.LogSweepCompleted(ctx, seatsReleased, len(expired), time.Since(started))
	}
	return seatsReleased, len(expired), nil
}

func (s *service) afterCreated(ctx context.Context, booking *Booking) {
	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.EventID.String(), booking.UserID.String(), booking.TotalAmount)
	s.publish(ctx, notifications.BookingEvent{
		Type:        notifications.TypeBookingCreated,
		BookingID:   booking.ID.String(),
		EventID:     booking.EventID.String(),
		UserID:      booking.UserID.String(),
		BookingType: booking.Type,
		TotalAmount: booking.TotalAmount,
		SeatCodes:   booking.SeatCodes(),
		Quantity:    booking.Quantity,
	})
}

func (s *service) publish(ctx context.Context, event notifications.BookingEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBookingEvent(ctx, event); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to publish booking event", err, "type", event.Type, "booking_id", event.BookingID)
	}
}

func parseSeatIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, apperrors.Validation("seat_ids must be valid UUIDs")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
