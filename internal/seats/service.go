package seats

import (
	"context"
	"time"

	"ticketly/internal/shared/apperrors"
	"ticketly/internal/shared/constants"
	"ticketly/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	ListSeats(ctx context.Context, eventID uuid.UUID, category string) ([]SeatResponse, error)
	ListAvailableSeats(ctx context.Context, eventID uuid.UUID, category string) ([]SeatResponse, error)
	UpdateSeatPrice(ctx context.Context, eventID, seatID uuid.UUID, price float64) (*SeatResponse, error)
	ReleaseSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (int, error)

	// InvalidateEventSeats drops every cached seat view for the event. Called
	// by the booking paths after any seat state transition.
	InvalidateEventSeats(ctx context.Context, eventID uuid.UUID)
}

type service struct {
	repo     Repository
	cache    cache.Service
	cacheTTL time.Duration
}

func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		cache:    cacheService,
		cacheTTL: cacheTTL,
	}
}

func (s *service) ListSeats(ctx context.Context, eventID uuid.UUID, category string) ([]SeatResponse, error) {
	key := constants.BuildSeatsByEventKey(eventID.String(), category)

	var cached []SeatResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	seats, err := s.repo.GetSeatsByEvent(ctx, eventID, category)
	if err != nil {
		return nil, err
	}

	responses := toResponses(seats)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, responses, s.cacheTTL)
	}
	return responses, nil
}

func (s *service) ListAvailableSeats(ctx context.Context, eventID uuid.UUID, category string) ([]SeatResponse, error) {
	key := constants.BuildAvailableSeatsKey(eventID.String(), category)

	var cached []SeatResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	seats, err := s.repo.GetAvailableSeatsByEvent(ctx, eventID, category, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	responses := toResponses(seats)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, responses, s.cacheTTL)
	}
	return responses, nil
}

func (s *service) UpdateSeatPrice(ctx context.Context, eventID, seatID uuid.UUID, price float64) (*SeatResponse, error) {
	if price < 0 {
		return nil, apperrors.Validation("price must not be negative")
	}

	seat, err := s.repo.UpdateSeatPrice(ctx, eventID, seatID, price)
	if err != nil {
		return nil, err
	}

	s.InvalidateEventSeats(ctx, eventID)

	resp := seat.ToResponse()
	return &resp, nil
}

func (s *service) ReleaseSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (int, error) {
	if len(seatIDs) == 0 {
		return 0, apperrors.Validation("seat_ids must not be empty")
	}

	released, err := s.repo.ReleaseSeats(ctx, eventID, seatIDs)
	if err != nil {
		return 0, err
	}

	s.InvalidateEventSeats(ctx, eventID)
	return released, nil
}

func (s *service) InvalidateEventSeats(ctx context.Context, eventID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeletePattern(ctx, constants.BuildSeatInvalidationPattern(eventID.String()))
}

func toResponses(seats []Seat) []SeatResponse {
	responses := make([]SeatResponse, 0, len(seats))
	for i := range seats {
		responses = append(responses, seats[i].ToResponse())
	}
	return responses
}
