package events

import (
	"context"
	"time"

	"ticketly/internal/seats"
	"ticketly/internal/shared/apperrors"
	"ticketly/internal/shared/constants"
	"ticketly/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	CreateEvent(ctx context.Context, req CreateEventRequest, createdBy uuid.UUID) (*EventResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	ListEvents(ctx context.Context, query ListEventsQuery) (*PaginatedEvents, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
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

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest, createdBy uuid.UUID) (*EventResponse, error) {
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, apperrors.Validation("date must be RFC3339 formatted")
	}
	if date.Before(time.Now().UTC()) {
		return nil, apperrors.Validation("event date must be in the future")
	}

	taken, err := s.repo.ExistsAtVenue(ctx, date, req.Location, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict("an event already exists at this location and time")
	}

	event := &Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		CreatedBy:   createdBy,
	}

	var seatRows []seats.Seat
	if req.SeatLayout != nil {
		seatRows, err = seats.Generate(uuid.Nil, *req.SeatLayout)
		if err != nil {
			return nil, apperrors.Validation("invalid seat layout: %v", err)
		}
	}

	if err := s.repo.CreateWithSeats(ctx, event, seatRows); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	key := constants.BuildEventDetailKey(id.String())

	var cached EventResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := event.ToResponse()
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, resp, s.cacheTTL)
	}
	return &resp, nil
}

func (s *service) ListEvents(ctx context.Context, query ListEventsQuery) (*PaginatedEvents, error) {
	key := constants.BuildEventListKey(query.Page, query.Limit, query.Search, query.Upcoming)

	var cached PaginatedEvents
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	events, total, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, err
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	result := &PaginatedEvents{
		Events:     responses,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, result, s.cacheTTL)
	}
	return result, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return nil, apperrors.Validation("date must be RFC3339 formatted")
		}
		event.Date = date
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Date != nil || req.Location != nil {
		taken, err := s.repo.ExistsAtVenue(ctx, event.Date, event.Location, event.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict("an event already exists at this location and time")
		}
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	if s.cache != nil {
		_ = s.cache.Delete(ctx, constants.BuildEventDetailKey(id.String()))
	}

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateListings(ctx)
	if s.cache != nil {
		_ = s.cache.Delete(ctx, constants.BuildEventDetailKey(id.String()))
		_ = s.cache.DeletePattern(ctx, constants.BuildSeatInvalidationPattern(id.String()))
	}
	return nil
}

func (s *service) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENTS_ALL)
}
