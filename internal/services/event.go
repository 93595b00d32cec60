package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"devevents/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by eventRepo.
func NewEventService(eventRepo domain.EventRepository, logger *slog.Logger, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, input *domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := NormalizeEvent(input, nil)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugAvailable(ctx, event.Slug, ""); err != nil {
		return nil, err
	}
	// The unique index on slug still arbitrates concurrent creates that pass the check above.
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, input *domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "event", ID: eventID}
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	event, err := NormalizeEvent(input, current)
	if err != nil {
		return nil, err
	}
	if event.Slug != current.Slug {
		if err := s.ensureSlugAvailable(ctx, event.Slug, current.ID); err != nil {
			return nil, err
		}
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) ensureSlugAvailable(ctx context.Context, slug, ownID string) error {
	existing, err := s.eventRepo.GetBySlug(ctx, slug)
	switch {
	case err == nil:
		if existing.ID != ownID {
			return &domain.ConflictError{Field: "slug", Value: slug}
		}
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check slug: %w", err)
	}
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "event", Key: "slug", ID: slug}
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	return event, nil
}

func (s *eventService) ListSimilarEvents(ctx context.Context, slug string) []*domain.Event {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.ErrorContext(ctx, "fetch similar events", "slug", slug, "err", err)
		}
		return []*domain.Event{}
	}

	similar, err := s.eventRepo.ListSharingTags(ctx, event.ID, event.Tags)
	if err != nil {
		s.logger.ErrorContext(ctx, "fetch similar events", "slug", slug, "err", err)
		return []*domain.Event{}
	}
	if similar == nil {
		similar = []*domain.Event{}
	}
	return similar
}
