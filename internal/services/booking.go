package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devevents/internal/domain"
)

const (
	maxEmailLength    = 254
	maxEmailLocalPart = 64
)

var emailRegexp = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// IsValidEmail reports whether value is an address of at most 254 characters
// with a local part of at most 64 characters. Surrounding whitespace is ignored.
func IsValidEmail(value string) bool {
	v := strings.TrimSpace(value)
	if len(v) == 0 || len(v) > maxEmailLength {
		return false
	}
	at := strings.IndexByte(v, '@')
	if at < 1 || at > maxEmailLocalPart {
		return false
	}
	return emailRegexp.MatchString(v)
}

type bookingService struct {
	events         domain.EventLookup
	bookingRepo    domain.BookingRepository
	publisher      domain.BookingPublisher
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewBookingService creates a BookingService. events is consulted to confirm the
// referenced event exists before every write. publisher and emailService may be nil.
func NewBookingService(
	events domain.EventLookup,
	bookingRepo domain.BookingRepository,
	publisher domain.BookingPublisher,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		events:         events,
		bookingRepo:    bookingRepo,
		publisher:      publisher,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// CreateBooking validates input, confirms the event exists and stores the booking.
//
// The existence check and the insert are not atomic: an event removed between the
// two would leave an orphaned booking. Events are never deleted, so this cannot
// happen today.
func (s *bookingService) CreateBooking(ctx context.Context, input *domain.BookingInput) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if input == nil {
		return nil, domain.NewValidationError("booking", "booking is required")
	}
	eventID := strings.TrimSpace(input.EventID)
	email := strings.TrimSpace(input.Email)
	if eventID == "" {
		return nil, domain.NewValidationError("eventId", "eventId is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email", "email is required")
	}
	if !IsValidEmail(email) {
		return nil, domain.NewValidationError("email", "email must be a valid email address")
	}
	if !primitive.IsValidObjectID(eventID) {
		return nil, domain.NewValidationError("eventId", "Invalid eventId format: "+eventID)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "event", ID: eventID}
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	booking := &domain.Booking{
		EventID: event.ID,
		Email:   strings.ToLower(email),
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.announce(ctx, booking, event)
	return booking, nil
}

// announce publishes the booking and sends the confirmation email. Failures are
// logged only; the booking is already stored.
func (s *bookingService) announce(ctx context.Context, booking *domain.Booking, event *domain.Event) {
	if s.publisher != nil {
		msg := &domain.BookingCreatedMessage{
			BookingID:  booking.ID,
			EventID:    event.ID,
			EventSlug:  event.Slug,
			EventTitle: event.Title,
			Email:      booking.Email,
			CreatedAt:  booking.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishBookingCreated(ctx, msg); err != nil {
			s.logger.WarnContext(ctx, "publish booking created", "booking_id", booking.ID, "err", err)
		}
	}
	if s.emailService != nil {
		data := &domain.BookingConfirmationEmailData{
			Email:     booking.Email,
			Title:     event.Title,
			Slug:      event.Slug,
			Date:      event.Date,
			Time:      event.Time,
			Venue:     event.Venue,
			Location:  event.Location,
			Organizer: event.Organizer,
		}
		if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "send booking confirmation", "booking_id", booking.ID, "err", err)
		}
	}
}
