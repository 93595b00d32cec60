package domain

import (
	"context"
	"time"
)

// Booking is a visitor's reservation for an event, identified only by email.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingInput is a candidate booking as submitted by the booking form.
type BookingInput struct {
	EventID string
	Email   string
}

// BookingRepository defines storage for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
}

// BookingService validates and records bookings.
type BookingService interface {
	CreateBooking(ctx context.Context, input *BookingInput) (*Booking, error)
}

// BookingCreatedMessage is published after a booking is stored.
type BookingCreatedMessage struct {
	BookingID  string `json:"booking_id"`
	EventID    string `json:"event_id"`
	EventSlug  string `json:"event_slug"`
	EventTitle string `json:"event_title"`
	Email      string `json:"email"`
	CreatedAt  string `json:"created_at"`
}

// BookingPublisher announces new bookings to downstream consumers.
type BookingPublisher interface {
	PublishBookingCreated(ctx context.Context, msg *BookingCreatedMessage) error
}
