package domain

import (
	"context"
	"time"
)

// Well-known event modes. Mode is free text; these are the values the UI offers.
const (
	EventModeOnline  = "online"
	EventModeOffline = "offline"
	EventModeHybrid  = "hybrid"
)

// Event is a listed event in its canonical stored form.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	Image       string    `json:"image"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:mm, 24-hour
	Mode        string    `json:"mode"`
	Audience    string    `json:"audience"`
	Agenda      []string  `json:"agenda"`
	Organizer   string    `json:"organizer"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventInput is a candidate event as submitted by an organizer, before normalization.
type EventInput struct {
	Title       string
	Description string
	Overview    string
	Image       string
	Venue       string
	Location    string
	Date        string
	Time        string
	Mode        string
	Audience    string
	Agenda      []string
	Organizer   string
	Tags        []string
}

// EventLookup resolves an event by ID. ErrNotFound (or a NotFoundError) is returned when absent.
type EventLookup interface {
	GetByID(ctx context.Context, id string) (*Event, error)
}

// EventRepository defines the interface for event storage.
// Create and Update return a *ConflictError when the slug collides with another event.
type EventRepository interface {
	EventLookup
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	// List returns all events, newest first.
	List(ctx context.Context) ([]*Event, error)
	// ListSharingTags returns events other than excludeID that carry at least one of tags.
	ListSharingTags(ctx context.Context, excludeID string, tags []string) ([]*Event, error)
}

// EventService defines organizer and visitor operations on events.
type EventService interface {
	CreateEvent(ctx context.Context, input *EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, input *EventInput) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	// ListSimilarEvents never fails; read errors degrade to an empty result.
	ListSimilarEvents(ctx context.Context, slug string) []*Event
}
