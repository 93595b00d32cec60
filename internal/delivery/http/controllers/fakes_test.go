package controllers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"devevents/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr      error
	updateErr      error
	listErr        error
	getBySlugErr   error
	events         []*domain.Event
	bySlug         map[string]*domain.Event
	similar        map[string][]*domain.Event
	lastCreate     *domain.EventInput
	lastUpdateID   string
	lastUpdate     *domain.EventInput
	lastSimilarFor string
}

func (f *fakeEventService) CreateEvent(_ context.Context, input *domain.EventInput) (*domain.Event, error) {
	f.lastCreate = input
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Event{
		ID:        "665f1c2e8b3a4d0012345678",
		Title:     input.Title,
		Slug:      "created-slug",
		Image:     input.Image,
		Agenda:    input.Agenda,
		Tags:      input.Tags,
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, eventID string, input *domain.EventInput) (*domain.Event, error) {
	f.lastUpdateID = eventID
	f.lastUpdate = input
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &domain.Event{ID: eventID, Title: input.Title, Slug: "updated-slug", Tags: input.Tags, Agenda: input.Agenda}, nil
}

func (f *fakeEventService) ListEvents(_ context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func (f *fakeEventService) GetEventBySlug(_ context.Context, slug string) (*domain.Event, error) {
	if f.getBySlugErr != nil {
		return nil, f.getBySlugErr
	}
	if e, ok := f.bySlug[slug]; ok {
		return e, nil
	}
	return nil, &domain.NotFoundError{Entity: "event", Key: "slug", ID: slug}
}

func (f *fakeEventService) ListSimilarEvents(_ context.Context, slug string) []*domain.Event {
	f.lastSimilarFor = slug
	if s, ok := f.similar[slug]; ok {
		return s
	}
	return []*domain.Event{}
}

// fakeUploader implements domain.ImageUploader.
type fakeUploader struct {
	url          string
	err          error
	lastFilename string
	lastBody     string
	calls        int
}

func (f *fakeUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	f.calls++
	f.lastFilename = filename
	b, _ := io.ReadAll(r)
	f.lastBody = string(b)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

// fakeBookingService implements domain.BookingService.
type fakeBookingService struct {
	err       error
	lastInput *domain.BookingInput
}

func (f *fakeBookingService) CreateBooking(_ context.Context, input *domain.BookingInput) (*domain.Booking, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{ID: "b-1", EventID: input.EventID, Email: input.Email}, nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }
