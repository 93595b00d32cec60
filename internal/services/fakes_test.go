package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"devevents/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventRepo is an in-memory domain.EventRepository. Slug uniqueness is enforced
// under the mutex, standing in for the store's unique index.
type fakeEventRepo struct {
	mu          sync.Mutex
	byID        map[string]*domain.Event
	order       []string
	seq         int
	createErr   error
	getErr      error
	listErr     error
	similarErr  error
	lookups     int
	afterLookup func()
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event)}
}

func (f *fakeEventRepo) seed(events ...*domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range events {
		f.byID[e.ID] = e
		f.order = append(f.order, e.ID)
	}
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Slug == e.Slug {
			return &domain.ConflictError{Field: "slug", Value: e.Slug}
		}
	}
	f.seq++
	e.ID = fmt.Sprintf("%024x", f.seq)
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	f.byID[e.ID] = &cp
	f.order = append(f.order, e.ID)
	return nil
}

func (f *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range f.byID {
		if id != e.ID && existing.Slug == e.Slug {
			return &domain.ConflictError{Field: "slug", Value: e.Slug}
		}
	}
	e.UpdatedAt = time.Now().UTC()
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	f.lookups++
	hook := f.afterLookup
	e, ok := f.byID[id]
	err := f.getErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) GetBySlug(_ context.Context, slug string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, e := range f.byID {
		if e.Slug == slug {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(_ context.Context) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Event
	for i := len(f.order) - 1; i >= 0; i-- {
		cp := *f.byID[f.order[i]]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeEventRepo) ListSharingTags(_ context.Context, excludeID string, tags []string) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.similarErr != nil {
		return nil, f.similarErr
	}
	out := []*domain.Event{}
	for _, id := range f.order {
		e := f.byID[id]
		if id == excludeID {
			continue
		}
		if slices.ContainsFunc(e.Tags, func(t string) bool { return slices.Contains(tags, t) }) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// fakeBookingRepo is an in-memory domain.BookingRepository.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	b.ID = fmt.Sprintf("b-%d", len(f.bookings)+1)
	b.CreatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.bookings = append(f.bookings, &cp)
	return nil
}

func (f *fakeBookingRepo) all() []*domain.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.bookings)
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []*domain.BookingCreatedMessage
	err  error
	// hang blocks each publish until its context is done, like an unreachable broker.
	hang bool
}

func (f *fakePublisher) PublishBookingCreated(ctx context.Context, msg *domain.BookingCreatedMessage) error {
	if f.hang {
		<-ctx.Done()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	if f.hang {
		return ctx.Err()
	}
	return f.err
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.BookingConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendBookingConfirmation(_ context.Context, data *domain.BookingConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return f.err
}

type fakeMailer struct {
	to, subject, html, text string
	err                     error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, html, text string) error {
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return f.err
}

type fakeRenderer struct {
	lastName string
	lastData any
	err      error
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	f.lastName, f.lastData = name, data
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject", "<p>html</p>", "text", nil
}
