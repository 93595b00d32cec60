package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"devevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var canonicalSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func validInput() *domain.EventInput {
	return &domain.EventInput{
		Title:       "  Go Meetup Berlin  ",
		Description: " Monthly gophers ",
		Overview:    "Talks and pizza",
		Image:       "https://img.example/cover.png",
		Venue:       "Factory",
		Location:    "Berlin, DE",
		Date:        "2025-03-05",
		Time:        "6:30 pm",
		Mode:        domain.EventModeHybrid,
		Audience:    "Developers",
		Agenda:      []string{" Intro ", "Talks"},
		Organizer:   "Gophers Berlin",
		Tags:        []string{"go", " backend "},
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Go Meetup Berlin", "go-meetup-berlin"},
		{"  React -- Summit!! 2025 ", "react-summit-2025"},
		{"Café Déjà Vu", "cafe-deja-vu"},
		{"Ünïcödé Çonf", "unicode-conf"},
		{"---", ""},
		{"C++ & Rust", "c-rust"},
		{"AI/ML  Night", "ai-ml-night"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Slugify(tt.title)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.Regexp(t, canonicalSlug, got)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	for _, title := range []string{"Go Meetup Berlin", "Café Déjà Vu", "  A  B  C  ", "x"} {
		once := Slugify(title)
		assert.Equal(t, once, Slugify(once), "slugify(slugify(%q))", title)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"iso date", "2025-03-05", "2025-03-05", false},
		{"iso datetime keeps prefix", "2025-03-05T23:30:00Z", "2025-03-05", false},
		{"long month", "March 5, 2025", "2025-03-05", false},
		{"us slash", "12/25/2025", "2025-12-25", false},
		{"surrounding space", "  2025-01-09 ", "2025-01-09", false},
		{"garbage", "not a date", "", true},
		{"single word", "someday", "", true},
		{"empty", "", "", true},
		{"unix timestamp", "1700000000", "", true},
		{"bare year", "2025", "", true},
		{"compact digits", "20250305", "", true},
		{"impossible day", "Feb 30 2025", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Equal(t, "Invalid date: "+tt.input, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate_LocalCalendarDay(t *testing.T) {
	orig := time.Local
	t.Cleanup(func() { time.Local = orig })
	time.Local = time.FixedZone("UTC-10", -10*60*60)

	got, err := NormalizeDate("March 5, 2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-05", got)
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"14:30", "14:30", false},
		{"9:05", "09:05", false},
		{"00:00", "00:00", false},
		{"23:59", "23:59", false},
		{"2:30 pm", "14:30", false},
		{"2:30PM", "14:30", false},
		{"12:00 am", "00:00", false},
		{"12:15 pm", "12:15", false},
		{"7 am", "07:00", false},
		{" 11:45 Pm ", "23:45", false},
		{"25:00", "", true},
		{"13 pm", "", true},
		{"0 am", "", true},
		{"12:60", "", true},
		{"noon", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeTime(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Equal(t, "Invalid time: "+tt.input, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEvent_Create(t *testing.T) {
	event, err := NormalizeEvent(validInput(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Go Meetup Berlin", event.Title)
	assert.Equal(t, "go-meetup-berlin", event.Slug)
	assert.Equal(t, "Monthly gophers", event.Description)
	assert.Equal(t, "2025-03-05", event.Date)
	assert.Equal(t, "18:30", event.Time)
	assert.Equal(t, []string{"Intro", "Talks"}, event.Agenda)
	assert.Equal(t, []string{"go", "backend"}, event.Tags)
	assert.Empty(t, event.ID)
}

func TestNormalizeEvent_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *domain.EventInput)
		wantField string
		wantMsg   string
	}{
		{"missing title", func(in *domain.EventInput) { in.Title = "" }, "title", "title is required"},
		{"blank description", func(in *domain.EventInput) { in.Description = "   " }, "description", "description is required"},
		{"missing image", func(in *domain.EventInput) { in.Image = "" }, "image", "image is required"},
		{"missing organizer", func(in *domain.EventInput) { in.Organizer = "\t" }, "organizer", "organizer is required"},
		{"missing agenda", func(in *domain.EventInput) { in.Agenda = nil }, "agenda", "agenda must be a non-empty array of strings"},
		{"blank agenda item", func(in *domain.EventInput) { in.Agenda = []string{"Intro", " "} }, "agenda", "agenda must be a non-empty array of strings"},
		{"empty tags", func(in *domain.EventInput) { in.Tags = []string{} }, "tags", "tags must be a non-empty array of strings"},
		{"title without letters or digits", func(in *domain.EventInput) { in.Title = "!!!" }, "slug", "title must contain at least one letter or digit"},
		{"bad date", func(in *domain.EventInput) { in.Date = "someday" }, "date", "Invalid date: someday"},
		{"bad time", func(in *domain.EventInput) { in.Time = "25:00" }, "time", "Invalid time: 25:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)

			event, err := NormalizeEvent(in, nil)

			require.Error(t, err)
			assert.Nil(t, event)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}

func TestNormalizeEvent_NilInput(t *testing.T) {
	_, err := NormalizeEvent(nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNormalizeEvent_SlugOnUpdate(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	previous := &domain.Event{ID: "e1", Title: "Go Meetup Berlin", Slug: "custom-slug", CreatedAt: created}

	t.Run("unchanged title keeps slug", func(t *testing.T) {
		event, err := NormalizeEvent(validInput(), previous)
		require.NoError(t, err)
		assert.Equal(t, "custom-slug", event.Slug)
		assert.Equal(t, "e1", event.ID)
		assert.Equal(t, created, event.CreatedAt)
	})

	t.Run("changed title regenerates slug", func(t *testing.T) {
		in := validInput()
		in.Title = "Go Meetup Munich"
		event, err := NormalizeEvent(in, previous)
		require.NoError(t, err)
		assert.Equal(t, "go-meetup-munich", event.Slug)
	})

	t.Run("absent slug is generated", func(t *testing.T) {
		noSlug := *previous
		noSlug.Slug = ""
		event, err := NormalizeEvent(validInput(), &noSlug)
		require.NoError(t, err)
		assert.Equal(t, "go-meetup-berlin", event.Slug)
	})
}
