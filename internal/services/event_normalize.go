package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/araddon/dateparse"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"devevents/internal/domain"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9]+`)
	isoDatePrefix  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
	digitsOnly     = regexp.MustCompile(`^\d+$`)
	twentyFourHour = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	twelveHour     = regexp.MustCompile(`(?i)^(\d{1,2})(?::([0-5]\d))?\s*(am|pm)$`)
	combiningMarks = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}}}
)

// Slugify derives a URL-safe slug from title: lowercase, diacritics stripped,
// every run of characters outside [a-z0-9] collapsed to a single hyphen, and
// no leading or trailing hyphen.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(combiningMarks)))
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeDate returns input as YYYY-MM-DD. An input that already starts with
// a YYYY-MM-DD prefix is returned as that prefix; anything else is parsed as a
// calendar date and formatted from its local year, month and day so no time
// zone conversion can shift the day. Digit-only input and impossible days such
// as Feb 30 are rejected.
func NormalizeDate(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if m := isoDatePrefix.FindStringSubmatch(trimmed); m != nil {
		return m[1], nil
	}
	invalid := domain.NewValidationError("date", "Invalid date: "+input)
	// Bare numbers would parse as Unix timestamps or a lone year.
	if trimmed == "" || digitsOnly.MatchString(trimmed) {
		return "", invalid
	}
	t, err := dateparse.ParseLocal(trimmed)
	// A layout without date elements parses to year 0.
	if err != nil || t.Year() < 1 {
		return "", invalid
	}
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()), nil
}

// NormalizeTime returns input as 24-hour HH:mm. Accepted forms are H:mm / HH:mm
// (hours 0-23) and h[:mm] am|pm (hours 1-12, minutes default to 00).
func NormalizeTime(input string) (string, error) {
	raw := strings.TrimSpace(input)
	invalid := domain.NewValidationError("time", "Invalid time: "+input)

	if m := twentyFourHour.FindStringSubmatch(raw); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", hours, m[2]), nil
	}

	m := twelveHour.FindStringSubmatch(raw)
	if m == nil {
		return "", invalid
	}
	hours, _ := strconv.Atoi(m[1])
	minutes := 0
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
	}
	if hours < 1 || hours > 12 {
		return "", invalid
	}
	switch period := strings.ToLower(m[3]); {
	case period == "pm" && hours != 12:
		hours += 12
	case period == "am" && hours == 12:
		hours = 0
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}

// NormalizeEvent validates input and returns the canonical record to persist.
// previous is the currently stored record on update and nil on create; its slug
// is kept unless the title changed. Nothing is written here: a returned error
// means the caller must not persist.
func NormalizeEvent(input *domain.EventInput, previous *domain.Event) (*domain.Event, error) {
	if input == nil {
		return nil, domain.NewValidationError("event", "event is required")
	}

	required := []struct {
		field string
		value string
	}{
		{"title", input.Title},
		{"description", input.Description},
		{"overview", input.Overview},
		{"image", input.Image},
		{"venue", input.Venue},
		{"location", input.Location},
		{"date", input.Date},
		{"time", input.Time},
		{"mode", input.Mode},
		{"audience", input.Audience},
		{"organizer", input.Organizer},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, domain.NewValidationError(r.field, r.field+" is required")
		}
	}

	agenda, err := normalizeList("agenda", input.Agenda)
	if err != nil {
		return nil, err
	}
	tags, err := normalizeList("tags", input.Tags)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	var slug string
	if previous == nil || previous.Slug == "" || previous.Title != title {
		slug = Slugify(title)
	} else {
		slug = previous.Slug
	}
	if slug == "" {
		return nil, domain.NewValidationError("slug", "title must contain at least one letter or digit")
	}

	date, err := NormalizeDate(input.Date)
	if err != nil {
		return nil, err
	}
	tm, err := NormalizeTime(input.Time)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		Title:       title,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Overview:    strings.TrimSpace(input.Overview),
		Image:       strings.TrimSpace(input.Image),
		Venue:       strings.TrimSpace(input.Venue),
		Location:    strings.TrimSpace(input.Location),
		Date:        date,
		Time:        tm,
		Mode:        strings.TrimSpace(input.Mode),
		Audience:    strings.TrimSpace(input.Audience),
		Agenda:      agenda,
		Organizer:   strings.TrimSpace(input.Organizer),
		Tags:        tags,
	}
	if previous != nil {
		event.ID = previous.ID
		event.CreatedAt = previous.CreatedAt
	}
	return event, nil
}

func normalizeList(field string, values []string) ([]string, error) {
	invalid := domain.NewValidationError(field, field+" must be a non-empty array of strings")
	if len(values) == 0 {
		return nil, invalid
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, invalid
		}
		out = append(out, v)
	}
	return out, nil
}
