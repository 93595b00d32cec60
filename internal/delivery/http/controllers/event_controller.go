package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/delivery/http/middleware"
	"devevents/internal/domain"
)

// maxEventFormMemory bounds the multipart form kept in memory; larger parts spill to disk.
const maxEventFormMemory = 10 << 20

// DefaultMaxEventRequestBytes caps the whole create-event request body.
const DefaultMaxEventRequestBytes int64 = 20 << 20

// Messages returned by the event endpoints.
const (
	msgEventCreated        = "Event Created Successfully!"
	msgEventCreationFailed = "Event Creation Failed!"
	msgImageRequired       = "Image file is required !"
	msgEventsFetched       = "Successfully fetched event"
	msgEventsFetchFailed   = "Failed to fetch events!"
	msgEventUpdated        = "Event Updated Successfully!"
)

// EventController serves the event endpoints.
type EventController struct {
	Logger   *slog.Logger
	Service  domain.EventService
	Uploader domain.ImageUploader
	// MaxRequestBytes caps the create-event body; zero means DefaultMaxEventRequestBytes.
	MaxRequestBytes int64
}

func NewEventController(logger *slog.Logger, svc domain.EventService, uploader domain.ImageUploader) *EventController {
	return &EventController{
		Logger:          logger,
		Service:         svc,
		Uploader:        uploader,
		MaxRequestBytes: DefaultMaxEventRequestBytes,
	}
}

// CreateEventResponse is the data payload for POST /api/events.
type CreateEventResponse struct {
	Message string        `json:"message"`
	Event   *domain.Event `json:"event"`
}

// CreateEventSuccessResponse is the success response envelope for POST /api/events (201).
type CreateEventSuccessResponse struct {
	Data  CreateEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event from a multipart form. The image file is uploaded to the image CDN and its preview URL stored on the event. tags and agenda are JSON-encoded string arrays. Slug, date and time are normalized server-side.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Event cover image"
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param overview formData string true "Overview"
// @Param venue formData string true "Venue"
// @Param location formData string true "Location"
// @Param date formData string true "Date (YYYY-MM-DD or any parseable date)"
// @Param time formData string true "Time (HH:mm or h:mm am/pm)"
// @Param mode formData string true "Mode (online, offline, hybrid)"
// @Param audience formData string true "Audience"
// @Param organizer formData string true "Organizer"
// @Param agenda formData string true "JSON array of agenda items"
// @Param tags formData string true "JSON array of tags"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains message and the created event"
// @Failure 400 {object} helpers.APIResponse "image file missing"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "Event Creation Failed!; error.code tells validation_error, conflict, store_unavailable, bad_request and internal_error apart"
// @Router /api/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.OrganizerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	limit := c.MaxRequestBytes
	if limit <= 0 {
		limit = DefaultMaxEventRequestBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(maxEventFormMemory); err != nil {
		c.fail(w, r, helpers.ErrCodeBadRequest, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("image")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, msgImageRequired)
		return
	}
	defer file.Close()

	agenda, err := formStringList(r, "agenda")
	if err != nil {
		c.fail(w, r, helpers.ErrCodeBadRequest, err)
		return
	}
	tags, err := formStringList(r, "tags")
	if err != nil {
		c.fail(w, r, helpers.ErrCodeBadRequest, err)
		return
	}

	imageURL, err := c.Uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		c.fail(w, r, "", err)
		return
	}

	input := &domain.EventInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Overview:    r.FormValue("overview"),
		Image:       imageURL,
		Venue:       r.FormValue("venue"),
		Location:    r.FormValue("location"),
		Date:        r.FormValue("date"),
		Time:        r.FormValue("time"),
		Mode:        r.FormValue("mode"),
		Audience:    r.FormValue("audience"),
		Agenda:      agenda,
		Organizer:   r.FormValue("organizer"),
		Tags:        tags,
	}
	event, err := c.Service.CreateEvent(r.Context(), input)
	if err != nil {
		c.fail(w, r, "", err)
		return
	}
	c.Logger.InfoContext(r.Context(), "event created", "event_id", event.ID, "slug", event.Slug, "organizer_id", organizerID)
	helpers.WriteJSONSuccess(w, http.StatusCreated, CreateEventResponse{Message: msgEventCreated, Event: event})
}

// formStringList decodes a JSON-encoded string array form field. An absent field yields nil
// so the normalizer reports it as missing.
func formStringList(r *http.Request, field string) ([]string, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, errors.New(field + ": " + err.Error())
	}
	return values, nil
}

// ListEventsResponse is the data payload for GET /api/events.
type ListEventsResponse struct {
	Message string          `json:"message"`
	Events  []*domain.Event `json:"events"`
}

// ListEventsSuccessResponse is the success response envelope for GET /api/events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListEvents godoc
// @Summary List events
// @Description Returns all events, newest first.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains message and events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, msgEventsFetchFailed)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Message: msgEventsFetched, Events: events})
}

// EventDetailResponse is the data payload for GET /api/events/{slug}.
type EventDetailResponse struct {
	Event         *domain.Event   `json:"event"`
	SimilarEvents []*domain.Event `json:"similar_events"`
}

// EventDetailSuccessResponse is the success response envelope for GET /api/events/{slug} (200).
type EventDetailSuccessResponse struct {
	Data  EventDetailResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// GetEventBySlug godoc
// @Summary Get an event by slug
// @Description Returns the event and the events sharing at least one of its tags.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.EventDetailSuccessResponse "data contains event and similar_events"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{slug} [get]
func (c *EventController) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	event, err := c.Service.GetEventBySlug(r.Context(), slug)
	if err != nil {
		status, code := helpers.StatusForError(err)
		if status >= http.StatusInternalServerError {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		}
		helpers.WriteJSONError(w, status, code, err.Error())
		return
	}
	similar := c.Service.ListSimilarEvents(r.Context(), slug)
	helpers.WriteJSONSuccess(w, http.StatusOK, EventDetailResponse{Event: event, SimilarEvents: similar})
}

// SimilarEventsResponse is the data payload for GET /api/events/{slug}/similar.
type SimilarEventsResponse struct {
	Events []*domain.Event `json:"events"`
}

// SimilarEventsSuccessResponse is the success response envelope for GET /api/events/{slug}/similar (200).
type SimilarEventsSuccessResponse struct {
	Data  SimilarEventsResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListSimilarEvents godoc
// @Summary List similar events
// @Description Returns events sharing at least one tag with the given event, excluding it. Unknown slugs and lookup failures yield an empty list.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.SimilarEventsSuccessResponse "data contains events"
// @Router /api/events/{slug}/similar [get]
func (c *EventController) ListSimilarEvents(w http.ResponseWriter, r *http.Request) {
	events := c.Service.ListSimilarEvents(r.Context(), r.PathValue("slug"))
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SimilarEventsResponse{Events: events})
}

// UpdateEventRequest is the request body for PUT /api/events/{eventID}. The event is replaced as a whole.
type UpdateEventRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Overview    string   `json:"overview" validate:"required"`
	Image       string   `json:"image" validate:"required"`
	Venue       string   `json:"venue" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Date        string   `json:"date" validate:"required"`
	Time        string   `json:"time" validate:"required"`
	Mode        string   `json:"mode" validate:"required"`
	Audience    string   `json:"audience" validate:"required"`
	Agenda      []string `json:"agenda" validate:"required,min=1"`
	Organizer   string   `json:"organizer" validate:"required"`
	Tags        []string `json:"tags" validate:"required,min=1"`
}

func (u UpdateEventRequest) toInput() *domain.EventInput {
	return &domain.EventInput{
		Title:       u.Title,
		Description: u.Description,
		Overview:    u.Overview,
		Image:       u.Image,
		Venue:       u.Venue,
		Location:    u.Location,
		Date:        u.Date,
		Time:        u.Time,
		Mode:        u.Mode,
		Audience:    u.Audience,
		Agenda:      u.Agenda,
		Organizer:   u.Organizer,
		Tags:        u.Tags,
	}
}

// UpdateEventResponse is the data payload for PUT /api/events/{eventID}.
type UpdateEventResponse struct {
	Message string        `json:"message"`
	Event   *domain.Event `json:"event"`
}

// UpdateEventSuccessResponse is the success response envelope for PUT /api/events/{eventID} (200).
type UpdateEventSuccessResponse struct {
	Data  UpdateEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Replaces an event's fields and re-runs normalization. The slug is regenerated only when the title changes.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param event body UpdateEventRequest true "Event fields"
// @Success 200 {object} controllers.UpdateEventSuccessResponse "data contains message and the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if _, ok := middleware.OrganizerIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, req.toInput())
	if err != nil {
		status, code := helpers.StatusForError(err)
		if status >= http.StatusInternalServerError {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		}
		helpers.WriteJSONError(w, status, code, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UpdateEventResponse{Message: msgEventUpdated, Event: event})
}

// fail writes a create-event failure. Every failure after authentication other than a
// missing image is a 500 carrying the error text; code overrides the error code derived
// from err when non-empty.
func (c *EventController) fail(w http.ResponseWriter, r *http.Request, code string, err error) {
	if code == "" {
		_, code = helpers.StatusForError(err)
	}
	c.Logger.ErrorContext(r.Context(), "event creation failed", "path", r.URL.Path, "code", code, "err", err)
	helpers.WriteJSONErrorDetails(w, http.StatusInternalServerError, code, msgEventCreationFailed, err.Error())
}
