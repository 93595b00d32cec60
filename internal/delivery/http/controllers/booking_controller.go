package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/domain"
)

const msgBookingFailed = "Failed to create booking. Please try again."

// BookingController serves the booking endpoint.
type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{Logger: logger, Service: svc}
}

// CreateBookingRequest is the request body for POST /api/bookings.
type CreateBookingRequest struct {
	EventID string `json:"eventId" validate:"required"`
	Email   string `json:"email" validate:"required"`
}

// CreateBookingResponse is the data payload for POST /api/bookings. Error carries the
// validation message verbatim when Success is false.
type CreateBookingResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Booking *domain.Booking `json:"booking,omitempty"`
}

// CreateBookingSuccessResponse is the response envelope for POST /api/bookings.
type CreateBookingSuccessResponse struct {
	Data  CreateBookingResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// CreateBooking godoc
// @Summary Book a spot at an event
// @Description Validates the email and that the event exists, then stores the booking. A confirmation email and a booking.created message are sent best-effort.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Event ID and email"
// @Success 201 {object} controllers.CreateBookingSuccessResponse "data.success is true"
// @Failure 400 {object} controllers.CreateBookingSuccessResponse "data.success is false, data.error holds the validation message"
// @Failure 404 {object} controllers.CreateBookingSuccessResponse "data.success is false, event not found"
// @Failure 500 {object} controllers.CreateBookingSuccessResponse "data.success is false"
// @Failure 503 {object} controllers.CreateBookingSuccessResponse "data.success is false, store unreachable"
// @Router /api/bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		helpers.WriteJSONSuccess(w, http.StatusBadRequest, CreateBookingResponse{Error: "invalid request body"})
		return
	}
	if err := helpers.ValidateStruct(&req); err != nil {
		helpers.WriteJSONSuccess(w, http.StatusBadRequest, CreateBookingResponse{Error: err.Error()})
		return
	}
	booking, err := c.Service.CreateBooking(r.Context(), &domain.BookingInput{EventID: req.EventID, Email: req.Email})
	if err != nil {
		status, _ := helpers.StatusForError(err)
		message := err.Error()
		if status >= http.StatusInternalServerError {
			c.Logger.ErrorContext(r.Context(), "booking failed", "event_id", req.EventID, "err", err)
			message = msgBookingFailed
		}
		helpers.WriteJSONSuccess(w, status, CreateBookingResponse{Error: message})
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, CreateBookingResponse{Success: true, Booking: booking})
}
