package http

import (
	"log/slog"
	"net/http"

	"devevents/internal/delivery/http/controllers"
	"devevents/internal/delivery/http/middleware"
	"devevents/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig carries the controllers and cross-cutting dependencies the router wires together.
type RouterConfig struct {
	Logger         *slog.Logger
	Events         *controllers.EventController
	Bookings       *controllers.BookingController
	Health         *controllers.HealthController
	Verifier       domain.TokenVerifier
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes and wraps it with
// panic recovery, CORS and request logging.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	organizerOnly := middleware.RequireOrganizer(cfg.Verifier, cfg.Logger)

	// Events
	mux.HandleFunc("POST /api/events", organizerOnly(cfg.Events.CreateEvent))
	mux.HandleFunc("GET /api/events", cfg.Events.ListEvents)
	mux.HandleFunc("GET /api/events/{slug}", cfg.Events.GetEventBySlug)
	mux.HandleFunc("GET /api/events/{slug}/similar", cfg.Events.ListSimilarEvents)
	mux.HandleFunc("PUT /api/events/{eventID}", organizerOnly(cfg.Events.UpdateEvent))

	// Bookings
	mux.HandleFunc("POST /api/bookings", cfg.Bookings.CreateBooking)

	// Health
	mux.HandleFunc("GET /healthz", cfg.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.Recover(cfg.Logger, handler)
	return middleware.LoggingMiddleware(cfg.Logger, handler)
}
