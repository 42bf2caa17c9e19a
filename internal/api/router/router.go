package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/availability"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/booking"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/bookings"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
	httpmiddleware "github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/http/middleware"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/search"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config holds router configuration. Booking and appointment handlers are
// optional so the read-only catalog API can run without Redis or Postgres.
type Config struct {
	Logger              *logging.Logger
	ClinicHandler       *clinic.Handler
	SearchHandler       *search.Handler
	AvailabilityHandler *availability.Handler
	BookingHandler      *booking.Handler
	AppointmentsHandler *bookings.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	RateLimiter         *httpmiddleware.RateLimiter
	HealthChecks        map[string]HealthCheck
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	if cfg.ClinicHandler == nil || cfg.SearchHandler == nil || cfg.AvailabilityHandler == nil {
		panic("router: clinic, search and availability handlers are required")
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", healthHandler(cfg.HealthChecks))
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimiter))
		}

		api.Get("/clinics", cfg.SearchHandler.ListClinics)
		api.Get("/clinics/{clinicID}", cfg.ClinicHandler.GetClinic)
		api.Get("/dentists/{dentistID}", cfg.ClinicHandler.GetDentist)
		api.Get("/dentists/{dentistID}/availability", cfg.AvailabilityHandler.GetAvailability)
		api.Get("/options", cfg.SearchHandler.GetOptions)

		api.Route("/search", func(s chi.Router) {
			s.Get("/keyword", cfg.SearchHandler.ByKeyword)
			s.Get("/location", cfg.SearchHandler.ByLocation)
			s.Get("/specialty", cfg.SearchHandler.BySpecialty)
			s.Get("/region", cfg.SearchHandler.ByRegion)
		})

		if cfg.BookingHandler != nil {
			api.Route("/booking/sessions", cfg.BookingHandler.Routes)
		}
		if cfg.AppointmentsHandler != nil {
			api.Route("/appointments", func(a chi.Router) {
				a.Get("/", cfg.AppointmentsHandler.ListAppointments)
				a.Get("/{appointmentID}", cfg.AppointmentsHandler.GetAppointment)
				a.Post("/{appointmentID}/cancel", cfg.AppointmentsHandler.CancelAppointment)
			})
		}
	})

	return r
}

// healthHandler runs every check with a short timeout. Any failure turns the
// response into 503 with the failing dependency named.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]string{"status": "ok"}
		status := http.StatusOK
		for name, check := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := check(ctx)
			cancel()
			if err != nil {
				resp[name] = err.Error()
				resp["status"] = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
