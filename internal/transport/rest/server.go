package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"clinicdesk/internal/domain"
	"clinicdesk/internal/notify"
	"clinicdesk/internal/service/booking"
)

type bookingService interface {
	AvailableSlots(ctx context.Context, date time.Time) ([]domain.Slot, error)
	Book(ctx context.Context, in booking.BookInput) (domain.Appointment, error)
	List(ctx context.Context) ([]domain.Appointment, error)
}

type notifier interface {
	Send(ctx context.Context, appt domain.Appointment) error
}

// Server is the JSON surface the booking UI talks to. It owns no booking
// logic: field semantics live in the booking service, delivery in the
// notifier.
type Server struct {
	svc           bookingService
	notifier      notifier
	clinic        notify.ClinicInfo
	notifyTimeout time.Duration
	validate      *validator.Validate
	log           *slog.Logger
}

func NewServer(svc bookingService, n notifier, clinic notify.ClinicInfo, notifyTimeout time.Duration, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	return &Server{
		svc:           svc,
		notifier:      n,
		clinic:        clinic,
		notifyTimeout: notifyTimeout,
		validate:      validator.New(),
		log:           log.With(slog.String("component", "rest.booking")),
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(120, time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/clinic", s.handleClinic)
		r.Get("/slots", s.handleSlots)
		r.Get("/appointments", s.handleListAppointments)
		r.Post("/appointments", s.handleBook)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
