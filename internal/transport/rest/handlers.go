package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"clinicdesk/internal/domain"
	"clinicdesk/internal/service/booking"
	"clinicdesk/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type clinicResponse struct {
	Name       string `json:"name"`
	DoctorName string `json:"doctor_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Website    string `json:"website"`
}

func (s *Server) handleClinic(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, clinicResponse{
		Name:       s.clinic.Name,
		DoctorName: s.clinic.DoctorName,
		Email:      s.clinic.Email,
		Phone:      s.clinic.Phone,
		Website:    s.clinic.Website,
	})
}

type slotsResponse struct {
	Date  string        `json:"date"`
	Slots []domain.Slot `json:"slots"`
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	log := s.log.With(slog.String("handler", "Slots"))

	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	date, err := time.ParseInLocation(domain.DateLayout, raw, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be formatted as "+domain.DateLayout)
		return
	}

	slots, err := s.svc.AvailableSlots(r.Context(), date)
	if err != nil {
		log.Error("available slots failed", slog.Any("err", err), slog.String("date", raw))
		writeError(w, http.StatusInternalServerError, "could not read the appointment store")
		return
	}

	log.Debug("slots listed", slog.String("date", raw), slog.Int("count", len(slots)))
	writeJSON(w, http.StatusOK, slotsResponse{Date: raw, Slots: slots})
}

type bookRequest struct {
	Date    string `json:"date" validate:"required"`
	Slot    string `json:"slot" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Age     *int   `json:"age" validate:"required"`
	Gender  string `json:"gender" validate:"required"`
	History string `json:"history"`
	Contact string `json:"contact"`
}

type appointmentResponse struct {
	Date    string `json:"date"`
	Slot    string `json:"slot"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	History string `json:"history"`
	Contact string `json:"contact"`
}

func toAppointmentResponse(appt domain.Appointment) appointmentResponse {
	return appointmentResponse{
		Date:    appt.Date.Format(domain.DateLayout),
		Slot:    string(appt.Slot),
		Name:    appt.PatientName,
		Age:     appt.PatientAge,
		Gender:  string(appt.Gender),
		History: appt.History,
		Contact: appt.Contact,
	}
}

type bookResponse struct {
	Appointment appointmentResponse `json:"appointment"`
	Notified    bool                `json:"notified"`
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	log := s.log.With(slog.String("handler", "Book"))

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			field := strings.ToLower(fieldErrs[0].Field())
			writeError(w, http.StatusBadRequest, field+" is required")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	date, err := time.ParseInLocation(domain.DateLayout, req.Date, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be formatted as "+domain.DateLayout)
		return
	}

	appt, err := s.svc.Book(r.Context(), booking.BookInput{
		Date:        date,
		Slot:        domain.Slot(req.Slot),
		PatientName: req.Name,
		PatientAge:  *req.Age,
		Gender:      req.Gender,
		History:     req.History,
		Contact:     req.Contact,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			log.Info("booking conflict", slog.String("date", req.Date), slog.String("slot", req.Slot))
			writeError(w, http.StatusConflict, "That slot was just taken. Pick another available slot.")
		default:
			var vErr *booking.ValidationError
			var sErr *booking.StorageError
			switch {
			case errors.As(err, &vErr):
				log.Warn("invalid booking", slog.Any("err", err))
				writeError(w, http.StatusBadRequest, vErr.Error())
			case errors.As(err, &sErr):
				log.Error("booking persist failed", slog.Any("err", err), slog.String("date", req.Date), slog.String("slot", req.Slot))
				writeError(w, http.StatusInternalServerError, "could not save the appointment")
			default:
				log.Error("booking failed", slog.Any("err", err))
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}
		return
	}

	log.Info(
		"appointment booked",
		slog.String("date", req.Date),
		slog.String("slot", req.Slot),
	)

	// The booking is already durable; notification failure only downgrades
	// the response, it never rolls anything back. Detached from the request
	// context so a client disconnect cannot cancel delivery.
	notified := true
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.notifyTimeout)
	defer cancel()
	if err := s.notifier.Send(notifyCtx, appt); err != nil {
		log.Warn("admin notification failed", slog.Any("err", err), slog.String("date", req.Date), slog.String("slot", req.Slot))
		notified = false
	}

	writeJSON(w, http.StatusCreated, bookResponse{
		Appointment: toAppointmentResponse(appt),
		Notified:    notified,
	})
}

type appointmentsResponse struct {
	Appointments []appointmentResponse `json:"appointments"`
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	log := s.log.With(slog.String("handler", "ListAppointments"))

	appts, err := s.svc.List(r.Context())
	if err != nil {
		log.Error("appointments list failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "could not read the appointment store")
		return
	}

	out := make([]appointmentResponse, 0, len(appts))
	for _, appt := range appts {
		out = append(out, toAppointmentResponse(appt))
	}

	log.Debug("appointments listed", slog.Int("count", len(out)))
	writeJSON(w, http.StatusOK, appointmentsResponse{Appointments: out})
}
