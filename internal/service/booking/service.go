package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"clinicdesk/internal/domain"
	"clinicdesk/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// StorageError marks a durable read/write failure, so callers can tell "the
// store failed" apart from "the slot was taken" or "the input was bad".
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "appointment store: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

const (
	MinPatientAge = 0
	MaxPatientAge = 120
)

// Service is the booking ledger: it owns the appointment store and is the
// only writer to it. All store access goes through one mutex, so reads see a
// consistent snapshot and two Book calls for the same (date, slot) can never
// both succeed.
type Service struct {
	repo     store.AppointmentRepository
	schedule domain.Schedule

	mu sync.Mutex
}

func NewService(repo store.AppointmentRepository, schedule domain.Schedule) *Service {
	return &Service{repo: repo, schedule: schedule}
}

// Schedule returns the clinic schedule the ledger was built with.
func (s *Service) Schedule() domain.Schedule {
	return s.schedule
}

// AvailableSlots returns the daily template minus the slots already booked
// for the given date, in template order. It reads a snapshot and mutates
// nothing.
func (s *Service) AvailableSlots(ctx context.Context, date time.Time) ([]domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appts, err := s.repo.List(ctx)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return availableSlots(s.schedule, appts, domain.NormalizeDate(date)), nil
}

func availableSlots(schedule domain.Schedule, appts []domain.Appointment, date time.Time) []domain.Slot {
	booked := make(map[domain.Slot]struct{})
	for _, a := range appts {
		if a.Date.Equal(date) {
			booked[a.Slot] = struct{}{}
		}
	}

	template := domain.GenerateSlots(schedule)
	free := make([]domain.Slot, 0, len(template))
	for _, slot := range template {
		if _, ok := booked[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free
}

type BookInput struct {
	Date        time.Time
	Slot        domain.Slot
	PatientName string
	PatientAge  int
	Gender      string
	History     string
	Contact     string
}

// Book validates the patient fields, re-checks that the slot is still free
// under the ledger lock, appends the record and persists it. It returns
// *ValidationError on a bad field, store.ErrConflict when the slot is taken
// (including slots outside the daily template), and *StorageError when the
// store cannot be read or written; in all three cases the store is left
// unchanged.
func (s *Service) Book(ctx context.Context, in BookInput) (domain.Appointment, error) {
	name := strings.TrimSpace(in.PatientName)
	if name == "" {
		return domain.Appointment{}, validationError("name is required")
	}
	if in.PatientAge < MinPatientAge || in.PatientAge > MaxPatientAge {
		return domain.Appointment{}, validationError(fmt.Sprintf("age must be between %d and %d", MinPatientAge, MaxPatientAge))
	}
	gender, err := domain.ParseGender(in.Gender)
	if err != nil {
		return domain.Appointment{}, validationError("gender must be Male, Female or Other")
	}
	if in.Slot == "" {
		return domain.Appointment{}, validationError("slot is required")
	}

	date := domain.NormalizeDate(in.Date)

	s.mu.Lock()
	defer s.mu.Unlock()

	appts, err := s.repo.List(ctx)
	if err != nil {
		return domain.Appointment{}, &StorageError{Err: err}
	}
	if !slotFree(availableSlots(s.schedule, appts, date), in.Slot) {
		return domain.Appointment{}, store.ErrConflict
	}

	appt := domain.Appointment{
		Date:        date,
		Slot:        in.Slot,
		PatientName: name,
		PatientAge:  in.PatientAge,
		Gender:      gender,
		History:     in.History,
		Contact:     in.Contact,
	}
	if err := s.repo.Append(ctx, appt); err != nil {
		return domain.Appointment{}, &StorageError{Err: err}
	}
	return appt, nil
}

func slotFree(free []domain.Slot, slot domain.Slot) bool {
	for _, f := range free {
		if f == slot {
			return true
		}
	}
	return false
}

// List returns the full store snapshot in insertion order, for display.
func (s *Service) List(ctx context.Context) ([]domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appts, err := s.repo.List(ctx)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return appts, nil
}
