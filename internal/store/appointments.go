package store

import (
	"context"

	"clinicdesk/internal/domain"
)

// AppointmentRepository is the durable, insertion-ordered collection of
// booked appointments. Append never overwrites; deduplication of
// (date, slot) is the booking service's job.
type AppointmentRepository interface {
	List(ctx context.Context) ([]domain.Appointment, error)
	Append(ctx context.Context, appt domain.Appointment) error
}
