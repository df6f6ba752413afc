package domain

import (
	"fmt"
	"time"
)

// DateLayout is how calendar dates are rendered in the store and on the wire.
const DateLayout = "2006-01-02"

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func ParseGender(s string) (Gender, error) {
	switch g := Gender(s); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// Appointment is a booked clinic slot. Records are created by the booking
// service and never mutated afterwards; (Date, Slot) is unique across the
// store.
type Appointment struct {
	Date        time.Time
	Slot        Slot
	PatientName string
	PatientAge  int
	Gender      Gender
	History     string
	Contact     string
}

// NormalizeDate reduces a timestamp to its calendar date, anchored at
// midnight UTC. The clinic runs in a single local time zone, so the zone
// itself carries no information.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
