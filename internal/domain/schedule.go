package domain

import "fmt"

// Slot identifies a bookable interval of the clinic day by its start label,
// e.g. "09:15".
type Slot string

// Schedule is the clinic's daily operating window. Hours are 24-hour clock
// values; the lunch window [LunchStartHour, LunchEndHour) is closed for
// booking. Immutable after construction.
type Schedule struct {
	OpeningHour    int
	ClosingHour    int
	LunchStartHour int
	LunchEndHour   int
	SlotMinutes    int
}

// GenerateSlots returns the daily template of bookable slots: every
// SlotMinutes step from opening to (exclusive) closing whose hour does not
// fall inside the lunch window. The template carries no per-day state; the
// same schedule always yields the same sequence.
//
// A slot starting before closing is emitted even when its duration would run
// past it. An inverted lunch window excludes nothing, an inverted operating
// window yields the empty template.
func GenerateSlots(s Schedule) []Slot {
	if s.SlotMinutes <= 0 {
		return nil
	}

	var slots []Slot
	for start := s.OpeningHour * 60; start < s.ClosingHour*60; start += s.SlotMinutes {
		hour := start / 60
		if hour >= s.LunchStartHour && hour < s.LunchEndHour {
			continue
		}
		slots = append(slots, Slot(fmt.Sprintf("%02d:%02d", hour, start%60)))
	}
	return slots
}
