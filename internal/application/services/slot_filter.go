package services

import (
	"github.com/zatekoja/coachlanding/internal/domain/entities"
)

// SlotFilter decides whether a theoretical slot can be offered
type SlotFilter struct {
	hours    entities.WorkingHours
	duration int
}

// NewSlotFilter creates a filter for a working-hours policy and a fixed service duration in minutes
func NewSlotFilter(hours entities.WorkingHours, duration int) SlotFilter {
	return SlotFilter{hours: hours, duration: duration}
}

// Duration returns the service duration in minutes
func (f SlotFilter) Duration() int {
	return f.duration
}

// IsWorkingDay reports whether the slot date falls on a working weekday
func (f SlotFilter) IsWorkingDay(slot entities.Slot) bool {
	weekday, err := slot.Weekday()
	if err != nil {
		return false
	}
	return f.hours.IsWorkingDay(weekday)
}

// WithinWorkingHours reports whether [start, start+duration) lies inside the daily window
func (f SlotFilter) WithinWorkingHours(slot entities.Slot) bool {
	start, err := entities.ParseClock(slot.Time)
	if err != nil {
		return false
	}
	windowStart, err := entities.ParseClock(f.hours.Start)
	if err != nil {
		return false
	}
	windowEnd, err := entities.ParseClock(f.hours.End)
	if err != nil {
		return false
	}
	return start >= windowStart && start+slot.Duration <= windowEnd
}

// Accept applies the weekday, working-hours and overlap rules in that order.
// reserved must hold the intervals of the slot's own date.
func (f SlotFilter) Accept(slot entities.Slot, reserved []entities.ReservedInterval) bool {
	if !f.IsWorkingDay(slot) {
		return false
	}
	if !f.WithinWorkingHours(slot) {
		return false
	}
	return IsSlotAvailable(slot, reserved)
}

// IsSlotAvailable reports whether the half-open slot interval overlaps none of the reserved
// intervals. Touching intervals do not overlap. Intervals that cannot be parsed are ignored.
func IsSlotAvailable(slot entities.Slot, reserved []entities.ReservedInterval) bool {
	start, err := entities.ParseClock(slot.Time)
	if err != nil {
		return false
	}
	end := start + slot.Duration

	for _, r := range reserved {
		from, err := entities.ParseClock(r.From)
		if err != nil {
			continue
		}
		to, err := entities.ParseClock(r.To)
		if err != nil {
			continue
		}
		if start < to && from < end {
			return false
		}
	}
	return true
}
