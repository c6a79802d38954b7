package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the zero-padded calendar date used throughout the scheduling flow
	DateLayout = "2006-01-02"

	// StartTimeLayout is the wire format of a slot start ("2025-03-10 16:00:00")
	StartTimeLayout = "2006-01-02 15:04:05"
)

// IntervalKind distinguishes actual bookings from breaks and off-hours
type IntervalKind string

const (
	IntervalReserved  IntervalKind = "reserved"
	IntervalNotWorked IntervalKind = "not_worked"
)

// Slot is a candidate booking start time of fixed duration for one unit on one date
type Slot struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration int    `json:"duration"`
	UnitID   string `json:"unit_id"`
	UnitName string `json:"coach_name"`
}

// StartTime returns the slot start in StartTimeLayout
func (s Slot) StartTime() string {
	return s.Date + " " + s.Time + ":00"
}

// Weekday returns the weekday of the slot date
func (s Slot) Weekday() (time.Weekday, error) {
	d, err := time.Parse(DateLayout, s.Date)
	if err != nil {
		return 0, fmt.Errorf("invalid slot date %q: %w", s.Date, err)
	}
	return d.Weekday(), nil
}

// Less orders slots by date then time. Both are zero-padded so string order is chronological.
func (s Slot) Less(other Slot) bool {
	if s.Date != other.Date {
		return s.Date < other.Date
	}
	return s.Time < other.Time
}

// AvailableSlot is the public representation of a bookable slot
type AvailableSlot struct {
	StartTime string `json:"start_time"`
	Available bool   `json:"available"`
	UnitID    string `json:"unit_id"`
	CoachName string `json:"coach_name"`
}

// ToAvailable converts a slot that survived filtering into its public form
func (s Slot) ToAvailable() AvailableSlot {
	return AvailableSlot{
		StartTime: s.StartTime(),
		Available: true,
		UnitID:    s.UnitID,
		CoachName: s.UnitName,
	}
}

// ReservedInterval is an upstream-reported range within one date that cannot be booked
type ReservedInterval struct {
	Date string       `json:"date"`
	From string       `json:"from"`
	To   string       `json:"to"`
	Kind IntervalKind `json:"kind"`
}

// TimeMatrix maps a date to its theoretical start times ("HH:MM"), ignoring bookings
type TimeMatrix map[string][]string

// ReservedIntervals maps a date to every reserved and not-worked interval on it
type ReservedIntervals map[string][]ReservedInterval

// ResourceUnit is one bookable performer
type ResourceUnit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkingHours is the contiguous daily window shared by all units on working days
type WorkingHours struct {
	Days  []time.Weekday
	Start string
	End   string
}

// IsWorkingDay reports whether d is in the working-days set
func (w WorkingHours) IsWorkingDay(d time.Weekday) bool {
	for _, day := range w.Days {
		if day == d {
			return true
		}
	}
	return false
}

// ParseClock converts "HH:MM" or "HH:MM:SS" into minutes since midnight. "24:00" is accepted
// as end of day.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock time %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 24 {
		return 0, fmt.Errorf("invalid clock time %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid clock time %q", value)
	}
	if hours == 24 && minutes != 0 {
		return 0, fmt.Errorf("invalid clock time %q", value)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock rewrites "9:5", "09:05:00" and similar to "09:05"
func NormalizeClock(value string) (string, error) {
	m, err := ParseClock(value)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}

// SplitStartTime splits a StartTimeLayout value into its date and "HH:MM" parts
func SplitStartTime(value string) (date string, clock string, err error) {
	t, err := time.Parse(StartTimeLayout, strings.TrimSpace(value))
	if err != nil {
		return "", "", fmt.Errorf("invalid start time %q: %w", value, err)
	}
	return t.Format(DateLayout), t.Format("15:04"), nil
}
