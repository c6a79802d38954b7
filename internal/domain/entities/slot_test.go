package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"16:00", 960, false},
		{"16:55:00", 1015, false},
		{"9:05", 545, false},
		{"24:00", 1440, false},
		{"24:30", 0, true},
		{"16", 0, true},
		{"ab:cd", 0, true},
		{"12:60", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlot_StartTimeAndWeekday(t *testing.T) {
	s := Slot{Date: "2025-03-10", Time: "16:00", Duration: 55, UnitID: "2", UnitName: "Anna"}

	assert.Equal(t, "2025-03-10 16:00:00", s.StartTime())

	day, err := s.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, day)

	av := s.ToAvailable()
	assert.Equal(t, AvailableSlot{StartTime: "2025-03-10 16:00:00", Available: true, UnitID: "2", CoachName: "Anna"}, av)
}

func TestSplitStartTime(t *testing.T) {
	date, clock, err := SplitStartTime("2025-03-10 16:30:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", date)
	assert.Equal(t, "16:30", clock)

	_, _, err = SplitStartTime("2025-03-10T16:30:00Z")
	assert.Error(t, err)
}

func TestWorkingHours_IsWorkingDay(t *testing.T) {
	w := WorkingHours{Days: []time.Weekday{time.Monday, time.Thursday}}
	assert.True(t, w.IsWorkingDay(time.Monday))
	assert.False(t, w.IsWorkingDay(time.Sunday))
}
