package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 55, cfg.Schedule.ServiceDuration)
	assert.Equal(t, "16:00", cfg.Schedule.WorkStart)
	assert.Equal(t, 3, cfg.Booking.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Booking.RetryDelay)
	assert.Equal(t, 10*time.Second, cfg.Facebook.Timeout)
	assert.Equal(t, 100, cfg.Facebook.HistorySize)
	assert.Equal(t, 55*time.Minute, cfg.SimplyBook.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.SimplyBook.HasCredentials())
}

func TestLoad_ScheduleFromEnv(t *testing.T) {
	t.Setenv("WORKING_DAYS", "Monday, wed,5")
	t.Setenv("SIMPLYBOOK_UNITS", "2:Anna, 3:Marc")
	t.Setenv("BOOKING_RETRY_DELAY", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, cfg.Schedule.WorkingDays)
	assert.Equal(t, []UnitConfig{{ID: "2", Name: "Anna"}, {ID: "3", Name: "Marc"}}, cfg.Schedule.Units)
	assert.Equal(t, 250*time.Millisecond, cfg.Booking.RetryDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.7"}, cfg.Server.TrustedProxies)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad weekday", "WORKING_DAYS", "mon,funday"},
		{"bad unit", "SIMPLYBOOK_UNITS", "2"},
		{"zero duration", "SERVICE_DURATION_MINUTES", "0"},
		{"zero attempts", "BOOKING_MAX_ATTEMPTS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
