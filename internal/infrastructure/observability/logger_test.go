package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_JSONOutsideDevelopment(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()

	var buf bytes.Buffer
	initLogger(&buf, "coach-landing", "production")

	LoggerFromContext(context.Background()).Info().Str("unit_id", "2").Msg("slots resolved")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "coach-landing", entry["service"])
	assert.Equal(t, "2", entry["unit_id"])
	assert.Equal(t, "slots resolved", entry["message"])
	assert.NotContains(t, entry, "trace_id")
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, nil, "GET", "/health", 200, time.Millisecond)
		RecordUpstreamCall(ctx, nil, "simplybook", "book", errors.New("x"), time.Millisecond)
		RecordBookingAttempt(ctx, nil, "success")
		RecordConversionEvent(ctx, nil, "Lead", "sent")
	})
}

func TestInitMetrics_NoopProvider(t *testing.T) {
	metrics, err := InitMetrics()
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		RecordBookingAttempt(context.Background(), metrics, "conflict")
	})
}
