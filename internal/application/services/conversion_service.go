package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
	"github.com/zatekoja/coachlanding/internal/domain/providers"
	"github.com/zatekoja/coachlanding/internal/domain/repositories"
	"github.com/zatekoja/coachlanding/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/coachlanding/pkg/errors"
)

// DefaultActionSource is used when the browser does not name one
const DefaultActionSource = "website"

// ConversionService shapes ad events and reports them server-side
type ConversionService struct {
	sender        providers.ConversionSender
	history       repositories.EventHistoryRepository
	testEventCode string
	metrics       *observability.Metrics
	now           func() time.Time
}

// NewConversionService creates a new conversion service. sender may be nil when reporting is
// not configured, in which case sends fail without touching the history.
func NewConversionService(
	sender providers.ConversionSender,
	history repositories.EventHistoryRepository,
	testEventCode string,
	metrics *observability.Metrics,
) *ConversionService {
	return &ConversionService{
		sender:        sender,
		history:       history,
		testEventCode: testEventCode,
		metrics:       metrics,
		now:           time.Now,
	}
}

// ShapeEvent converts a browser event into the Conversions API shape. Email and phone are
// normalized and hashed; missing time, id and action source get defaults.
func ShapeEvent(event entities.ConversionEvent, now time.Time) entities.ServerEvent {
	out := entities.ServerEvent{
		EventName:      strings.TrimSpace(event.EventName),
		EventTime:      event.EventTime,
		EventID:        event.EventID,
		ActionSource:   event.ActionSource,
		EventSourceURL: event.EventSourceURL,
		CustomData:     event.CustomData,
	}
	if out.EventTime <= 0 {
		out.EventTime = now.Unix()
	}
	if out.EventID == "" {
		out.EventID = uuid.New().String()
	}
	if out.ActionSource == "" {
		out.ActionSource = DefaultActionSource
	}

	ud := event.UserData
	if v := normalizeText(ud.Email); v != "" {
		out.UserData.Em = []string{HashValue(v)}
	}
	if v := normalizePhone(ud.Phone); v != "" {
		out.UserData.Ph = []string{HashValue(v)}
	}
	if v := normalizeText(ud.FirstName); v != "" {
		out.UserData.Fn = []string{HashValue(v)}
	}
	if v := normalizeText(ud.LastName); v != "" {
		out.UserData.Ln = []string{HashValue(v)}
	}
	if v := strings.TrimSpace(ud.ExternalID); v != "" {
		out.UserData.ExternalID = []string{HashValue(v)}
	}
	out.UserData.ClientIPAddress = strings.TrimSpace(ud.ClientIP)
	out.UserData.ClientUserAgent = ud.UserAgent
	out.UserData.Fbc = ud.FBC
	out.UserData.Fbp = ud.FBP
	return out
}

// HashValue returns the lowercase hex SHA-256 of v
func HashValue(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}

func normalizeText(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func normalizePhone(v string) string {
	var b strings.Builder
	for _, r := range v {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SendEvent shapes and reports one event
func (s *ConversionService) SendEvent(ctx context.Context, event entities.ConversionEvent) (*entities.EventRecord, error) {
	return s.send(ctx, event, "")
}

// SendTestEvent reports one event with the configured test event code
func (s *ConversionService) SendTestEvent(ctx context.Context, event entities.ConversionEvent) (*entities.EventRecord, error) {
	if s.testEventCode == "" {
		return nil, apperrors.NewValidationError("FACEBOOK_TEST_EVENT_CODE is not configured")
	}
	return s.send(ctx, event, s.testEventCode)
}

func (s *ConversionService) send(ctx context.Context, event entities.ConversionEvent, testEventCode string) (*entities.EventRecord, error) {
	if s.sender == nil {
		return nil, apperrors.NewInternalError("conversion reporting is not configured", nil)
	}
	if strings.TrimSpace(event.EventName) == "" {
		return nil, apperrors.NewValidationError("event_name is required")
	}

	now := s.now()
	shaped := ShapeEvent(event, now)
	logger := observability.LoggerFromContext(ctx).With().
		Str("event_name", shaped.EventName).
		Str("event_id", shaped.EventID).
		Bool("test", testEventCode != "").
		Logger()

	record := entities.EventRecord{
		ID:        shaped.EventID,
		Name:      shaped.EventName,
		Timestamp: now,
		Test:      testEventCode != "",
	}

	resp, err := s.sender.Send(ctx, []entities.ServerEvent{shaped}, testEventCode)
	if err != nil {
		record.Status = entities.EventStatusFailed
		record.Error = err.Error()
	} else {
		record.Status = entities.EventStatusSent
		record.Response = resp
	}
	observability.RecordConversionEvent(ctx, s.metrics, shaped.EventName, string(record.Status))

	if histErr := s.history.Append(ctx, record); histErr != nil {
		logger.Warn().Err(histErr).Msg("Failed to record conversion event")
	}

	if err != nil {
		logger.Error().Err(err).Msg("Conversion event failed")
		return &record, apperrors.NewExternalError("failed to send conversion event", err)
	}
	logger.Info().Int("events_received", resp.EventsReceived).Msg("Conversion event sent")
	return &record, nil
}

// Status returns configuration presence and the most recent events, newest first
func (s *ConversionService) Status(ctx context.Context, limit int) (*entities.ConversionStatus, error) {
	events, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read event history", err)
	}
	total, err := s.history.Total(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read event history", err)
	}
	return &entities.ConversionStatus{
		Configured:   s.sender != nil,
		TestMode:     s.testEventCode != "",
		TotalTracked: total,
		Events:       events,
	}, nil
}
