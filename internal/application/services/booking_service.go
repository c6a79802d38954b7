package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
	"github.com/zatekoja/coachlanding/internal/domain/providers"
	"github.com/zatekoja/coachlanding/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/coachlanding/pkg/errors"
	"github.com/zatekoja/coachlanding/pkg/retry"
)

const slotTakenMessage = "The selected time slot is no longer available"

// BookingService places bookings against the scheduling provider
type BookingService struct {
	provider     providers.SchedulingProvider
	availability *AvailabilityService
	retryConfig  retry.Config
	metrics      *observability.Metrics
}

// NewBookingService creates a new booking service. retryConfig bounds the booking attempts.
func NewBookingService(
	provider providers.SchedulingProvider,
	availability *AvailabilityService,
	retryConfig retry.Config,
	metrics *observability.Metrics,
) *BookingService {
	return &BookingService{
		provider:     provider,
		availability: availability,
		retryConfig:  retryConfig,
		metrics:      metrics,
	}
}

// Book runs the booking sequence for one slot. On conflict and failure both the result and an
// *apperrors.AppError are returned so callers can render the result with the mapped status.
func (s *BookingService) Book(ctx context.Context, req entities.BookingRequest) (*entities.BookingResult, error) {
	ctx, span := observability.StartSpan(ctx, "booking.book")
	defer span.End()

	logger := observability.LoggerFromContext(ctx).With().
		Str("unit_id", req.UnitID).
		Str("start_time", req.StartTime).
		Logger()
	stage := func(st entities.BookingStage) *zerolog.Event {
		return logger.Info().Str("stage", string(st))
	}
	stage(entities.StageStart).Msg("Booking started")

	date, clock, err := entities.SplitStartTime(req.StartTime)
	if err != nil {
		return nil, apperrors.NewValidationError("start_time must be formatted as YYYY-MM-DD HH:MM:SS")
	}
	unit, ok := s.availability.Unit(req.UnitID)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown unit_id %q", req.UnitID))
	}
	serviceID := s.availability.ServiceID(req.ServiceID)
	slot := entities.Slot{
		Date:     date,
		Time:     clock,
		Duration: s.availability.filter.Duration(),
		UnitID:   unit.ID,
		UnitName: unit.Name,
	}

	failed := func(message string, err *apperrors.AppError, attempts int) (*entities.BookingResult, error) {
		observability.RecordError(span, err)
		logger.Warn().Err(err).Str("stage", string(entities.StageFailed)).Int("attempts", attempts).Msg("Booking failed")
		return &entities.BookingResult{
			Success:   false,
			Message:   message,
			CoachName: unit.Name,
			UnitID:    unit.ID,
			Attempts:  attempts,
		}, err
	}

	token, err := s.provider.AdminToken(ctx)
	if err != nil {
		return failed("Could not authenticate with the scheduling system", apperrors.NewInternalError("failed to acquire admin token", err), 0)
	}
	stage(entities.StageTokenAcquired).Msg("Admin token acquired")

	free, err := s.availability.IsSlotStillAvailable(ctx, serviceID, slot)
	if err != nil {
		return failed("Could not confirm availability", apperrors.NewInternalError("failed to confirm availability", err), 0)
	}
	if !free {
		return failed(slotTakenMessage, apperrors.NewConflictError(slotTakenMessage), 0)
	}
	stage(entities.StageAvailabilityConfirmed).Msg("Slot confirmed free")

	clientID, err := s.provider.AddClient(ctx, token, entities.Client{
		Name:  req.ClientName,
		Email: req.ClientEmail,
		Phone: req.ClientPhone,
	})
	if err != nil {
		return failed("Could not register the client", apperrors.NewInternalError("failed to create client", err), 0)
	}
	stage(entities.StageClientCreated).Str("client_id", clientID).Msg("Client created")

	call := entities.BookingCall{
		ServiceID: serviceID,
		UnitID:    unit.ID,
		Date:      date,
		Time:      clock,
		Duration:  slot.Duration,
		ClientID:  clientID,
		Notes:     req.Notes,
	}

	var (
		booking  *entities.Booking
		attempts int
		lastErr  error
	)
	err = retry.DoWithLog(ctx, s.retryConfig, "", func() error {
		attempts++
		stage(entities.StageBookingAttempted).Int("attempt", attempts).Msg("Booking attempt")

		free, err := s.availability.IsSlotStillAvailable(ctx, serviceID, slot)
		if err != nil {
			lastErr = err
			observability.RecordBookingAttempt(ctx, s.metrics, "error")
			return err
		}
		if !free {
			observability.RecordBookingAttempt(ctx, s.metrics, "slot_taken")
			return retry.Permanent(providers.ErrSlotUnavailable)
		}

		booking, err = s.provider.Book(ctx, token, call)
		if err != nil {
			lastErr = err
			if errors.Is(err, providers.ErrSlotUnavailable) {
				observability.RecordBookingAttempt(ctx, s.metrics, "slot_taken")
				return retry.Permanent(err)
			}
			observability.RecordBookingAttempt(ctx, s.metrics, "error")
			return err
		}
		observability.RecordBookingAttempt(ctx, s.metrics, "success")
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Booking attempt failed, retrying")
	})

	if err != nil {
		if errors.Is(err, providers.ErrSlotUnavailable) {
			return failed(slotTakenMessage, apperrors.NewConflictError(slotTakenMessage), attempts)
		}
		if lastErr == nil {
			lastErr = err
		}
		message := fmt.Sprintf("Booking failed after %d attempts: %s", attempts, lastErr.Error())
		return failed(message, apperrors.NewInternalError(message, err), attempts)
	}

	s.verify(ctx, logger, token, booking.ID)

	stage(entities.StageDone).Str("booking_id", booking.ID).Int("attempts", attempts).Msg("Booking confirmed")
	return &entities.BookingResult{
		Success:   true,
		BookingID: booking.ID,
		Message:   "Booking confirmed",
		CoachName: unit.Name,
		UnitID:    unit.ID,
		Attempts:  attempts,
	}, nil
}

// verify fetches the new booking for the logs only. Its outcome never changes the result.
func (s *BookingService) verify(ctx context.Context, logger zerolog.Logger, token, bookingID string) {
	booking, err := s.provider.GetBooking(ctx, token, bookingID)
	if err != nil {
		logger.Warn().Err(err).Str("booking_id", bookingID).Msg("Post-booking verification failed")
		return
	}
	logger.Debug().
		Str("booking_id", booking.ID).
		Str("status", booking.Status).
		Str("start", booking.StartDateTime).
		Msg("Post-booking verification")
}

// GetBooking returns one upstream booking
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*entities.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.NewValidationError("booking id is required")
	}
	token, err := s.provider.AdminToken(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to acquire admin token", err)
	}
	booking, err := s.provider.GetBooking(ctx, token, bookingID)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch booking", err)
	}
	return booking, nil
}

// ListBookings returns upstream bookings matching the filter
func (s *BookingService) ListBookings(ctx context.Context, filter entities.BookingFilter) ([]entities.Booking, error) {
	if filter.DateFrom != "" && filter.DateTo != "" {
		if err := validateDateRange(filter.DateFrom, filter.DateTo); err != nil {
			return nil, err
		}
	}
	if filter.UnitID != "" {
		if _, ok := s.availability.Unit(filter.UnitID); !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown unit_id %q", filter.UnitID))
		}
	}
	token, err := s.provider.AdminToken(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to acquire admin token", err)
	}
	bookings, err := s.provider.ListBookings(ctx, token, filter)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to list bookings", err)
	}
	return bookings, nil
}
