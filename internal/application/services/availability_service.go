package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
	"github.com/zatekoja/coachlanding/internal/domain/providers"
	"github.com/zatekoja/coachlanding/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/coachlanding/pkg/errors"
)

// AvailabilityService resolves bookable slots across the allow-listed units
type AvailabilityService struct {
	provider         providers.SchedulingProvider
	filter           SlotFilter
	units            []entities.ResourceUnit
	defaultServiceID string
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	provider providers.SchedulingProvider,
	filter SlotFilter,
	units []entities.ResourceUnit,
	defaultServiceID string,
) *AvailabilityService {
	return &AvailabilityService{
		provider:         provider,
		filter:           filter,
		units:            units,
		defaultServiceID: defaultServiceID,
	}
}

// Units returns the allow-listed units in configuration order
func (s *AvailabilityService) Units() []entities.ResourceUnit {
	return s.units
}

// Unit looks up an allow-listed unit by id
func (s *AvailabilityService) Unit(id string) (entities.ResourceUnit, bool) {
	for _, u := range s.units {
		if u.ID == id {
			return u, true
		}
	}
	return entities.ResourceUnit{}, false
}

// ServiceID returns serviceID, or the configured service when empty
func (s *AvailabilityService) ServiceID(serviceID string) string {
	if serviceID == "" {
		return s.defaultServiceID
	}
	return serviceID
}

// GetAvailableSlots returns the bookable slots of every unit in [dateFrom, dateTo], ordered by
// date then time. Units whose upstream calls fail are left out.
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, dateFrom, dateTo, serviceID string) ([]entities.AvailableSlot, error) {
	if err := validateDateRange(dateFrom, dateTo); err != nil {
		return nil, err
	}
	serviceID = s.ServiceID(serviceID)
	logger := observability.LoggerFromContext(ctx)

	var merged []entities.Slot
	for _, unit := range s.units {
		slots, err := s.unitSlots(ctx, unit, dateFrom, dateTo, serviceID)
		if err != nil {
			logger.Warn().Err(err).
				Str("unit_id", unit.ID).
				Str("date_from", dateFrom).
				Str("date_to", dateTo).
				Msg("Skipping unit after upstream failure")
			continue
		}
		merged = append(merged, slots...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Less(merged[j])
	})

	out := make([]entities.AvailableSlot, 0, len(merged))
	for _, slot := range merged {
		out = append(out, slot.ToAvailable())
	}
	return out, nil
}

func (s *AvailabilityService) unitSlots(ctx context.Context, unit entities.ResourceUnit, dateFrom, dateTo, serviceID string) ([]entities.Slot, error) {
	matrix, err := s.provider.GetStartTimeMatrix(ctx, dateFrom, dateTo, serviceID, unit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch start time matrix: %w", err)
	}
	reserved, err := s.provider.GetReservedIntervals(ctx, dateFrom, dateTo, serviceID, unit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reserved intervals: %w", err)
	}

	dates := make([]string, 0, len(matrix))
	for date := range matrix {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var slots []entities.Slot
	for _, date := range dates {
		times := append([]string(nil), matrix[date]...)
		sort.Strings(times)
		for _, clock := range times {
			slot := entities.Slot{
				Date:     date,
				Time:     clock,
				Duration: s.filter.Duration(),
				UnitID:   unit.ID,
				UnitName: unit.Name,
			}
			if s.filter.Accept(slot, reserved[date]) {
				slots = append(slots, slot)
			}
		}
	}
	return slots, nil
}

// IsSlotStillAvailable re-checks one slot against freshly fetched reserved intervals
func (s *AvailabilityService) IsSlotStillAvailable(ctx context.Context, serviceID string, slot entities.Slot) (bool, error) {
	if !s.filter.IsWorkingDay(slot) || !s.filter.WithinWorkingHours(slot) {
		return false, nil
	}
	reserved, err := s.provider.GetReservedIntervals(ctx, slot.Date, slot.Date, s.ServiceID(serviceID), slot.UnitID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch reserved intervals: %w", err)
	}
	return IsSlotAvailable(slot, reserved[slot.Date]), nil
}

// maxRangeDays bounds one query, inclusive of both ends
const maxRangeDays = 62

func validateDateRange(dateFrom, dateTo string) error {
	from, err := time.Parse(entities.DateLayout, dateFrom)
	if err != nil {
		return apperrors.NewValidationError("start_date must be formatted as YYYY-MM-DD")
	}
	to, err := time.Parse(entities.DateLayout, dateTo)
	if err != nil {
		return apperrors.NewValidationError("end_date must be formatted as YYYY-MM-DD")
	}
	if to.Before(from) {
		return apperrors.NewValidationError("end_date must not be before start_date")
	}
	if to.Sub(from) >= maxRangeDays*24*time.Hour {
		return apperrors.NewValidationError(fmt.Sprintf("date range must not exceed %d days", maxRangeDays))
	}
	return nil
}
