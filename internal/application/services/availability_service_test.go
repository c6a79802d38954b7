package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/coachlanding/internal/application/services"
	"github.com/zatekoja/coachlanding/internal/domain/entities"
	apperrors "github.com/zatekoja/coachlanding/pkg/errors"
)

var testUnits = []entities.ResourceUnit{
	{ID: "2", Name: "Anna"},
	{ID: "3", Name: "Marc"},
}

func newAvailabilityService(provider *MockSchedulingProvider) *services.AvailabilityService {
	filter := services.NewSlotFilter(entities.WorkingHours{Days: weekdays(), Start: "16:00", End: "21:00"}, 55)
	return services.NewAvailabilityService(provider, filter, testUnits, "1")
}

func TestAvailabilityService_GetAvailableSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("merges units ordered by date then time", func(t *testing.T) {
		provider := new(MockSchedulingProvider)
		provider.On("GetStartTimeMatrix", ctx, monday, "2025-03-11", "1", "2").Return(entities.TimeMatrix{
			"2025-03-11": {"16:00"},
			monday:       {"17:00", "16:00"},
		}, nil)
		provider.On("GetReservedIntervals", ctx, monday, "2025-03-11", "1", "2").Return(entities.ReservedIntervals{}, nil)
		provider.On("GetStartTimeMatrix", ctx, monday, "2025-03-11", "1", "3").Return(entities.TimeMatrix{
			monday: {"16:00"},
		}, nil)
		provider.On("GetReservedIntervals", ctx, monday, "2025-03-11", "1", "3").Return(entities.ReservedIntervals{}, nil)

		slots, err := newAvailabilityService(provider).GetAvailableSlots(ctx, monday, "2025-03-11", "")
		require.NoError(t, err)
		require.Len(t, slots, 4)

		assert.Equal(t, entities.AvailableSlot{StartTime: "2025-03-10 16:00:00", Available: true, UnitID: "2", CoachName: "Anna"}, slots[0])
		assert.Equal(t, entities.AvailableSlot{StartTime: "2025-03-10 16:00:00", Available: true, UnitID: "3", CoachName: "Marc"}, slots[1])
		assert.Equal(t, "2025-03-10 17:00:00", slots[2].StartTime)
		assert.Equal(t, "2025-03-11 16:00:00", slots[3].StartTime)
		provider.AssertExpectations(t)
	})

	t.Run("filters reserved, off-hours and weekend slots", func(t *testing.T) {
		provider := new(MockSchedulingProvider)
		matrix := entities.TimeMatrix{
			monday:       {"15:00", "16:00", "17:00", "20:30"},
			"2025-03-15": {"16:00"},
		}
		reserved := entities.ReservedIntervals{
			monday: {{Date: monday, From: "17:00", To: "17:55", Kind: entities.IntervalReserved}},
		}
		provider.On("GetStartTimeMatrix", ctx, monday, "2025-03-15", "9", mock.Anything).Return(matrix, nil)
		provider.On("GetReservedIntervals", ctx, monday, "2025-03-15", "9", mock.Anything).Return(reserved, nil)

		slots, err := newAvailabilityService(provider).GetAvailableSlots(ctx, monday, "2025-03-15", "9")
		require.NoError(t, err)
		require.Len(t, slots, 2)
		for _, s := range slots {
			assert.Equal(t, "2025-03-10 16:00:00", s.StartTime)
		}
	})

	t.Run("skips a unit whose upstream call fails", func(t *testing.T) {
		provider := new(MockSchedulingProvider)
		provider.On("GetStartTimeMatrix", ctx, monday, monday, "1", "2").Return(nil, errors.New("boom"))
		provider.On("GetStartTimeMatrix", ctx, monday, monday, "1", "3").Return(entities.TimeMatrix{monday: {"18:00"}}, nil)
		provider.On("GetReservedIntervals", ctx, monday, monday, "1", "3").Return(nil, nil)

		slots, err := newAvailabilityService(provider).GetAvailableSlots(ctx, monday, monday, "1")
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, "3", slots[0].UnitID)
		provider.AssertNotCalled(t, "GetReservedIntervals", ctx, monday, monday, "1", "2")
	})

	t.Run("skips a unit whose reserved intervals fail", func(t *testing.T) {
		provider := new(MockSchedulingProvider)
		provider.On("GetStartTimeMatrix", ctx, monday, monday, "1", mock.Anything).Return(entities.TimeMatrix{monday: {"18:00"}}, nil)
		provider.On("GetReservedIntervals", ctx, monday, monday, "1", "2").Return(nil, errors.New("timeout"))
		provider.On("GetReservedIntervals", ctx, monday, monday, "1", "3").Return(entities.ReservedIntervals{}, nil)

		slots, err := newAvailabilityService(provider).GetAvailableSlots(ctx, monday, monday, "1")
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, "Marc", slots[0].CoachName)
	})

	t.Run("rejects invalid range", func(t *testing.T) {
		provider := new(MockSchedulingProvider)
		_, err := newAvailabilityService(provider).GetAvailableSlots(ctx, "2025-03-11", monday, "1")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		provider.AssertNotCalled(t, "GetStartTimeMatrix", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a range wider than 62 days", func(t *testing.T) {
		provider := new(MockSchedulingProvider)
		_, err := newAvailabilityService(provider).GetAvailableSlots(ctx, monday, "2025-05-11", "1")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		assert.Contains(t, err.Error(), "62 days")
		provider.AssertNotCalled(t, "GetStartTimeMatrix", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("accepts exactly 62 days", func(t *testing.T) {
		provider := new(MockSchedulingProvider)
		provider.On("GetStartTimeMatrix", ctx, monday, "2025-05-10", "1", mock.Anything).Return(entities.TimeMatrix{}, nil)
		provider.On("GetReservedIntervals", ctx, monday, "2025-05-10", "1", mock.Anything).Return(entities.ReservedIntervals{}, nil)

		slots, err := newAvailabilityService(provider).GetAvailableSlots(ctx, monday, "2025-05-10", "1")
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		_, err := newAvailabilityService(new(MockSchedulingProvider)).GetAvailableSlots(ctx, "10/03/2025", monday, "1")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestAvailabilityService_IsSlotStillAvailable(t *testing.T) {
	ctx := context.Background()
	slot := entities.Slot{Date: monday, Time: "16:00", Duration: 55, UnitID: "2"}

	t.Run("free", func(t *testing.T) {
		provider := new(MockSchedulingProvider)
		provider.On("GetReservedIntervals", ctx, monday, monday, "1", "2").Return(entities.ReservedIntervals{}, nil)

		free, err := newAvailabilityService(provider).IsSlotStillAvailable(ctx, "1", slot)
		require.NoError(t, err)
		assert.True(t, free)
	})

	t.Run("taken", func(t *testing.T) {
		provider := new(MockSchedulingProvider)
		provider.On("GetReservedIntervals", ctx, monday, monday, "1", "2").Return(entities.ReservedIntervals{
			monday: {{From: "16:30", To: "17:00"}},
		}, nil)

		free, err := newAvailabilityService(provider).IsSlotStillAvailable(ctx, "1", slot)
		require.NoError(t, err)
		assert.False(t, free)
	})

	t.Run("outside working hours skips upstream", func(t *testing.T) {
		provider := new(MockSchedulingProvider)
		late := slot
		late.Time = "20:30"

		free, err := newAvailabilityService(provider).IsSlotStillAvailable(ctx, "1", late)
		require.NoError(t, err)
		assert.False(t, free)
		provider.AssertNotCalled(t, "GetReservedIntervals", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
