package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
)

// Mocks

type MockSchedulingProvider struct {
	mock.Mock
}

func (m *MockSchedulingProvider) AdminToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSchedulingProvider) GetStartTimeMatrix(ctx context.Context, dateFrom, dateTo, serviceID, unitID string) (entities.TimeMatrix, error) {
	args := m.Called(ctx, dateFrom, dateTo, serviceID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.TimeMatrix), args.Error(1)
}

func (m *MockSchedulingProvider) GetReservedIntervals(ctx context.Context, dateFrom, dateTo, serviceID, unitID string) (entities.ReservedIntervals, error) {
	args := m.Called(ctx, dateFrom, dateTo, serviceID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.ReservedIntervals), args.Error(1)
}

func (m *MockSchedulingProvider) AddClient(ctx context.Context, adminToken string, client entities.Client) (string, error) {
	args := m.Called(ctx, adminToken, client)
	return args.String(0), args.Error(1)
}

func (m *MockSchedulingProvider) Book(ctx context.Context, adminToken string, call entities.BookingCall) (*entities.Booking, error) {
	args := m.Called(ctx, adminToken, call)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockSchedulingProvider) GetBooking(ctx context.Context, adminToken string, bookingID string) (*entities.Booking, error) {
	args := m.Called(ctx, adminToken, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockSchedulingProvider) ListBookings(ctx context.Context, adminToken string, filter entities.BookingFilter) ([]entities.Booking, error) {
	args := m.Called(ctx, adminToken, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Booking), args.Error(1)
}

func (m *MockSchedulingProvider) GetCompanyInfo(ctx context.Context) (*entities.CompanyInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CompanyInfo), args.Error(1)
}

func (m *MockSchedulingProvider) GetCompanyTimezoneOffset(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockConversionSender struct {
	mock.Mock
}

func (m *MockConversionSender) Send(ctx context.Context, events []entities.ServerEvent, testEventCode string) (*entities.ConversionResponse, error) {
	args := m.Called(ctx, events, testEventCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ConversionResponse), args.Error(1)
}
