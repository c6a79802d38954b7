package providers

import (
	"context"
	"errors"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
)

// ErrSlotUnavailable is returned by Book when the scheduling system reports the slot as taken
var ErrSlotUnavailable = errors.New("slot is not available")

// SchedulingProvider defines the interface for the external scheduling service (SimplyBook.me)
type SchedulingProvider interface {
	// AdminToken returns an administrative access token
	AdminToken(ctx context.Context) (string, error)

	// GetStartTimeMatrix returns theoretical start times per date for one unit
	GetStartTimeMatrix(ctx context.Context, dateFrom, dateTo, serviceID, unitID string) (entities.TimeMatrix, error)

	// GetReservedIntervals returns reserved and not-worked intervals per date for one unit
	GetReservedIntervals(ctx context.Context, dateFrom, dateTo, serviceID, unitID string) (entities.ReservedIntervals, error)

	// AddClient creates or resolves a client record and returns its id
	AddClient(ctx context.Context, adminToken string, client entities.Client) (string, error)

	// Book places a booking. A taken slot is reported as ErrSlotUnavailable.
	Book(ctx context.Context, adminToken string, call entities.BookingCall) (*entities.Booking, error)

	// GetBooking returns one booking by id
	GetBooking(ctx context.Context, adminToken string, bookingID string) (*entities.Booking, error)

	// ListBookings returns bookings matching the filter
	ListBookings(ctx context.Context, adminToken string, filter entities.BookingFilter) ([]entities.Booking, error)

	// GetCompanyInfo returns the public company profile
	GetCompanyInfo(ctx context.Context) (*entities.CompanyInfo, error)

	// GetCompanyTimezoneOffset returns the company offset from UTC in seconds
	GetCompanyTimezoneOffset(ctx context.Context) (int, error)
}
