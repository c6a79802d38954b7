package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
	"github.com/zatekoja/coachlanding/internal/domain/providers"
)

// MockAdapter provides deterministic availability for local development.
// Every day offers hourly start times between firstHour and lastHour. Bookings are kept in memory
// and show up as reserved intervals afterwards.
type MockAdapter struct {
	mu        sync.Mutex
	firstHour int
	lastHour  int
	bookings  map[string]entities.Booking
	clients   map[string]entities.Client
	nextID    int
}

// NewMockAdapter creates a mock scheduling provider.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		firstHour: 9,
		lastHour:  21,
		bookings:  make(map[string]entities.Booking),
		clients:   make(map[string]entities.Client),
	}
}

func (m *MockAdapter) AdminToken(ctx context.Context) (string, error) {
	return "mock-admin-token", nil
}

func eachDate(dateFrom, dateTo string, fn func(date string)) error {
	from, err := time.Parse(entities.DateLayout, dateFrom)
	if err != nil {
		return fmt.Errorf("invalid date_from: %w", err)
	}
	to, err := time.Parse(entities.DateLayout, dateTo)
	if err != nil {
		return fmt.Errorf("invalid date_to: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("invalid date range")
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		fn(d.Format(entities.DateLayout))
	}
	return nil
}

// GetStartTimeMatrix returns hourly start times for every date in range
func (m *MockAdapter) GetStartTimeMatrix(ctx context.Context, dateFrom, dateTo, serviceID, unitID string) (entities.TimeMatrix, error) {
	matrix := entities.TimeMatrix{}
	err := eachDate(dateFrom, dateTo, func(date string) {
		times := make([]string, 0, m.lastHour-m.firstHour)
		for h := m.firstHour; h < m.lastHour; h++ {
			times = append(times, entities.FormatClock(h*60))
		}
		matrix[date] = times
	})
	if err != nil {
		return nil, err
	}
	return matrix, nil
}

// GetReservedIntervals returns the intervals of mock bookings held by the unit
func (m *MockAdapter) GetReservedIntervals(ctx context.Context, dateFrom, dateTo, serviceID, unitID string) (entities.ReservedIntervals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := entities.ReservedIntervals{}
	err := eachDate(dateFrom, dateTo, func(date string) {
		for _, b := range m.bookings {
			if b.UnitID != unitID {
				continue
			}
			bDate, from, err := entities.SplitStartTime(b.StartDateTime)
			if err != nil || bDate != date {
				continue
			}
			_, to, err := entities.SplitStartTime(b.EndDateTime)
			if err != nil {
				continue
			}
			out[date] = append(out[date], entities.ReservedInterval{Date: date, From: from, To: to, Kind: entities.IntervalReserved})
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MockAdapter) AddClient(ctx context.Context, adminToken string, client entities.Client) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	client.ID = fmt.Sprintf("mock-client-%d", m.nextID)
	m.clients[client.ID] = client
	return client.ID, nil
}

// Book stores the booking unless the unit already holds one at the same start
func (m *MockAdapter) Book(ctx context.Context, adminToken string, call entities.BookingCall) (*entities.Booking, error) {
	start, err := time.Parse(entities.StartTimeLayout, call.Date+" "+call.Time+":00")
	if err != nil {
		return nil, fmt.Errorf("invalid booking start: %w", err)
	}
	end := start.Add(time.Duration(call.Duration) * time.Minute)

	m.mu.Lock()
	defer m.mu.Unlock()

	startValue := start.Format(entities.StartTimeLayout)
	for _, b := range m.bookings {
		if b.UnitID == call.UnitID && b.StartDateTime == startValue {
			return nil, fmt.Errorf("%w: unit %s at %s", providers.ErrSlotUnavailable, call.UnitID, startValue)
		}
	}

	m.nextID++
	booking := entities.Booking{
		ID:            fmt.Sprintf("mock-%d", m.nextID),
		Code:          fmt.Sprintf("MOCK%04d", m.nextID),
		ServiceID:     call.ServiceID,
		UnitID:        call.UnitID,
		ClientID:      call.ClientID,
		ClientName:    m.clients[call.ClientID].Name,
		StartDateTime: startValue,
		EndDateTime:   end.Format(entities.StartTimeLayout),
		Status:        "confirmed",
	}
	m.bookings[booking.ID] = booking
	return &booking, nil
}

func (m *MockAdapter) GetBooking(ctx context.Context, adminToken string, bookingID string) (*entities.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	return &b, nil
}

func (m *MockAdapter) ListBookings(ctx context.Context, adminToken string, filter entities.BookingFilter) ([]entities.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]entities.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		date := b.StartDateTime
		if len(date) >= len(entities.DateLayout) {
			date = date[:len(entities.DateLayout)]
		}
		if filter.DateFrom != "" && date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && date > filter.DateTo {
			continue
		}
		if filter.UnitID != "" && b.UnitID != filter.UnitID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDateTime < out[j].StartDateTime })
	return out, nil
}

func (m *MockAdapter) GetCompanyInfo(ctx context.Context) (*entities.CompanyInfo, error) {
	return &entities.CompanyInfo{
		Login:    "mock",
		Name:     "Mock Coaching",
		Timezone: "UTC",
	}, nil
}

func (m *MockAdapter) GetCompanyTimezoneOffset(ctx context.Context) (int, error) {
	return 0, nil
}

var _ providers.SchedulingProvider = (*MockAdapter)(nil)
