package entities

// BookingRequest is the inbound request to book one slot with one unit
type BookingRequest struct {
	StartTime   string `json:"start_time" validate:"required,datetime=2006-01-02 15:04:05"`
	ServiceID   string `json:"service_id"`
	UnitID      string `json:"unit_id" validate:"required"`
	ClientName  string `json:"client_name" validate:"required,max=200"`
	ClientEmail string `json:"client_email" validate:"required,email"`
	ClientPhone string `json:"client_phone" validate:"required,min=5,max=32"`
	Notes       string `json:"notes" validate:"max=2000"`
}

// BookingResult is returned to the caller once the booking sequence ends
type BookingResult struct {
	Success   bool   `json:"success"`
	BookingID string `json:"booking_id,omitempty"`
	Message   string `json:"message"`
	CoachName string `json:"coach_name,omitempty"`
	UnitID    string `json:"unit_id,omitempty"`
	Attempts  int    `json:"-"`
}

// Client is the upstream client record a booking is made for
type Client struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingCall is what the scheduling provider needs to place a booking
type BookingCall struct {
	ServiceID string
	UnitID    string
	Date      string
	Time      string
	Duration  int
	ClientID  string
	Notes     string
}

// Booking is an upstream booking record
type Booking struct {
	ID            string `json:"id"`
	Code          string `json:"code,omitempty"`
	ServiceID     string `json:"service_id,omitempty"`
	UnitID        string `json:"unit_id,omitempty"`
	ClientID      string `json:"client_id,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	StartDateTime string `json:"start_date_time,omitempty"`
	EndDateTime   string `json:"end_date_time,omitempty"`
	Status        string `json:"status,omitempty"`
}

// BookingFilter narrows a booking list query
type BookingFilter struct {
	DateFrom string
	DateTo   string
	UnitID   string
}

// BookingStage names the step the booking sequence reached
type BookingStage string

const (
	StageStart                 BookingStage = "start"
	StageTokenAcquired         BookingStage = "token_acquired"
	StageAvailabilityConfirmed BookingStage = "availability_confirmed"
	StageClientCreated         BookingStage = "client_created"
	StageBookingAttempted      BookingStage = "booking_attempted"
	StageDone                  BookingStage = "done"
	StageFailed                BookingStage = "failed"
)
