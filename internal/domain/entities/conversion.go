package entities

import "time"

// ConversionEvent is an ad event as received from the browser, before hashing
type ConversionEvent struct {
	EventName      string                 `json:"event_name" validate:"required,max=100"`
	EventTime      int64                  `json:"event_time,omitempty"`
	EventID        string                 `json:"event_id,omitempty"`
	ActionSource   string                 `json:"action_source,omitempty"`
	EventSourceURL string                 `json:"event_source_url,omitempty" validate:"omitempty,url"`
	UserData       ConversionUserData     `json:"user_data"`
	CustomData     map[string]interface{} `json:"custom_data,omitempty"`
}

// ConversionUserData carries raw user identifiers. Email and phone never leave the process unhashed.
type ConversionUserData struct {
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	ClientIP   string `json:"client_ip_address,omitempty"`
	UserAgent  string `json:"client_user_agent,omitempty"`
	FBC        string `json:"fbc,omitempty"`
	FBP        string `json:"fbp,omitempty"`
}

// ServerEvent is the Conversions API wire shape of one event
type ServerEvent struct {
	EventName      string                 `json:"event_name"`
	EventTime      int64                  `json:"event_time"`
	EventID        string                 `json:"event_id,omitempty"`
	ActionSource   string                 `json:"action_source"`
	EventSourceURL string                 `json:"event_source_url,omitempty"`
	UserData       ServerUserData         `json:"user_data"`
	CustomData     map[string]interface{} `json:"custom_data,omitempty"`
}

// ServerUserData holds hashed identifiers plus the unhashed match keys the API expects in clear
type ServerUserData struct {
	Em              []string `json:"em,omitempty"`
	Ph              []string `json:"ph,omitempty"`
	Fn              []string `json:"fn,omitempty"`
	Ln              []string `json:"ln,omitempty"`
	ExternalID      []string `json:"external_id,omitempty"`
	ClientIPAddress string   `json:"client_ip_address,omitempty"`
	ClientUserAgent string   `json:"client_user_agent,omitempty"`
	Fbc             string   `json:"fbc,omitempty"`
	Fbp             string   `json:"fbp,omitempty"`
}

// ConversionResponse is the Graph API acknowledgement of a batch
type ConversionResponse struct {
	EventsReceived int      `json:"events_received"`
	Messages       []string `json:"messages,omitempty"`
	FBTraceID      string   `json:"fbtrace_id,omitempty"`
}

// EventStatus is the outcome of one send
type EventStatus string

const (
	EventStatusSent   EventStatus = "sent"
	EventStatusFailed EventStatus = "failed"
)

// EventRecord is one diagnostic entry of the conversion history
type EventRecord struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Timestamp time.Time           `json:"timestamp"`
	Status    EventStatus         `json:"status"`
	Test      bool                `json:"test,omitempty"`
	Response  *ConversionResponse `json:"response,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// ConversionStatus is the status-query view of the reporting component
type ConversionStatus struct {
	Configured   bool          `json:"configured"`
	TestMode     bool          `json:"test_mode"`
	TotalTracked int           `json:"total_tracked"`
	Events       []EventRecord `json:"events"`
}
