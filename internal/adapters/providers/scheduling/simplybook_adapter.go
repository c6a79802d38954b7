package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
	"github.com/zatekoja/coachlanding/internal/domain/providers"
	"github.com/zatekoja/coachlanding/internal/infrastructure/clients/simplybook"
	"github.com/zatekoja/coachlanding/internal/infrastructure/observability"
	"github.com/zatekoja/coachlanding/pkg/config"
)

const (
	publicTokenKey = "simplybook:token:public"
	adminTokenKey  = "simplybook:token:admin"
)

// SimplyBookAdapter implements SchedulingProvider for SimplyBook.me
type SimplyBookAdapter struct {
	client       *simplybook.Client
	apiKey       string
	userLogin    string
	userPassword string
	tokens       *tokenCache
}

// NewSimplyBookAdapter creates a new SimplyBook adapter. cache may be nil to disable token caching.
func NewSimplyBookAdapter(client *simplybook.Client, cfg *config.SimplyBookConfig, cache providers.CacheProvider) *SimplyBookAdapter {
	return &SimplyBookAdapter{
		client:       client,
		apiKey:       cfg.APIKey,
		userLogin:    cfg.UserLogin,
		userPassword: cfg.UserPassword,
		tokens:       newTokenCache(cache, cfg.TokenTTL),
	}
}

// AdminToken returns an administrative user token
func (a *SimplyBookAdapter) AdminToken(ctx context.Context) (string, error) {
	return a.tokens.get(ctx, adminTokenKey, func(ctx context.Context) (string, error) {
		return a.client.GetUserToken(ctx, a.userLogin, a.userPassword)
	})
}

func (a *SimplyBookAdapter) publicToken(ctx context.Context) (string, error) {
	return a.tokens.get(ctx, publicTokenKey, func(ctx context.Context) (string, error) {
		return a.client.GetToken(ctx, a.apiKey)
	})
}

func (a *SimplyBookAdapter) callPublic(ctx context.Context, method string, params []interface{}, result interface{}) error {
	token, err := a.publicToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire public token: %w", err)
	}
	err = a.client.CallPublic(ctx, token, method, params, result)
	if !isAuthError(err) {
		return err
	}

	a.tokens.invalidate(ctx, publicTokenKey)
	fresh, tokenErr := a.publicToken(ctx)
	if tokenErr != nil || fresh == token {
		a.tokens.invalidate(ctx, publicTokenKey)
		return err
	}
	err = a.client.CallPublic(ctx, fresh, method, params, result)
	if isAuthError(err) {
		a.tokens.invalidate(ctx, publicTokenKey)
	}
	return err
}

// callAdmin retries once with a current admin token when the given one is rejected.
// Callers hold a token for a whole booking sequence, so the cached one may already
// have been replaced by an earlier refresh.
func (a *SimplyBookAdapter) callAdmin(ctx context.Context, token, method string, params []interface{}, result interface{}) error {
	err := a.client.CallAdmin(ctx, token, method, params, result)
	if !isAuthError(err) {
		return err
	}

	current, tokenErr := a.AdminToken(ctx)
	if tokenErr == nil && current == token {
		a.tokens.invalidate(ctx, adminTokenKey)
		current, tokenErr = a.AdminToken(ctx)
	}
	if tokenErr != nil {
		observability.LoggerFromContext(ctx).Warn().Err(tokenErr).Str("method", method).Msg("Admin token refresh failed")
		return err
	}
	if current == token {
		a.tokens.invalidate(ctx, adminTokenKey)
		return err
	}

	observability.LoggerFromContext(ctx).Info().Str("method", method).Msg("Admin token rejected, retrying with a fresh token")
	err = a.client.CallAdmin(ctx, current, method, params, result)
	if isAuthError(err) {
		a.tokens.invalidate(ctx, adminTokenKey)
	}
	return err
}

// GetStartTimeMatrix returns theoretical start times per date for one unit
func (a *SimplyBookAdapter) GetStartTimeMatrix(ctx context.Context, dateFrom, dateTo, serviceID, unitID string) (entities.TimeMatrix, error) {
	var raw json.RawMessage
	params := []interface{}{dateFrom, dateTo, idParam(serviceID), idParam(unitID), 1}
	if err := a.callPublic(ctx, "getStartTimeMatrix", params, &raw); err != nil {
		return nil, err
	}

	var byDate map[string][]string
	if err := decodeDateMap(raw, &byDate); err != nil {
		return nil, fmt.Errorf("failed to decode start time matrix: %w", err)
	}

	matrix := make(entities.TimeMatrix, len(byDate))
	for date, times := range byDate {
		normalized := make([]string, 0, len(times))
		for _, t := range times {
			clock, err := entities.NormalizeClock(t)
			if err != nil {
				observability.LoggerFromContext(ctx).Debug().Str("date", date).Str("time", t).Msg("Skipping unparseable start time")
				continue
			}
			normalized = append(normalized, clock)
		}
		matrix[date] = normalized
	}
	return matrix, nil
}

type rawInterval struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type intervalGroup struct {
	ReservedTime  []rawInterval `json:"reserved_time"`
	NotWorkedTime []rawInterval `json:"not_worked_time"`
}

// GetReservedIntervals returns reserved and not-worked intervals per date for one unit
func (a *SimplyBookAdapter) GetReservedIntervals(ctx context.Context, dateFrom, dateTo, serviceID, unitID string) (entities.ReservedIntervals, error) {
	var raw json.RawMessage
	params := []interface{}{dateFrom, dateTo, idParam(serviceID), idParam(unitID), 1}
	if err := a.callPublic(ctx, "getReservedTimeIntervals", params, &raw); err != nil {
		return nil, err
	}

	var byDate map[string][]intervalGroup
	if err := decodeDateMap(raw, &byDate); err != nil {
		return nil, fmt.Errorf("failed to decode reserved intervals: %w", err)
	}

	out := make(entities.ReservedIntervals, len(byDate))
	for date, groups := range byDate {
		var intervals []entities.ReservedInterval
		for _, g := range groups {
			for _, r := range g.ReservedTime {
				intervals = append(intervals, entities.ReservedInterval{Date: date, From: r.From, To: r.To, Kind: entities.IntervalReserved})
			}
			for _, r := range g.NotWorkedTime {
				intervals = append(intervals, entities.ReservedInterval{Date: date, From: r.From, To: r.To, Kind: entities.IntervalNotWorked})
			}
		}
		out[date] = intervals
	}
	return out, nil
}

// AddClient creates a client record and returns its id
func (a *SimplyBookAdapter) AddClient(ctx context.Context, adminToken string, client entities.Client) (string, error) {
	clientData := map[string]string{
		"name":  client.Name,
		"email": client.Email,
		"phone": client.Phone,
	}
	var id flexibleID
	if err := a.callAdmin(ctx, adminToken, "addClient", []interface{}{clientData, false}, &id); err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("addClient returned no client id")
	}
	return string(id), nil
}

type rawBooking struct {
	ID            flexibleID `json:"id"`
	Code          string     `json:"code"`
	EventID       flexibleID `json:"event_id"`
	UnitID        flexibleID `json:"unit_id"`
	ClientID      flexibleID `json:"client_id"`
	ClientName    string     `json:"client"`
	StartDateTime string     `json:"start_date_time"`
	EndDateTime   string     `json:"end_date_time"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	Status        string     `json:"status"`
	IsConfirmed   flexibleID `json:"is_confirm"`
}

func (r rawBooking) toEntity() entities.Booking {
	start := r.StartDateTime
	if start == "" {
		start = r.StartDate
	}
	end := r.EndDateTime
	if end == "" {
		end = r.EndDate
	}
	status := r.Status
	if status == "" && r.IsConfirmed == "1" {
		status = "confirmed"
	}
	return entities.Booking{
		ID:            string(r.ID),
		Code:          r.Code,
		ServiceID:     string(r.EventID),
		UnitID:        string(r.UnitID),
		ClientID:      string(r.ClientID),
		ClientName:    r.ClientName,
		StartDateTime: start,
		EndDateTime:   end,
		Status:        status,
	}
}

// Book places a booking for an existing client
func (a *SimplyBookAdapter) Book(ctx context.Context, adminToken string, call entities.BookingCall) (*entities.Booking, error) {
	start, err := time.Parse(entities.StartTimeLayout, call.Date+" "+call.Time+":00")
	if err != nil {
		return nil, fmt.Errorf("invalid booking start: %w", err)
	}
	end := start.Add(time.Duration(call.Duration) * time.Minute)

	additional := map[string]string{}
	if call.Notes != "" {
		additional["notes"] = call.Notes
	}

	params := []interface{}{
		idParam(call.ServiceID),
		idParam(call.UnitID),
		idParam(call.ClientID),
		start.Format(entities.DateLayout),
		start.Format("15:04:05"),
		end.Format(entities.DateLayout),
		end.Format("15:04:05"),
		0,
		additional,
		1,
	}

	var result struct {
		RequireConfirm bool         `json:"require_confirm"`
		Bookings       []rawBooking `json:"bookings"`
	}
	if err := a.callAdmin(ctx, adminToken, "book", params, &result); err != nil {
		if isSlotTakenError(err) {
			return nil, fmt.Errorf("%w: %v", providers.ErrSlotUnavailable, err)
		}
		return nil, err
	}
	if len(result.Bookings) == 0 {
		return nil, fmt.Errorf("book returned no bookings")
	}

	booking := result.Bookings[0].toEntity()
	if booking.ID == "" {
		return nil, fmt.Errorf("book returned a booking without id")
	}
	return &booking, nil
}

// GetBooking returns one booking by id
func (a *SimplyBookAdapter) GetBooking(ctx context.Context, adminToken string, bookingID string) (*entities.Booking, error) {
	var raw rawBooking
	if err := a.callAdmin(ctx, adminToken, "getBooking", []interface{}{idParam(bookingID)}, &raw); err != nil {
		return nil, err
	}
	booking := raw.toEntity()
	if booking.ID == "" {
		booking.ID = bookingID
	}
	return &booking, nil
}

// ListBookings returns bookings matching the filter
func (a *SimplyBookAdapter) ListBookings(ctx context.Context, adminToken string, filter entities.BookingFilter) ([]entities.Booking, error) {
	params := map[string]interface{}{}
	if filter.DateFrom != "" {
		params["date_from"] = filter.DateFrom
	}
	if filter.DateTo != "" {
		params["date_to"] = filter.DateTo
	}
	if filter.UnitID != "" {
		params["unit_group_id"] = idParam(filter.UnitID)
	}

	var raw json.RawMessage
	if err := a.callAdmin(ctx, adminToken, "getBookingList", []interface{}{params}, &raw); err != nil {
		return nil, err
	}

	var list []rawBooking
	if err := json.Unmarshal(raw, &list); err != nil {
		var byID map[string]rawBooking
		if mapErr := decodeDateMap(raw, &byID); mapErr != nil {
			return nil, fmt.Errorf("failed to decode booking list: %w", err)
		}
		for _, b := range byID {
			list = append(list, b)
		}
	}

	out := make([]entities.Booking, 0, len(list))
	for _, b := range list {
		out = append(out, b.toEntity())
	}
	return out, nil
}

// GetCompanyInfo returns the public company profile
func (a *SimplyBookAdapter) GetCompanyInfo(ctx context.Context) (*entities.CompanyInfo, error) {
	var raw struct {
		Login       string `json:"login"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Address1    string `json:"address1"`
		City        string `json:"city"`
		Phone       string `json:"phone"`
		Email       string `json:"email"`
		Timezone    string `json:"timezone"`
	}
	if err := a.callPublic(ctx, "getCompanyInfo", nil, &raw); err != nil {
		return nil, err
	}
	login := raw.Login
	if login == "" {
		login = a.client.CompanyLogin()
	}
	return &entities.CompanyInfo{
		Login:       login,
		Name:        raw.Name,
		Description: raw.Description,
		Address:     raw.Address1,
		City:        raw.City,
		Phone:       raw.Phone,
		Email:       raw.Email,
		Timezone:    raw.Timezone,
	}, nil
}

// GetCompanyTimezoneOffset returns the company offset from UTC in seconds
func (a *SimplyBookAdapter) GetCompanyTimezoneOffset(ctx context.Context) (int, error) {
	var raw json.RawMessage
	if err := a.callPublic(ctx, "getCompanyTimezoneOffset", nil, &raw); err != nil {
		return 0, err
	}

	var offset flexibleID
	if err := json.Unmarshal(raw, &offset); err == nil && offset != "" {
		return strconv.Atoi(string(offset))
	}
	var wrapped struct {
		Offset flexibleID `json:"offset"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.Offset == "" {
		return 0, fmt.Errorf("unexpected timezone offset payload: %s", string(raw))
	}
	return strconv.Atoi(string(wrapped.Offset))
}

// isSlotTakenError reports whether a book error means the slot was taken by someone else.
// The API exposes no dedicated error code for this, so the message is matched. This is a
// fragile contract with a third-party error format; keep every match rule here.
func isSlotTakenError(err error) bool {
	var rpcErr *simplybook.RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	msg := strings.ToLower(rpcErr.Message)
	return strings.Contains(msg, "not available") || strings.Contains(msg, "is not free")
}

func isAuthError(err error) bool {
	var rpcErr *simplybook.RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	msg := strings.ToLower(rpcErr.Message)
	return strings.Contains(msg, "access denied") || strings.Contains(msg, "token")
}

// decodeDateMap decodes an object keyed by date or id. An empty JSON array decodes as an
// empty map since the API serializes empty objects that way.
func decodeDateMap(raw json.RawMessage, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("[]")) {
		trimmed = []byte("{}")
	}
	return json.Unmarshal(trimmed, out)
}

// idParam sends numeric ids as numbers and anything else unchanged.
func idParam(id string) interface{} {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return id
}

// flexibleID accepts ids the API returns either as strings or as numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %s", string(trimmed))
	}
	*f = flexibleID(n.String())
	return nil
}
