package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
	apperrors "github.com/zatekoja/coachlanding/pkg/errors"
)

// BookingService defines the interface for booking operations
type BookingService interface {
	Book(ctx context.Context, req entities.BookingRequest) (*entities.BookingResult, error)
	GetBooking(ctx context.Context, bookingID string) (*entities.Booking, error)
	ListBookings(ctx context.Context, filter entities.BookingFilter) ([]entities.Booking, error)
}

// BookingHandler handles booking requests
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{
		service: service,
	}
}

// Book handles POST /api/book
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithAppError(w, err)
		return
	}

	result, err := h.service.Book(r.Context(), req)
	if err != nil {
		if result == nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, apperrors.StatusCode(err), result)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	booking, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// ListBookings handles GET /api/bookings?date_from=&date_to=&unit_id=
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := entities.BookingFilter{
		DateFrom: query.Get("date_from"),
		DateTo:   query.Get("date_to"),
		UnitID:   query.Get("unit_id"),
	}

	bookings, err := h.service.ListBookings(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if bookings == nil {
		bookings = []entities.Booking{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}
