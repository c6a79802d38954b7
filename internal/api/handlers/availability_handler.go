package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
)

// AvailabilityService defines the interface for slot lookups
type AvailabilityService interface {
	GetAvailableSlots(ctx context.Context, dateFrom, dateTo, serviceID string) ([]entities.AvailableSlot, error)
}

// AvailabilityHandler handles availability requests
type AvailabilityHandler struct {
	service AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(service AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
	}
}

// GetAvailability handles GET /api/availability?start_date=&end_date=&service_id=
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	startDate := query.Get("start_date")
	endDate := query.Get("end_date")
	if startDate == "" {
		respondWithError(w, http.StatusBadRequest, "start_date query parameter is required")
		return
	}
	if endDate == "" {
		endDate = startDate
	}

	slots, err := h.service.GetAvailableSlots(r.Context(), startDate, endDate, query.Get("service_id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if slots == nil {
		slots = []entities.AvailableSlot{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"result": slots,
	})
}
