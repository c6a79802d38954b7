package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/zatekoja/coachlanding/internal/api/middleware"
	"github.com/zatekoja/coachlanding/internal/domain/entities"
)

// ConversionService defines the interface for conversion reporting
type ConversionService interface {
	SendEvent(ctx context.Context, event entities.ConversionEvent) (*entities.EventRecord, error)
	SendTestEvent(ctx context.Context, event entities.ConversionEvent) (*entities.EventRecord, error)
	Status(ctx context.Context, limit int) (*entities.ConversionStatus, error)
}

// ConversionHandler handles conversion reporting requests
type ConversionHandler struct {
	service ConversionService
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(service ConversionService) *ConversionHandler {
	return &ConversionHandler{service: service}
}

// SendEvent handles POST /api/conversions
func (h *ConversionHandler) SendEvent(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, h.service.SendEvent)
}

// SendTestEvent handles POST /api/conversions/test
func (h *ConversionHandler) SendTestEvent(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, h.service.SendTestEvent)
}

func (h *ConversionHandler) send(w http.ResponseWriter, r *http.Request, fn func(context.Context, entities.ConversionEvent) (*entities.EventRecord, error)) {
	var event entities.ConversionEvent
	if err := decodeAndValidate(w, r, &event); err != nil {
		respondWithAppError(w, err)
		return
	}

	// Filled in server-side when the browser omits them.
	if event.UserData.ClientIP == "" {
		event.UserData.ClientIP = middleware.ClientIP(r)
	}
	if event.UserData.UserAgent == "" {
		event.UserData.UserAgent = r.UserAgent()
	}

	record, err := fn(r.Context(), event)
	if err != nil {
		if record == nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
			"success": false,
			"event":   record,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"event":   record,
	})
}

// GetStatus handles GET /api/conversions/status?limit=
func (h *ConversionHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	status, err := h.service.Status(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}
