package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
)

// CompanyService defines the interface for the company profile
type CompanyService interface {
	GetCompany(ctx context.Context) (*entities.CompanyInfo, error)
}

// CompanyHandler handles company profile requests
type CompanyHandler struct {
	service CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(service CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// GetCompany handles GET /api/company
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.GetCompany(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, info)
}
