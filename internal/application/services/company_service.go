package services

import (
	"context"

	"github.com/zatekoja/coachlanding/internal/domain/entities"
	"github.com/zatekoja/coachlanding/internal/domain/providers"
	"github.com/zatekoja/coachlanding/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/coachlanding/pkg/errors"
)

// CompanyService exposes the public company profile
type CompanyService struct {
	provider providers.SchedulingProvider
}

// NewCompanyService creates a new company service
func NewCompanyService(provider providers.SchedulingProvider) *CompanyService {
	return &CompanyService{provider: provider}
}

// GetCompany returns the company profile with its UTC offset. A failed offset lookup leaves
// the offset at zero.
func (s *CompanyService) GetCompany(ctx context.Context) (*entities.CompanyInfo, error) {
	info, err := s.provider.GetCompanyInfo(ctx)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch company info", err)
	}

	offset, err := s.provider.GetCompanyTimezoneOffset(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to fetch company timezone offset")
		return info, nil
	}
	info.TimezoneOffset = offset
	return info, nil
}
