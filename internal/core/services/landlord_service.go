package services

import (
	"context"

	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/dto"
)

// landlordService exposes landlord configuration reads. The scheduler writes
// the last-run fields; this is how operators see them.
type landlordService struct {
	BaseService
	landlordRepo portsrepo.LandlordRepositoryFacade
}

// NewLandlordService creates a new LandlordService.
func NewLandlordService(landlordRepo portsrepo.LandlordRepositoryFacade) portssvc.LandlordSvcFacade {
	return &landlordService{landlordRepo: landlordRepo}
}

var _ portssvc.LandlordSvcFacade = (*landlordService)(nil)

// GetLandlordByID retrieves one landlord with its auto-invoice settings.
func (s *landlordService) GetLandlordByID(ctx context.Context, landlordID string) (*dto.LandlordResponse, error) {
	landlord, err := s.landlordRepo.FindLandlordByID(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLandlordResponse(landlord)
	return &resp, nil
}

// ListLandlords retrieves all landlords.
func (s *landlordService) ListLandlords(ctx context.Context) ([]dto.LandlordResponse, error) {
	landlords, err := s.landlordRepo.ListLandlords(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToListLandlordResponse(landlords), nil
}
