package services

import (
	"context"

	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/dto"
)

// ledgerService exposes reporting reads over the append-only ledger. The
// allocation engine only ever writes entries; this is the read side.
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ListLedgerEntriesByLandlord retrieves a page of ledger entries.
func (s *ledgerService) ListLedgerEntriesByLandlord(ctx context.Context, landlordID string, limit int, nextToken *string) (*dto.ListLedgerEntriesResponse, error) {
	entries, token, err := s.ledgerRepo.ListLedgerEntriesByLandlord(ctx, landlordID, limit, nextToken)
	if err != nil {
		return nil, err
	}
	resp := dto.ToListLedgerEntriesResponse(entries, token)
	return &resp, nil
}
