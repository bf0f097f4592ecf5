package services

import (
	"context"

	"github.com/leasepay/lease_management_app/internal/dto"
)

// LeaseAccountSvcFacade manages tenant-to-unit assignments.
type LeaseAccountSvcFacade interface {
	CreateLeaseAccount(ctx context.Context, landlordID string, req dto.CreateLeaseAccountRequest) (*dto.LeaseAccountResponse, error)
	GetLeaseAccountByID(ctx context.Context, leaseAccountID string) (*dto.LeaseAccountResponse, error)
	ListLeaseAccountsByLandlord(ctx context.Context, landlordID string, activeOnly bool) ([]dto.LeaseAccountResponse, error)
}

// LedgerSvcFacade exposes reporting reads over the append-only ledger.
type LedgerSvcFacade interface {
	ListLedgerEntriesByLandlord(ctx context.Context, landlordID string, limit int, nextToken *string) (*dto.ListLedgerEntriesResponse, error)
}

// LandlordSvcFacade exposes landlord configuration reads, including the
// last automated generation run's outcome.
type LandlordSvcFacade interface {
	GetLandlordByID(ctx context.Context, landlordID string) (*dto.LandlordResponse, error)
	ListLandlords(ctx context.Context) ([]dto.LandlordResponse, error)
}
