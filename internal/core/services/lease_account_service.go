package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leasepay/lease_management_app/internal/apperrors"
	"github.com/leasepay/lease_management_app/internal/core/domain"
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/dto"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency code")

// leaseAccountService manages tenant-to-unit assignments.
type leaseAccountService struct {
	BaseService
	leaseRepo portsrepo.LeaseAccountRepositoryWithTx

	now func() time.Time
}

// NewLeaseAccountService creates a new LeaseAccountService.
func NewLeaseAccountService(leaseRepo portsrepo.LeaseAccountRepositoryWithTx) portssvc.LeaseAccountSvcFacade {
	return &leaseAccountService{
		leaseRepo: leaseRepo,
		now:       time.Now,
	}
}

var _ portssvc.LeaseAccountSvcFacade = (*leaseAccountService)(nil)

// CreateLeaseAccount assigns a tenant to a unit with the given rent terms.
// The advance-rent state starts empty; Collect sets it later.
func (s *leaseAccountService) CreateLeaseAccount(ctx context.Context, landlordID string, req dto.CreateLeaseAccountRequest) (*dto.LeaseAccountResponse, error) {
	if req.MonthlyRent.IsNegative() {
		return nil, apperrors.ErrValidation
	}
	if !domain.IsSupportedCurrency(req.CurrencyCode) {
		return nil, ErrUnsupportedCurrency
	}

	now := s.now()
	account := domain.LeaseAccount{
		LeaseAccountID:    uuid.NewString(),
		LandlordID:        landlordID,
		TenantID:          req.TenantID,
		UnitID:            req.UnitID,
		MonthlyRent:       req.MonthlyRent,
		CurrencyCode:      domain.NormalizeCurrencyCode(req.CurrencyCode, ""),
		Status:            domain.LeaseActive,
		AdvanceRentAmount: decimal.Zero,
		AdvanceRentUsed:   decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: req.UserID,
		},
	}

	if err := s.leaseRepo.SaveLeaseAccount(ctx, account); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Lease account created",
		slog.String("lease_account_id", account.LeaseAccountID),
		slog.String("landlord_id", landlordID),
		slog.String("unit_id", req.UnitID),
	)
	resp := dto.ToLeaseAccountResponse(&account)
	return &resp, nil
}

// GetLeaseAccountByID retrieves one lease account.
func (s *leaseAccountService) GetLeaseAccountByID(ctx context.Context, leaseAccountID string) (*dto.LeaseAccountResponse, error) {
	account, err := s.leaseRepo.FindLeaseAccountByID(ctx, leaseAccountID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLeaseAccountResponse(account)
	return &resp, nil
}

// ListLeaseAccountsByLandlord retrieves a landlord's lease accounts.
func (s *leaseAccountService) ListLeaseAccountsByLandlord(ctx context.Context, landlordID string, activeOnly bool) ([]dto.LeaseAccountResponse, error) {
	var status *domain.LeaseStatus
	if activeOnly {
		active := domain.LeaseActive
		status = &active
	}
	accounts, err := s.leaseRepo.ListLeaseAccountsByLandlord(ctx, landlordID, status)
	if err != nil {
		return nil, err
	}
	return dto.ToListLeaseAccountResponse(accounts), nil
}
