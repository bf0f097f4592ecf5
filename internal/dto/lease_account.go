package dto

import (
	"time"

	"github.com/leasepay/lease_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLeaseAccountRequest defines the data needed to assign a tenant to a unit.
type CreateLeaseAccountRequest struct {
	TenantID     string          `json:"tenantID" binding:"required"`
	UnitID       string          `json:"unitID" binding:"required"`
	MonthlyRent  decimal.Decimal `json:"monthlyRent" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,currency"`
	UserID       string          `json:"userID"` // needed for audit fields
}

// LeaseAccountResponse defines the data returned for a lease account.
// Mirrors domain.LeaseAccount, with the derived remaining balance included.
type LeaseAccountResponse struct {
	LeaseAccountID           string             `json:"leaseAccountID"`
	LandlordID               string             `json:"landlordID"`
	TenantID                 string             `json:"tenantID"`
	UnitID                   string             `json:"unitID"`
	MonthlyRent              decimal.Decimal    `json:"monthlyRent"`
	CurrencyCode             string             `json:"currencyCode"`
	Status                   domain.LeaseStatus `json:"status"`
	AdvanceRentMonths        int                `json:"advanceRentMonths"`
	AdvanceRentAmount        decimal.Decimal    `json:"advanceRentAmount"`
	AdvanceRentUsed          decimal.Decimal    `json:"advanceRentUsed"`
	AdvanceRentRemaining     decimal.Decimal    `json:"advanceRentRemaining"`
	AdvanceRentCollectedDate *time.Time         `json:"advanceRentCollectedDate,omitempty"`
	CreatedAt                time.Time          `json:"createdAt"`
}

// ToLeaseAccountResponse converts a domain.LeaseAccount to a response DTO
func ToLeaseAccountResponse(acc *domain.LeaseAccount) LeaseAccountResponse {
	return LeaseAccountResponse{
		LeaseAccountID:           acc.LeaseAccountID,
		LandlordID:               acc.LandlordID,
		TenantID:                 acc.TenantID,
		UnitID:                   acc.UnitID,
		MonthlyRent:              acc.MonthlyRent,
		CurrencyCode:             acc.CurrencyCode,
		Status:                   acc.Status,
		AdvanceRentMonths:        acc.AdvanceRentMonths,
		AdvanceRentAmount:        acc.AdvanceRentAmount,
		AdvanceRentUsed:          acc.AdvanceRentUsed,
		AdvanceRentRemaining:     acc.AdvanceRentRemaining(),
		AdvanceRentCollectedDate: acc.AdvanceRentCollectedDate,
		CreatedAt:                acc.CreatedAt,
	}
}

// ToListLeaseAccountResponse converts a slice of domain.LeaseAccount to DTOs
func ToListLeaseAccountResponse(accounts []domain.LeaseAccount) []LeaseAccountResponse {
	res := make([]LeaseAccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToLeaseAccountResponse(&acc)
	}
	return res
}
