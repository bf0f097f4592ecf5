package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaseStatus indicates whether a lease account is currently occupied.
type LeaseStatus string

const (
	LeaseActive LeaseStatus = "ACTIVE"
	LeaseEnded  LeaseStatus = "ENDED"
)

// LeaseAccount represents one tenant's assignment to one unit, carrying the
// rent terms and the advance-rent state the allocation engine operates on.
//
// The advance-rent fields move together: Collect overwrites Months, Amount,
// CollectedDate and resets Used to zero, starting a new epoch. Within an
// epoch Used only grows, as allocation consumes the balance.
type LeaseAccount struct {
	LeaseAccountID string          `json:"leaseAccountID"`
	LandlordID     string          `json:"landlordID"`
	TenantID       string          `json:"tenantID"`
	UnitID         string          `json:"unitID"`
	MonthlyRent    decimal.Decimal `json:"monthlyRent"`
	CurrencyCode   string          `json:"currencyCode"`
	Status         LeaseStatus     `json:"status"`

	AdvanceRentMonths        int             `json:"advanceRentMonths"`
	AdvanceRentAmount        decimal.Decimal `json:"advanceRentAmount"`
	AdvanceRentUsed          decimal.Decimal `json:"advanceRentUsed"`
	AdvanceRentCollectedDate *time.Time      `json:"advanceRentCollectedDate,omitempty"`

	AuditFields
}

// AdvanceRentRemaining returns the unconsumed advance balance. It is always
// derived from Amount and Used, never stored, so it cannot drift.
func (a LeaseAccount) AdvanceRentRemaining() decimal.Decimal {
	remaining := a.AdvanceRentAmount.Sub(a.AdvanceRentUsed)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
