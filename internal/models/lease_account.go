package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaseStatus mirrors the domain lease lifecycle states at the storage layer.
type LeaseStatus string

const (
	LeaseActive LeaseStatus = "ACTIVE"
	LeaseEnded  LeaseStatus = "ENDED"
)

// LeaseAccount represents a row of the lease_accounts table.
// advance_rent_remaining is intentionally not a column; it is always derived
// from advance_rent_amount and advance_rent_used.
type LeaseAccount struct {
	LeaseAccountID string          `db:"lease_account_id"`
	LandlordID     string          `db:"landlord_id"`
	TenantID       string          `db:"tenant_id"`
	UnitID         string          `db:"unit_id"`
	MonthlyRent    decimal.Decimal `db:"monthly_rent"`
	CurrencyCode   string          `db:"currency_code"`
	Status         LeaseStatus     `db:"status"`

	AdvanceRentMonths        int             `db:"advance_rent_months"`
	AdvanceRentAmount        decimal.Decimal `db:"advance_rent_amount"`
	AdvanceRentUsed          decimal.Decimal `db:"advance_rent_used"`
	AdvanceRentCollectedDate *time.Time      `db:"advance_rent_collected_date"` // Nullable

	AuditFields
}
