package dto

import (
	"time"

	"github.com/leasepay/lease_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CollectAdvanceRentRequest defines the data needed to record an advance-rent
// collection against a lease account. Collecting starts a new epoch: the
// account's previous usage is reset.
type CollectAdvanceRentRequest struct {
	Months          int             `json:"months" binding:"required,gt=0"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	TransactionDate time.Time       `json:"transactionDate" binding:"required"`
	CurrencyCode    string          `json:"currencyCode" binding:"omitempty,currency"` // Optional, defaults to the lease's currency
	PaymentMethod   string          `json:"paymentMethod"`
	ReferenceNumber string          `json:"referenceNumber"`
	Notes           string          `json:"notes"`
	UserID          string          `json:"userID"` // needed for audit fields
}

// CollectAdvanceRentResponse returns the updated account and the ledger entry
// recorded for the collection.
type CollectAdvanceRentResponse struct {
	LeaseAccount LeaseAccountResponse `json:"leaseAccount"`
	LedgerEntry  LedgerEntryResponse  `json:"ledgerEntry"`
}

// CoverageResponse mirrors domain.Coverage for API consumers.
type CoverageResponse struct {
	Covered         bool            `json:"covered"`
	Remaining       decimal.Decimal `json:"remaining"`
	MonthsRemaining int             `json:"monthsRemaining"`
	CanFullyCover   bool            `json:"canFullyCover"`
	PeriodStart     *time.Time      `json:"periodStart,omitempty"`
	PeriodEnd       *time.Time      `json:"periodEnd,omitempty"`
}

// ApplicationResult is the outcome of applying advance balance to a single
// invoice.
type ApplicationResult struct {
	Applied      decimal.Decimal `json:"applied"`
	FullyCovered bool            `json:"fullyCovered"`
}

// RetroactiveInvoiceDetail records what one invoice received during a
// retroactive allocation run.
type RetroactiveInvoiceDetail struct {
	InvoiceID     string          `json:"invoiceID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	Applied       decimal.Decimal `json:"applied"`      // amount applied by this run
	TotalApplied  decimal.Decimal `json:"totalApplied"` // cumulative across runs
	FullyCovered  bool            `json:"fullyCovered"`
}

// RetroactiveResult aggregates a retroactive allocation run.
type RetroactiveResult struct {
	ProcessedCount int                        `json:"processedCount"`
	TotalApplied   decimal.Decimal            `json:"totalApplied"`
	Details        []RetroactiveInvoiceDetail `json:"details"`
}

// ToCoverageResponse converts a domain coverage check plus its period into a
// CoverageResponse DTO.
func ToCoverageResponse(cov domain.Coverage, period *domain.CoveragePeriod) CoverageResponse {
	resp := CoverageResponse{
		Covered:         cov.Covered,
		Remaining:       cov.Remaining,
		MonthsRemaining: cov.MonthsRemaining,
		CanFullyCover:   cov.CanFullyCover,
	}
	if period != nil {
		resp.PeriodStart = &period.Start
		resp.PeriodEnd = &period.End
	}
	return resp
}
