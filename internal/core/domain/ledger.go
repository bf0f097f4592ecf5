package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryType is the top-level classification of a monetary event.
type LedgerEntryType string

const (
	LedgerRent    LedgerEntryType = "RENT"
	LedgerExpense LedgerEntryType = "EXPENSE"
	LedgerDeposit LedgerEntryType = "DEPOSIT"
)

// LedgerCategory refines the entry type for reporting.
type LedgerCategory string

const (
	CategoryMonthlyRent     LedgerCategory = "MONTHLY_RENT"
	CategoryLateFee         LedgerCategory = "LATE_FEE"
	CategorySecurityDeposit LedgerCategory = "SECURITY_DEPOSIT"
)

// LedgerEntryStatus indicates whether the underlying payment settled.
type LedgerEntryStatus string

const (
	LedgerCompleted LedgerEntryStatus = "COMPLETED"
	LedgerPending   LedgerEntryStatus = "PENDING"
)

// LedgerEntry is an append-only monetary event. The allocation engine writes
// entries but never reads or mutates them; reporting reads them.
type LedgerEntry struct {
	LedgerEntryID   string            `json:"ledgerEntryID"`
	LandlordID      string            `json:"landlordID"`
	LeaseAccountID  *string           `json:"leaseAccountID,omitempty"`
	Type            LedgerEntryType   `json:"type"`
	Category        LedgerCategory    `json:"category"`
	Amount          decimal.Decimal   `json:"amount"`
	CurrencyCode    string            `json:"currencyCode"`
	Description     string            `json:"description"`
	TransactionDate time.Time         `json:"transactionDate"`
	PaidDate        time.Time         `json:"paidDate"`
	PaymentMethod   PaymentMethod     `json:"paymentMethod"`
	ReferenceNumber string            `json:"referenceNumber"`
	Status          LedgerEntryStatus `json:"status"`

	AuditFields
}
