package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus mirrors the domain invoice states at the storage layer.
type InvoiceStatus string

const (
	InvoiceGenerated InvoiceStatus = "GENERATED"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Invoice represents a row of the invoices table.
// (lease_account_id, invoice_date) carries a unique constraint; it backs the
// generator's idempotency guard.
type Invoice struct {
	InvoiceID      string `db:"invoice_id"`
	LeaseAccountID string `db:"lease_account_id"`
	LandlordID     string `db:"landlord_id"`
	InvoiceNumber  string `db:"invoice_number"`

	InvoiceDate  time.Time       `db:"invoice_date"`
	DueDate      time.Time       `db:"due_date"`
	RentAmount   decimal.Decimal `db:"rent_amount"`
	LateFee      decimal.Decimal `db:"late_fee"`
	CurrencyCode string          `db:"currency_code"`

	Status        InvoiceStatus `db:"status"`
	PaidDate      *time.Time    `db:"paid_date"`      // Nullable
	PaymentMethod *string       `db:"payment_method"` // Nullable

	AdvanceRentApplied decimal.Decimal `db:"advance_rent_applied"`
	IsAdvanceCovered   bool            `db:"is_advance_covered"`

	AuditFields
}
