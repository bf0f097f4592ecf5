package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceGenerated InvoiceStatus = "GENERATED"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// PaymentMethod records how an invoice was settled.
type PaymentMethod string

const (
	PaymentAdvanceRent  PaymentMethod = "ADVANCE_RENT"
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMobileMoney  PaymentMethod = "MOBILE_MONEY"
)

// Invoice represents one billing period's rent obligation for a lease account.
//
// AdvanceRentApplied is cumulative across allocation runs and never exceeds
// TotalDue. IsAdvanceCovered flips once the applied amount reaches the total
// due within tolerance.
type Invoice struct {
	InvoiceID      string `json:"invoiceID"`
	LeaseAccountID string `json:"leaseAccountID"`
	LandlordID     string `json:"landlordID"`
	InvoiceNumber  string `json:"invoiceNumber"` // unique per lease account + invoice date

	InvoiceDate  time.Time       `json:"invoiceDate"`
	DueDate      time.Time       `json:"dueDate"`
	RentAmount   decimal.Decimal `json:"rentAmount"`
	LateFee      decimal.Decimal `json:"lateFee"`
	CurrencyCode string          `json:"currencyCode"`

	Status        InvoiceStatus  `json:"status"`
	PaidDate      *time.Time     `json:"paidDate,omitempty"`
	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty"`

	AdvanceRentApplied decimal.Decimal `json:"advanceRentApplied"`
	IsAdvanceCovered   bool            `json:"isAdvanceCovered"`

	AuditFields
}

// TotalDue is the full obligation for the period, rent plus any late fee.
func (i Invoice) TotalDue() decimal.Decimal {
	return i.RentAmount.Add(i.LateFee)
}
