package dto

import (
	"time"

	"github.com/leasepay/lease_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceResponse defines the data returned for an invoice.
// Mirrors domain.Invoice.
type InvoiceResponse struct {
	InvoiceID          string                `json:"invoiceID"`
	LeaseAccountID     string                `json:"leaseAccountID"`
	LandlordID         string                `json:"landlordID"`
	InvoiceNumber      string                `json:"invoiceNumber"`
	InvoiceDate        time.Time             `json:"invoiceDate"`
	DueDate            time.Time             `json:"dueDate"`
	RentAmount         decimal.Decimal       `json:"rentAmount"`
	LateFee            decimal.Decimal       `json:"lateFee"`
	CurrencyCode       string                `json:"currencyCode"`
	Status             domain.InvoiceStatus  `json:"status"`
	PaidDate           *time.Time            `json:"paidDate,omitempty"`
	PaymentMethod      *domain.PaymentMethod `json:"paymentMethod,omitempty"`
	AdvanceRentApplied decimal.Decimal       `json:"advanceRentApplied"`
	IsAdvanceCovered   bool                  `json:"isAdvanceCovered"`
	CreatedAt          time.Time             `json:"createdAt"`
}

// MarkInvoicePaidRequest records an external payment against an invoice.
type MarkInvoicePaidRequest struct {
	PaidDate      time.Time `json:"paidDate" binding:"required"`
	PaymentMethod string    `json:"paymentMethod" binding:"required,oneof=CASH BANK_TRANSFER MOBILE_MONEY"`
	UserID        string    `json:"userID"`
}

// CreatedInvoiceDetail is a snapshot of an invoice created by a generation run.
type CreatedInvoiceDetail struct {
	InvoiceID          string          `json:"invoiceID"`
	InvoiceNumber      string          `json:"invoiceNumber"`
	LeaseAccountID     string          `json:"leaseAccountID"`
	UnitID             string          `json:"unitID"`
	InvoiceDate        time.Time       `json:"invoiceDate"`
	DueDate            time.Time       `json:"dueDate"`
	RentAmount         decimal.Decimal `json:"rentAmount"`
	AdvanceRentApplied decimal.Decimal `json:"advanceRentApplied"`
	Status             string          `json:"status"`
}

// SkippedInvoiceDetail records a lease account the generator intentionally
// passed over, typically because the period's invoice already exists.
type SkippedInvoiceDetail struct {
	LeaseAccountID string `json:"leaseAccountID"`
	UnitID         string `json:"unitID"`
	Reason         string `json:"reason"`
}

// FailedInvoiceDetail records a lease account the generator could not invoice.
type FailedInvoiceDetail struct {
	LeaseAccountID string `json:"leaseAccountID"`
	UnitID         string `json:"unitID"`
	Reason         string `json:"reason"`
}

// GenerationResult aggregates one landlord's invoice-generation run.
type GenerationResult struct {
	LandlordID   string                 `json:"landlordID"`
	InvoiceDate  time.Time              `json:"invoiceDate"`
	CreatedCount int                    `json:"createdCount"`
	SkippedCount int                    `json:"skippedCount"`
	FailedCount  int                    `json:"failedCount"`
	Created      []CreatedInvoiceDetail `json:"created"`
	Skipped      []SkippedInvoiceDetail `json:"skipped"`
	Failed       []FailedInvoiceDetail  `json:"failed"`
	Message      string                 `json:"message"`
}

// LandlordRunResult is one landlord's outcome within a batch run.
type LandlordRunResult struct {
	LandlordID string            `json:"landlordID"`
	Status     domain.RunStatus  `json:"status"`
	Message    string            `json:"message"`
	Result     *GenerationResult `json:"result,omitempty"`
}

// BatchGenerationResult aggregates a run across all enabled landlords.
type BatchGenerationResult struct {
	TotalLandlords int                 `json:"totalLandlords"`
	Processed      int                 `json:"processed"`
	Succeeded      int                 `json:"succeeded"`
	Failed         int                 `json:"failed"`
	InvoiceDate    time.Time           `json:"invoiceDate"`
	Results        []LandlordRunResult `json:"results"`
}

// ToInvoiceResponse converts a domain.Invoice to an InvoiceResponse DTO
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:          inv.InvoiceID,
		LeaseAccountID:     inv.LeaseAccountID,
		LandlordID:         inv.LandlordID,
		InvoiceNumber:      inv.InvoiceNumber,
		InvoiceDate:        inv.InvoiceDate,
		DueDate:            inv.DueDate,
		RentAmount:         inv.RentAmount,
		LateFee:            inv.LateFee,
		CurrencyCode:       inv.CurrencyCode,
		Status:             inv.Status,
		PaidDate:           inv.PaidDate,
		PaymentMethod:      inv.PaymentMethod,
		AdvanceRentApplied: inv.AdvanceRentApplied,
		IsAdvanceCovered:   inv.IsAdvanceCovered,
		CreatedAt:          inv.CreatedAt,
	}
}

// ToListInvoiceResponse converts a slice of domain.Invoice to response DTOs
func ToListInvoiceResponse(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		res[i] = ToInvoiceResponse(&inv)
	}
	return res
}
