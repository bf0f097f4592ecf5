package services

import (
	"context"
	"time"

	"github.com/leasepay/lease_management_app/internal/dto"
)

// InvoiceGeneratorSvc creates the current period's invoices for one landlord.
type InvoiceGeneratorSvc interface {
	// GenerateForLandlord idempotently creates one invoice per active lease
	// account for the given invoice date (defaulting to the first of the
	// current month when nil) and immediately applies any advance balance.
	// Per-account validation failures are recorded in the result, not raised.
	GenerateForLandlord(ctx context.Context, landlordID string, invoiceDate *time.Time) (*dto.GenerationResult, error)
}

// InvoiceReaderSvc defines read operations over invoices.
type InvoiceReaderSvc interface {
	GetInvoiceByID(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error)
	ListInvoicesByLeaseAccount(ctx context.Context, leaseAccountID string, limit int, nextToken *string) ([]dto.InvoiceResponse, *string, error)
}

// InvoiceSvcFacade combines the invoice operations exposed to handlers.
type InvoiceSvcFacade interface {
	InvoiceGeneratorSvc
	InvoiceReaderSvc

	// MarkInvoicePaid records an external payment against an invoice. An
	// invoice already paid (by any mechanism) is left untouched.
	MarkInvoicePaid(ctx context.Context, invoiceID string, req dto.MarkInvoicePaidRequest) (*dto.InvoiceResponse, error)
}

// SchedulerSvcFacade fans invoice generation out across landlords.
type SchedulerSvcFacade interface {
	// GenerateForAllEnabled runs GenerateForLandlord for every landlord whose
	// auto-invoice settings are enabled and whose configured day of month
	// (clamped to the current month's length) matches today, recording each
	// landlord's run status as a best-effort side effect.
	GenerateForAllEnabled(ctx context.Context, invoiceDate *time.Time) (*dto.BatchGenerationResult, error)
}
