package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/leasepay/lease_management_app/internal/core/domain"
	"github.com/leasepay/lease_management_app/internal/dto"
)

// AdvanceRentReaderSvc defines read-only coverage queries.
type AdvanceRentReaderSvc interface {
	// CheckCoverage reports whether the lease account's advance balance covers
	// the given invoice date, without mutating anything.
	CheckCoverage(ctx context.Context, leaseAccountID string, invoiceDate time.Time) (*dto.CoverageResponse, error)
}

// AdvanceRentApplierSvc is the narrow surface the invoice generator needs:
// applying the advance balance to one invoice inside an already-open
// transaction so creation and allocation commit together.
type AdvanceRentApplierSvc interface {
	// ApplyToInvoiceInTx applies as much of the account's remaining advance
	// balance as the invoice needs, mutating and persisting both rows within
	// tx. A no-op (not covered, or balance exhausted) returns a zero result
	// and no error.
	ApplyToInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice, account *domain.LeaseAccount, userID string) (dto.ApplicationResult, error)
}

// AdvanceRentSvcFacade combines all advance-rent operations exposed to
// handlers and jobs.
type AdvanceRentSvcFacade interface {
	AdvanceRentReaderSvc
	AdvanceRentApplierSvc

	// ApplyToInvoice applies the advance balance to a single invoice within
	// its own transaction.
	ApplyToInvoice(ctx context.Context, invoiceID string, userID string) (*dto.ApplicationResult, error)

	// RetroactivelyApply drains the account's current balance across all
	// eligible, not-yet-covered invoices in chronological order, atomically.
	RetroactivelyApply(ctx context.Context, leaseAccountID string, userID string) (*dto.RetroactiveResult, error)

	// Collect records a new advance-rent collection, resetting the account's
	// usage epoch and appending a ledger entry in one transaction.
	Collect(ctx context.Context, leaseAccountID string, req dto.CollectAdvanceRentRequest) (*domain.LeaseAccount, *domain.LedgerEntry, error)
}
