package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/leasepay/lease_management_app/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves a specific invoice by its unique identifier.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceByIDForUpdate retrieves an invoice and locks its row within
	// the given transaction.
	FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceForPeriodInTx retrieves the invoice for a lease account and
	// invoice date, or nil when none exists. This is the idempotency guard
	// used by the generator, so it runs inside the generation transaction.
	FindInvoiceForPeriodInTx(ctx context.Context, tx pgx.Tx, leaseAccountID string, invoiceDate time.Time) (*domain.Invoice, error)

	// FindInvoicesInPeriodForUpdate retrieves all non-cancelled invoices for a
	// lease account with invoice_date in [start, end), locked for update and
	// ordered by (invoice_date, invoice_id) ascending. The ordering is
	// enforced by the query because it is load-bearing for allocation
	// correctness: money goes to the earliest obligation first.
	FindInvoicesInPeriodForUpdate(ctx context.Context, tx pgx.Tx, leaseAccountID string, start, end time.Time) ([]domain.Invoice, error)

	// ListInvoicesByLeaseAccount retrieves a paginated list of invoices for a
	// lease account using token-based pagination, newest first.
	ListInvoicesByLeaseAccount(ctx context.Context, leaseAccountID string, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoiceInTx persists a new invoice within the given transaction.
	SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error

	// UpdateAllocationInTx persists the advance-rent allocation fields
	// (applied amount, covered flag, status, paid date, payment method)
	// within the given transaction.
	UpdateAllocationInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error

	// MarkInvoicePaid records an external payment against an invoice. It must
	// not overwrite an invoice already marked paid.
	MarkInvoicePaid(ctx context.Context, invoiceID string, paidDate time.Time, method domain.PaymentMethod, updatedBy string, updatedAt time.Time) error
}

// InvoiceRepositoryFacade combines all invoice repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// InvoiceRepositoryWithTx extends the facade with transaction capabilities
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
