package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leasepay/lease_management_app/internal/apperrors"
	"github.com/leasepay/lease_management_app/internal/core/domain"
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	"github.com/leasepay/lease_management_app/internal/models"
	"github.com/leasepay/lease_management_app/internal/utils/mapping"
	"github.com/leasepay/lease_management_app/internal/utils/pagination"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryWithTx
var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `
	invoice_id, lease_account_id, landlord_id, invoice_number, invoice_date, due_date,
	rent_amount, late_fee, currency_code, status, paid_date, payment_method,
	advance_rent_applied, is_advance_covered,
	created_at, created_by, last_updated_at, last_updated_by
`

// scanInvoice scans one invoice row in column order.
func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.LeaseAccountID,
		&m.LandlordID,
		&m.InvoiceNumber,
		&m.InvoiceDate,
		&m.DueDate,
		&m.RentAmount,
		&m.LateFee,
		&m.CurrencyCode,
		&m.Status,
		&m.PaidDate,
		&m.PaymentMethod,
		&m.AdvanceRentApplied,
		&m.IsAdvanceCovered,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}
	invoice := mapping.ToDomainInvoice(m)
	return &invoice, nil
}

// SaveInvoiceInTx inserts a new invoice within the given transaction.
func (r *PgxInvoiceRepository) SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	query := `
		INSERT INTO invoices (
			invoice_id, lease_account_id, landlord_id, invoice_number, invoice_date, due_date,
			rent_amount, late_fee, currency_code, status, paid_date, payment_method,
			advance_rent_applied, is_advance_covered,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, query,
		m.InvoiceID,
		m.LeaseAccountID,
		m.LandlordID,
		m.InvoiceNumber,
		m.InvoiceDate,
		m.DueDate,
		m.RentAmount,
		m.LateFee,
		m.CurrencyCode,
		m.Status,
		m.PaidDate,
		m.PaymentMethod,
		m.AdvanceRentApplied,
		m.IsAdvanceCovered,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: invoice for lease account %s on %s already exists",
				apperrors.ErrDuplicate, m.LeaseAccountID, m.InvoiceDate.Format("2006-01-02"))
		}
		return fmt.Errorf("failed to save invoice %s: %w", m.InvoiceID, err)
	}
	return nil
}

// FindInvoiceByID retrieves an invoice by its ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	return scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
}

// FindInvoiceByIDForUpdate retrieves an invoice and locks its row within the
// given transaction.
func (r *PgxInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`
	return scanInvoice(tx.QueryRow(ctx, query, invoiceID))
}

// FindInvoiceForPeriodInTx retrieves the invoice for a lease account and
// invoice date, or nil when none exists.
func (r *PgxInvoiceRepository) FindInvoiceForPeriodInTx(ctx context.Context, tx pgx.Tx, leaseAccountID string, invoiceDate time.Time) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE lease_account_id = $1 AND invoice_date = $2;`
	invoice, err := scanInvoice(tx.QueryRow(ctx, query, leaseAccountID, invoiceDate))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return invoice, nil
}

// FindInvoicesInPeriodForUpdate retrieves all non-cancelled invoices for a
// lease account inside [start, end), locked for update. The ordering by
// (invoice_date, invoice_id) is part of the contract: retroactive allocation
// depends on it.
func (r *PgxInvoiceRepository) FindInvoicesInPeriodForUpdate(ctx context.Context, tx pgx.Tx, leaseAccountID string, start, end time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE lease_account_id = $1
		  AND invoice_date >= $2
		  AND invoice_date < $3
		  AND status != $4
		ORDER BY invoice_date ASC, invoice_id ASC
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, leaseAccountID, start, end, models.InvoiceCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices in coverage period: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}

// ListInvoicesByLeaseAccount retrieves a page of invoices for a lease
// account, newest first, using token-based pagination.
func (r *PgxInvoiceRepository) ListInvoicesByLeaseAccount(ctx context.Context, leaseAccountID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE lease_account_id = $1`
	args := []interface{}{leaseAccountID}

	if nextToken != nil && *nextToken != "" {
		invoiceDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (invoice_date, created_at) < ($2, $3)`
		args = append(args, invoiceDate, createdAt)
	}

	query += fmt.Sprintf(` ORDER BY invoice_date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list invoices for lease account %s: %w", leaseAccountID, err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, err
		}
		invoices = append(invoices, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}

	var token *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		last := invoices[len(invoices)-1]
		t := pagination.EncodeToken(last.InvoiceDate, last.CreatedAt)
		token = &t
	}
	return invoices, token, nil
}

// UpdateAllocationInTx persists the advance-rent allocation fields within the
// given transaction.
func (r *PgxInvoiceRepository) UpdateAllocationInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	query := `
		UPDATE invoices
		SET advance_rent_applied = $2,
			is_advance_covered = $3,
			status = $4,
			paid_date = $5,
			payment_method = $6,
			last_updated_at = $7,
			last_updated_by = $8
		WHERE invoice_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.InvoiceID,
		m.AdvanceRentApplied,
		m.IsAdvanceCovered,
		m.Status,
		m.PaidDate,
		m.PaymentMethod,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update allocation for invoice %s: %w", m.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkInvoicePaid records an external payment. The status guard in the WHERE
// clause keeps a paid invoice from being overwritten.
func (r *PgxInvoiceRepository) MarkInvoicePaid(ctx context.Context, invoiceID string, paidDate time.Time, method domain.PaymentMethod, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = $2,
			paid_date = $3,
			payment_method = $4,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE invoice_id = $1 AND status != $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		invoiceID,
		models.InvoicePaid,
		paidDate,
		string(method),
		updatedAt,
		updatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to mark invoice %s paid: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
