package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leasepay/lease_management_app/internal/apperrors"
	"github.com/leasepay/lease_management_app/internal/core/domain"
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	"github.com/leasepay/lease_management_app/internal/models"
	"github.com/leasepay/lease_management_app/internal/utils/mapping"
	"github.com/leasepay/lease_management_app/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the append-only ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerColumns = `
	ledger_entry_id, landlord_id, lease_account_id, type, category, amount,
	currency_code, description, transaction_date, paid_date, payment_method,
	reference_number, status,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.LedgerEntryID,
		&m.LandlordID,
		&m.LeaseAccountID,
		&m.Type,
		&m.Category,
		&m.Amount,
		&m.CurrencyCode,
		&m.Description,
		&m.TransactionDate,
		&m.PaidDate,
		&m.PaymentMethod,
		&m.ReferenceNumber,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// SaveLedgerEntryInTx appends a ledger entry within the given transaction.
// There is deliberately no corresponding update or delete statement.
func (r *PgxLedgerRepository) SaveLedgerEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)

	query := `
		INSERT INTO ledger_entries (
			ledger_entry_id, landlord_id, lease_account_id, type, category, amount,
			currency_code, description, transaction_date, paid_date, payment_method,
			reference_number, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.LedgerEntryID,
		m.LandlordID,
		m.LeaseAccountID,
		m.Type,
		m.Category,
		m.Amount,
		m.CurrencyCode,
		m.Description,
		m.TransactionDate,
		m.PaidDate,
		m.PaymentMethod,
		m.ReferenceNumber,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save ledger entry %s: %w", m.LedgerEntryID, err)
	}
	return nil
}

// ListLedgerEntriesByLandlord retrieves a page of ledger entries for a
// landlord, newest first, using token-based pagination.
func (r *PgxLedgerRepository) ListLedgerEntriesByLandlord(ctx context.Context, landlordID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE landlord_id = $1`
	args := []interface{}{landlordID}

	if nextToken != nil && *nextToken != "" {
		transactionDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (transaction_date, created_at) < ($2, $3)`
		args = append(args, transactionDate, createdAt)
	}

	query += fmt.Sprintf(` ORDER BY transaction_date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list ledger entries for landlord %s: %w", landlordID, err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		token = &t
	}
	return entries, token, nil
}
