package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leasepay/lease_management_app/internal/apperrors"
	"github.com/leasepay/lease_management_app/internal/core/domain"
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	"github.com/leasepay/lease_management_app/internal/models"
	"github.com/leasepay/lease_management_app/internal/utils/mapping"
)

type PgxLeaseAccountRepository struct {
	BaseRepository
}

// newPgxLeaseAccountRepository creates a new repository for lease account data.
func newPgxLeaseAccountRepository(pool *pgxpool.Pool) portsrepo.LeaseAccountRepositoryWithTx {
	return &PgxLeaseAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLeaseAccountRepository implements portsrepo.LeaseAccountRepositoryWithTx
var _ portsrepo.LeaseAccountRepositoryWithTx = (*PgxLeaseAccountRepository)(nil)

const leaseAccountColumns = `
	lease_account_id, landlord_id, tenant_id, unit_id, monthly_rent, currency_code, status,
	advance_rent_months, advance_rent_amount, advance_rent_used, advance_rent_collected_date,
	created_at, created_by, last_updated_at, last_updated_by
`

// scanLeaseAccount scans one lease account row in column order.
func scanLeaseAccount(row pgx.Row) (*domain.LeaseAccount, error) {
	var m models.LeaseAccount
	err := row.Scan(
		&m.LeaseAccountID,
		&m.LandlordID,
		&m.TenantID,
		&m.UnitID,
		&m.MonthlyRent,
		&m.CurrencyCode,
		&m.Status,
		&m.AdvanceRentMonths,
		&m.AdvanceRentAmount,
		&m.AdvanceRentUsed,
		&m.AdvanceRentCollectedDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan lease account: %w", err)
	}
	account := mapping.ToDomainLeaseAccount(m)
	return &account, nil
}

// SaveLeaseAccount inserts a new lease account.
func (r *PgxLeaseAccountRepository) SaveLeaseAccount(ctx context.Context, account domain.LeaseAccount) error {
	m := mapping.ToModelLeaseAccount(account)

	query := `
		INSERT INTO lease_accounts (
			lease_account_id, landlord_id, tenant_id, unit_id, monthly_rent, currency_code, status,
			advance_rent_months, advance_rent_amount, advance_rent_used, advance_rent_collected_date,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LeaseAccountID,
		m.LandlordID,
		m.TenantID,
		m.UnitID,
		m.MonthlyRent,
		m.CurrencyCode,
		m.Status,
		m.AdvanceRentMonths,
		m.AdvanceRentAmount,
		m.AdvanceRentUsed,
		m.AdvanceRentCollectedDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: lease account with ID %s already exists", apperrors.ErrDuplicate, m.LeaseAccountID)
		}
		return fmt.Errorf("failed to save lease account %s: %w", m.LeaseAccountID, err)
	}
	return nil
}

// FindLeaseAccountByID retrieves a lease account by its ID.
func (r *PgxLeaseAccountRepository) FindLeaseAccountByID(ctx context.Context, leaseAccountID string) (*domain.LeaseAccount, error) {
	query := `SELECT ` + leaseAccountColumns + ` FROM lease_accounts WHERE lease_account_id = $1;`
	return scanLeaseAccount(r.Pool.QueryRow(ctx, query, leaseAccountID))
}

// FindLeaseAccountByIDForUpdate retrieves a lease account and locks its row
// for the duration of the transaction.
func (r *PgxLeaseAccountRepository) FindLeaseAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, leaseAccountID string) (*domain.LeaseAccount, error) {
	query := `SELECT ` + leaseAccountColumns + ` FROM lease_accounts WHERE lease_account_id = $1 FOR UPDATE;`
	return scanLeaseAccount(tx.QueryRow(ctx, query, leaseAccountID))
}

// ListLeaseAccountsByLandlord retrieves all lease accounts for a landlord,
// optionally filtered by status.
func (r *PgxLeaseAccountRepository) ListLeaseAccountsByLandlord(ctx context.Context, landlordID string, status *domain.LeaseStatus) ([]domain.LeaseAccount, error) {
	query := `SELECT ` + leaseAccountColumns + ` FROM lease_accounts WHERE landlord_id = $1`
	args := []interface{}{landlordID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at ASC, lease_account_id ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lease accounts for landlord %s: %w", landlordID, err)
	}
	defer rows.Close()

	var accounts []domain.LeaseAccount
	for rows.Next() {
		account, err := scanLeaseAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lease account rows: %w", err)
	}
	return accounts, nil
}

// UpdateAdvanceRentInTx persists the account's advance-rent state within the
// given transaction.
func (r *PgxLeaseAccountRepository) UpdateAdvanceRentInTx(ctx context.Context, tx pgx.Tx, account domain.LeaseAccount) error {
	m := mapping.ToModelLeaseAccount(account)

	query := `
		UPDATE lease_accounts
		SET advance_rent_months = $2,
			advance_rent_amount = $3,
			advance_rent_used = $4,
			advance_rent_collected_date = $5,
			currency_code = $6,
			last_updated_at = $7,
			last_updated_by = $8
		WHERE lease_account_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.LeaseAccountID,
		m.AdvanceRentMonths,
		m.AdvanceRentAmount,
		m.AdvanceRentUsed,
		m.AdvanceRentCollectedDate,
		m.CurrencyCode,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update advance rent for lease account %s: %w", m.LeaseAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
