package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leasepay/lease_management_app/internal/apperrors"
	"github.com/leasepay/lease_management_app/internal/core/domain"
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	"github.com/leasepay/lease_management_app/internal/models"
	"github.com/leasepay/lease_management_app/internal/utils/mapping"
)

type PgxLandlordRepository struct {
	BaseRepository
}

// newPgxLandlordRepository creates a new repository for landlord configuration.
func newPgxLandlordRepository(pool *pgxpool.Pool) portsrepo.LandlordRepositoryFacade {
	return &PgxLandlordRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLandlordRepository implements portsrepo.LandlordRepositoryFacade
var _ portsrepo.LandlordRepositoryFacade = (*PgxLandlordRepository)(nil)

const landlordColumns = `
	landlord_id, name,
	auto_invoice_enabled, auto_invoice_day_of_month, default_due_days,
	last_run_at, last_run_status, last_run_message,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanLandlord(row pgx.Row) (*domain.Landlord, error) {
	var m models.Landlord
	err := row.Scan(
		&m.LandlordID,
		&m.Name,
		&m.AutoInvoiceEnabled,
		&m.AutoInvoiceDayOfMonth,
		&m.DefaultDueDays,
		&m.LastRunAt,
		&m.LastRunStatus,
		&m.LastRunMessage,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan landlord: %w", err)
	}
	landlord := mapping.ToDomainLandlord(m)
	return &landlord, nil
}

// FindLandlordByID retrieves a landlord with its auto-invoice settings.
func (r *PgxLandlordRepository) FindLandlordByID(ctx context.Context, landlordID string) (*domain.Landlord, error) {
	query := `SELECT ` + landlordColumns + ` FROM landlords WHERE landlord_id = $1;`
	return scanLandlord(r.Pool.QueryRow(ctx, query, landlordID))
}

// ListLandlords retrieves all landlords. The scheduler fans out over this
// list, so ordering is kept stable for predictable run logs.
func (r *PgxLandlordRepository) ListLandlords(ctx context.Context) ([]domain.Landlord, error) {
	query := `SELECT ` + landlordColumns + ` FROM landlords ORDER BY created_at ASC, landlord_id ASC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list landlords: %w", err)
	}
	defer rows.Close()

	var landlords []domain.Landlord
	for rows.Next() {
		landlord, err := scanLandlord(rows)
		if err != nil {
			return nil, err
		}
		landlords = append(landlords, *landlord)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating landlord rows: %w", err)
	}
	return landlords, nil
}

// UpdateLastRunStatus persists the outcome of an automated generation run.
func (r *PgxLandlordRepository) UpdateLastRunStatus(ctx context.Context, landlordID string, runAt time.Time, status domain.RunStatus, message string) error {
	query := `
		UPDATE landlords
		SET last_run_at = $2,
			last_run_status = $3,
			last_run_message = $4,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE landlord_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, landlordID, runAt, string(status), message, time.Now(), "system")
	if err != nil {
		return fmt.Errorf("failed to update last run status for landlord %s: %w", landlordID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
