package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/leasepay/lease_management_app/internal/core/domain"
)

// LeaseAccountReader defines read operations for lease account data
type LeaseAccountReader interface {
	// FindLeaseAccountByID retrieves a specific lease account by its unique identifier.
	FindLeaseAccountByID(ctx context.Context, leaseAccountID string) (*domain.LeaseAccount, error)

	// FindLeaseAccountByIDForUpdate retrieves a lease account and locks its row
	// for the duration of the transaction. Every allocating or collecting
	// operation must read the account through this method so concurrent
	// writers serialize on the row instead of losing updates.
	FindLeaseAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, leaseAccountID string) (*domain.LeaseAccount, error)

	// ListLeaseAccountsByLandlord retrieves all lease accounts for a landlord,
	// optionally filtered by status.
	ListLeaseAccountsByLandlord(ctx context.Context, landlordID string, status *domain.LeaseStatus) ([]domain.LeaseAccount, error)
}

// LeaseAccountWriter defines write operations for lease account data
type LeaseAccountWriter interface {
	// SaveLeaseAccount persists a new lease account.
	SaveLeaseAccount(ctx context.Context, account domain.LeaseAccount) error

	// UpdateAdvanceRentInTx persists the account's advance-rent state (months,
	// amount, used, collected date, currency) within the given transaction.
	UpdateAdvanceRentInTx(ctx context.Context, tx pgx.Tx, account domain.LeaseAccount) error
}

// LeaseAccountRepositoryFacade combines all lease-account repository interfaces
type LeaseAccountRepositoryFacade interface {
	LeaseAccountReader
	LeaseAccountWriter
}

// LeaseAccountRepositoryWithTx extends the facade with transaction capabilities
type LeaseAccountRepositoryWithTx interface {
	LeaseAccountRepositoryFacade
	TransactionManager
}
