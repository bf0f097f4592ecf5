package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/leasepay/lease_management_app/internal/core/domain"
)

// LedgerWriter defines write operations for the append-only ledger
type LedgerWriter interface {
	// SaveLedgerEntryInTx appends a ledger entry within the given transaction.
	// Entries are never mutated after creation.
	SaveLedgerEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error
}

// LedgerReader defines read operations for reporting over the ledger
type LedgerReader interface {
	// ListLedgerEntriesByLandlord retrieves a paginated list of ledger entries
	// for a landlord using token-based pagination, newest first.
	ListLedgerEntriesByLandlord(ctx context.Context, landlordID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerRepositoryFacade combines the ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
