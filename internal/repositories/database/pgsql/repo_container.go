package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	leaseAccountRepo := newPgxLeaseAccountRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	landlordRepo := newPgxLandlordRepository(dbPool)

	return portsrepo.RepositoryProvider{
		LeaseAccountRepo: leaseAccountRepo,
		InvoiceRepo:      invoiceRepo,
		LedgerRepo:       ledgerRepo,
		LandlordRepo:     landlordRepo,
	}
}
