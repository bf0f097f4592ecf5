package services

import (
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
)

// NewServiceContainer creates the service container with properly initialized
// dependencies. The advance-rent service comes first since the invoice
// generator depends on its in-transaction applier.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, defaultCurrency string) *portssvc.ServiceContainer {
	advanceRent := NewAdvanceRentService(
		repos.LeaseAccountRepo,
		repos.InvoiceRepo,
		repos.LedgerRepo,
		WithDefaultCurrency(defaultCurrency),
	)

	invoice := NewInvoiceService(
		repos.InvoiceRepo,
		repos.LeaseAccountRepo,
		repos.LandlordRepo,
		advanceRent.(portssvc.AdvanceRentApplierSvc),
	)

	return &portssvc.ServiceContainer{
		LeaseAccount: NewLeaseAccountService(repos.LeaseAccountRepo),
		AdvanceRent:  advanceRent,
		Invoice:      invoice,
		Scheduler:    NewSchedulerService(repos.LandlordRepo, invoice),
		Ledger:       NewLedgerService(repos.LedgerRepo),
		Landlord:     NewLandlordService(repos.LandlordRepo),
	}
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.AdvanceRentSvcFacade  = (*advanceRentService)(nil)
	_ portssvc.InvoiceSvcFacade      = (*invoiceService)(nil)
	_ portssvc.SchedulerSvcFacade    = (*schedulerService)(nil)
	_ portssvc.LeaseAccountSvcFacade = (*leaseAccountService)(nil)
)
