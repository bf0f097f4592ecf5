package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/leasepay/lease_management_app/internal/core/domain"
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/dto"
	"github.com/leasepay/lease_management_app/internal/utils"
)

var (
	ErrInvoiceCancelled  = errors.New("cannot apply advance rent to a cancelled invoice")
	ErrInvalidCollection = errors.New("advance rent collection requires positive months and a non-negative amount")
	ErrLeaseNotActive    = errors.New("lease account is not active")
)

// advanceRentService implements the advance-rent allocation engine: single
// and retroactive application of a lease account's prepaid balance to its
// invoices, and the collection flow that starts a new balance epoch.
type advanceRentService struct {
	BaseService
	leaseRepo   portsrepo.LeaseAccountRepositoryWithTx
	invoiceRepo portsrepo.InvoiceRepositoryWithTx
	ledgerRepo  portsrepo.LedgerRepositoryFacade

	defaultCurrency string
	now             func() time.Time
}

// AdvanceRentServiceOption configures optional service behavior.
type AdvanceRentServiceOption func(*advanceRentService)

// WithDefaultCurrency sets the fallback currency for collections whose lease
// has no currency of its own.
func WithDefaultCurrency(code string) AdvanceRentServiceOption {
	return func(s *advanceRentService) {
		s.defaultCurrency = code
	}
}

// WithAdvanceRentNowFunc overrides the clock, for tests.
func WithAdvanceRentNowFunc(now func() time.Time) AdvanceRentServiceOption {
	return func(s *advanceRentService) {
		s.now = now
	}
}

// NewAdvanceRentService creates a new AdvanceRentService.
func NewAdvanceRentService(
	leaseRepo portsrepo.LeaseAccountRepositoryWithTx,
	invoiceRepo portsrepo.InvoiceRepositoryWithTx,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	opts ...AdvanceRentServiceOption,
) portssvc.AdvanceRentSvcFacade {
	s := &advanceRentService{
		leaseRepo:       leaseRepo,
		invoiceRepo:     invoiceRepo,
		ledgerRepo:      ledgerRepo,
		defaultCurrency: "USD",
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.AdvanceRentSvcFacade = (*advanceRentService)(nil)

// CheckCoverage reports whether the account's advance balance covers the
// given invoice date. Read-only.
func (s *advanceRentService) CheckCoverage(ctx context.Context, leaseAccountID string, invoiceDate time.Time) (*dto.CoverageResponse, error) {
	account, err := s.leaseRepo.FindLeaseAccountByID(ctx, leaseAccountID)
	if err != nil {
		return nil, err
	}

	cov := domain.CheckCoverage(*account, invoiceDate)
	period := domain.ComputeCoveragePeriod(*account)
	resp := dto.ToCoverageResponse(cov, period)
	return &resp, nil
}

// ApplyToInvoiceInTx applies as much of the account's remaining balance as
// the invoice still needs, persisting both rows within tx. The caller must
// have read the account under a row lock in the same transaction.
func (s *advanceRentService) ApplyToInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice, account *domain.LeaseAccount, userID string) (dto.ApplicationResult, error) {
	zero := dto.ApplicationResult{Applied: decimal.Zero}

	if invoice.Status == domain.InvoiceCancelled {
		return zero, ErrInvoiceCancelled
	}

	cov := domain.CheckCoverage(*account, invoice.InvoiceDate)
	if !cov.Covered || !cov.Remaining.IsPositive() {
		// Idempotent no-op: nothing is mutated or persisted.
		return zero, nil
	}

	totalDue := invoice.TotalDue()
	// Only what the invoice still needs consumes balance; a prior run's
	// allocation is never double-counted against the account.
	stillNeeded := totalDue.Sub(invoice.AdvanceRentApplied)
	if !stillNeeded.IsPositive() {
		return zero, nil
	}

	amountToApply := decimal.Min(stillNeeded, cov.Remaining)
	newTotal := invoice.AdvanceRentApplied.Add(amountToApply)
	fullyCovered := domain.FullyCovers(newTotal, totalDue)

	now := s.now()
	invoice.AdvanceRentApplied = newTotal
	invoice.IsAdvanceCovered = fullyCovered
	if fullyCovered && invoice.Status != domain.InvoicePaid {
		paidDate := invoice.InvoiceDate
		method := domain.PaymentAdvanceRent
		invoice.Status = domain.InvoicePaid
		invoice.PaidDate = &paidDate
		invoice.PaymentMethod = &method
	}
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID

	account.AdvanceRentUsed = account.AdvanceRentUsed.Add(amountToApply)
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	// Both rows commit or neither does; an observer must never see the
	// invoice covered while the account has not consumed the balance.
	if err := s.invoiceRepo.UpdateAllocationInTx(ctx, tx, *invoice); err != nil {
		return zero, fmt.Errorf("failed to persist invoice allocation: %w", err)
	}
	if err := s.leaseRepo.UpdateAdvanceRentInTx(ctx, tx, *account); err != nil {
		return zero, fmt.Errorf("failed to persist lease account balance: %w", err)
	}

	return dto.ApplicationResult{Applied: amountToApply, FullyCovered: fullyCovered}, nil
}

// ApplyToInvoice applies the advance balance to a single invoice within its
// own transaction.
func (s *advanceRentService) ApplyToInvoice(ctx context.Context, invoiceID string, userID string) (*dto.ApplicationResult, error) {
	tx, err := s.leaseRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.leaseRepo.Rollback(ctx, tx)

	invoice, err := s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	account, err := s.leaseRepo.FindLeaseAccountByIDForUpdate(ctx, tx, invoice.LeaseAccountID)
	if err != nil {
		return nil, err
	}

	result, err := s.ApplyToInvoiceInTx(ctx, tx, invoice, account, userID)
	if err != nil {
		return nil, err
	}

	if err := s.leaseRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Applied advance rent to invoice",
		slog.String("invoice_id", invoiceID),
		slog.String("applied", result.Applied.String()),
		slog.Bool("fully_covered", result.FullyCovered),
	)
	return &result, nil
}

// RetroactivelyApply drains the account's current balance across all
// non-cancelled invoices inside the coverage period, earliest first, within
// one transaction. Invoices already fully covered are skipped without
// consuming balance, which makes re-runs safe.
func (s *advanceRentService) RetroactivelyApply(ctx context.Context, leaseAccountID string, userID string) (*dto.RetroactiveResult, error) {
	result := &dto.RetroactiveResult{
		TotalApplied: decimal.Zero,
		Details:      []dto.RetroactiveInvoiceDetail{},
	}

	tx, err := s.leaseRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.leaseRepo.Rollback(ctx, tx)

	// Re-read the balance under the row lock: a stale in-memory copy taken
	// before the lock would double-allocate against a racing collection.
	account, err := s.leaseRepo.FindLeaseAccountByIDForUpdate(ctx, tx, leaseAccountID)
	if err != nil {
		return nil, err
	}

	period := domain.ComputeCoveragePeriod(*account)
	if period == nil {
		return result, nil
	}

	// Ordered by (invoice_date, invoice_id) ascending in the query itself:
	// money goes to the earliest obligation first.
	invoices, err := s.invoiceRepo.FindInvoicesInPeriodForUpdate(ctx, tx, leaseAccountID, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range invoices {
		invoice := &invoices[i]

		remaining := account.AdvanceRentRemaining()
		if !remaining.IsPositive() {
			// Balance exhausted: greedy allocation stops here, later
			// invoices get nothing.
			break
		}

		totalDue := invoice.TotalDue()
		stillNeeded := totalDue.Sub(invoice.AdvanceRentApplied)
		if !stillNeeded.IsPositive() {
			// Fully covered by a prior run; consumes no balance.
			continue
		}

		amountToApply := decimal.Min(stillNeeded, remaining)
		newTotal := invoice.AdvanceRentApplied.Add(amountToApply)
		fullyCovered := domain.FullyCovers(newTotal, totalDue)

		invoice.AdvanceRentApplied = newTotal
		invoice.IsAdvanceCovered = fullyCovered
		if fullyCovered && invoice.Status != domain.InvoicePaid {
			paidDate := invoice.InvoiceDate
			method := domain.PaymentAdvanceRent
			invoice.Status = domain.InvoicePaid
			invoice.PaidDate = &paidDate
			invoice.PaymentMethod = &method
		}
		invoice.LastUpdatedAt = now
		invoice.LastUpdatedBy = userID

		if err := s.invoiceRepo.UpdateAllocationInTx(ctx, tx, *invoice); err != nil {
			return nil, fmt.Errorf("failed to persist allocation for invoice %s: %w", invoice.InvoiceID, err)
		}

		account.AdvanceRentUsed = account.AdvanceRentUsed.Add(amountToApply)
		account.LastUpdatedAt = now
		account.LastUpdatedBy = userID
		if err := s.leaseRepo.UpdateAdvanceRentInTx(ctx, tx, *account); err != nil {
			return nil, fmt.Errorf("failed to persist lease account balance: %w", err)
		}

		result.ProcessedCount++
		result.TotalApplied = result.TotalApplied.Add(amountToApply)
		result.Details = append(result.Details, dto.RetroactiveInvoiceDetail{
			InvoiceID:     invoice.InvoiceID,
			InvoiceNumber: invoice.InvoiceNumber,
			InvoiceDate:   invoice.InvoiceDate,
			Applied:       amountToApply,
			TotalApplied:  newTotal,
			FullyCovered:  fullyCovered,
		})
	}

	if err := s.leaseRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Retroactive advance rent allocation completed",
		slog.String("lease_account_id", leaseAccountID),
		slog.Int("processed", result.ProcessedCount),
		slog.String("total_applied", result.TotalApplied.String()),
	)
	return result, nil
}

// Collect records a new advance-rent collection. It overwrites the account's
// advance terms, resets the usage epoch to zero and appends a ledger entry,
// all in one transaction. Re-running Collect is not idempotent: every call
// starts a fresh epoch.
func (s *advanceRentService) Collect(ctx context.Context, leaseAccountID string, req dto.CollectAdvanceRentRequest) (*domain.LeaseAccount, *domain.LedgerEntry, error) {
	if req.Months <= 0 || req.Amount.IsNegative() {
		return nil, nil, ErrInvalidCollection
	}

	tx, err := s.leaseRepo.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer s.leaseRepo.Rollback(ctx, tx)

	account, err := s.leaseRepo.FindLeaseAccountByIDForUpdate(ctx, tx, leaseAccountID)
	if err != nil {
		return nil, nil, err
	}
	if account.Status != domain.LeaseActive {
		return nil, nil, ErrLeaseNotActive
	}

	fallback := account.CurrencyCode
	if fallback == "" {
		fallback = s.defaultCurrency
	}
	currency := domain.NormalizeCurrencyCode(req.CurrencyCode, fallback)

	now := s.now()
	collectedDate := req.TransactionDate

	account.AdvanceRentMonths = req.Months
	account.AdvanceRentAmount = req.Amount
	account.AdvanceRentUsed = decimal.Zero
	account.AdvanceRentCollectedDate = &collectedDate
	account.CurrencyCode = currency
	account.LastUpdatedAt = now
	account.LastUpdatedBy = req.UserID

	if err := s.leaseRepo.UpdateAdvanceRentInTx(ctx, tx, *account); err != nil {
		return nil, nil, fmt.Errorf("failed to persist advance rent collection: %w", err)
	}

	method := domain.PaymentCash
	if req.PaymentMethod != "" {
		method = domain.PaymentMethod(req.PaymentMethod)
	}
	description := fmt.Sprintf("Advance rent collected: %d month(s), %s", req.Months, utils.FormatAmount(req.Amount, currency))
	if req.Notes != "" {
		description = fmt.Sprintf("%s - %s", description, req.Notes)
	}

	entry := domain.LedgerEntry{
		LedgerEntryID:   uuid.NewString(),
		LandlordID:      account.LandlordID,
		LeaseAccountID:  &account.LeaseAccountID,
		Type:            domain.LedgerRent,
		Category:        domain.CategoryMonthlyRent,
		Amount:          req.Amount,
		CurrencyCode:    currency,
		Description:     description,
		TransactionDate: req.TransactionDate,
		PaidDate:        req.TransactionDate,
		PaymentMethod:   method,
		ReferenceNumber: req.ReferenceNumber,
		Status:          domain.LedgerCompleted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: req.UserID,
		},
	}
	if err := s.ledgerRepo.SaveLedgerEntryInTx(ctx, tx, entry); err != nil {
		return nil, nil, fmt.Errorf("failed to append collection ledger entry: %w", err)
	}

	if err := s.leaseRepo.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	s.LogInfo(ctx, "Advance rent collected",
		slog.String("lease_account_id", leaseAccountID),
		slog.Int("months", req.Months),
		slog.String("amount", req.Amount.String()),
		slog.String("currency", currency),
	)
	return account, &entry, nil
}
