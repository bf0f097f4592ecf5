package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leasepay/lease_management_app/internal/apperrors"
	"github.com/leasepay/lease_management_app/internal/core/domain"
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/dto"
)

var (
	ErrRentNotSet         = errors.New("monthly rent not set")
	ErrInvoiceAlreadyPaid = errors.New("invoice is already paid")
)

// invoiceService generates the current period's invoices and exposes reads
// and the external mark-paid flow.
type invoiceService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceRepositoryWithTx
	leaseRepo    portsrepo.LeaseAccountRepositoryWithTx
	landlordRepo portsrepo.LandlordRepositoryFacade
	applier      portssvc.AdvanceRentApplierSvc

	now func() time.Time
}

// InvoiceServiceOption configures optional service behavior.
type InvoiceServiceOption func(*invoiceService)

// WithInvoiceNowFunc overrides the clock, for tests.
func WithInvoiceNowFunc(now func() time.Time) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.now = now
	}
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryWithTx,
	leaseRepo portsrepo.LeaseAccountRepositoryWithTx,
	landlordRepo portsrepo.LandlordRepositoryFacade,
	applier portssvc.AdvanceRentApplierSvc,
	opts ...InvoiceServiceOption,
) portssvc.InvoiceSvcFacade {
	s := &invoiceService{
		invoiceRepo:  invoiceRepo,
		leaseRepo:    leaseRepo,
		landlordRepo: landlordRepo,
		applier:      applier,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// firstOfMonth truncates a date to the first of its month.
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// invoiceNumber derives the human-facing number for a lease account's period.
// Uniqueness is ultimately guaranteed by the (lease_account_id, invoice_date)
// constraint, not by this format.
func invoiceNumber(unitID string, invoiceDate time.Time) string {
	suffix := unitID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("INV-%s-%s", suffix, invoiceDate.Format("200601"))
}

// GenerateForLandlord idempotently creates one invoice per active lease
// account for the invoice date and immediately applies any advance balance.
// The whole run is one transaction; per-account validation failures are
// recorded in the result and do not abort the batch. Only a store failure
// rolls the landlord's run back.
func (s *invoiceService) GenerateForLandlord(ctx context.Context, landlordID string, invoiceDate *time.Time) (*dto.GenerationResult, error) {
	date := firstOfMonth(s.now())
	if invoiceDate != nil {
		date = *invoiceDate
	}

	result := &dto.GenerationResult{
		LandlordID:  landlordID,
		InvoiceDate: date,
		Created:     []dto.CreatedInvoiceDetail{},
		Skipped:     []dto.SkippedInvoiceDetail{},
		Failed:      []dto.FailedInvoiceDetail{},
	}

	dueDays := domain.DefaultDueDays
	landlord, err := s.landlordRepo.FindLandlordByID(ctx, landlordID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		// Missing settings are treated defensively: fall back to defaults
		// rather than failing the run.
		s.LogWarn(ctx, "Landlord settings not found, using defaults", slog.String("landlord_id", landlordID))
	} else if landlord.AutoInvoice.DefaultDueDays > 0 {
		dueDays = landlord.AutoInvoice.DefaultDueDays
	}
	dueDate := date.AddDate(0, 0, dueDays)

	active := domain.LeaseActive
	accounts, err := s.leaseRepo.ListLeaseAccountsByLandlord(ctx, landlordID, &active)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		result.Message = fmt.Sprintf("No active lease accounts for landlord %s", landlordID)
		return result, nil
	}

	tx, err := s.invoiceRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.invoiceRepo.Rollback(ctx, tx)

	now := s.now()
	for _, account := range accounts {
		// Idempotency guard: an existing invoice for this period means a
		// previous (possibly crashed) run already covered this account.
		existing, err := s.invoiceRepo.FindInvoiceForPeriodInTx(ctx, tx, account.LeaseAccountID, date)
		if err != nil {
			// A store error here poisons the transaction; the whole
			// landlord's batch rolls back.
			return s.failResult(ctx, result, err)
		}
		if existing != nil {
			result.Skipped = append(result.Skipped, dto.SkippedInvoiceDetail{
				LeaseAccountID: account.LeaseAccountID,
				UnitID:         account.UnitID,
				Reason:         "invoice already exists for this period",
			})
			continue
		}

		if !account.MonthlyRent.IsPositive() {
			result.Failed = append(result.Failed, dto.FailedInvoiceDetail{
				LeaseAccountID: account.LeaseAccountID,
				UnitID:         account.UnitID,
				Reason:         ErrRentNotSet.Error(),
			})
			continue
		}

		invoice := domain.Invoice{
			InvoiceID:          uuid.NewString(),
			LeaseAccountID:     account.LeaseAccountID,
			LandlordID:         landlordID,
			InvoiceNumber:      invoiceNumber(account.UnitID, date),
			InvoiceDate:        date,
			DueDate:            dueDate,
			RentAmount:         account.MonthlyRent,
			LateFee:            decimal.Zero,
			CurrencyCode:       account.CurrencyCode,
			Status:             domain.InvoiceGenerated,
			AdvanceRentApplied: decimal.Zero,
			IsAdvanceCovered:   false,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     "system",
				LastUpdatedAt: now,
				LastUpdatedBy: "system",
			},
		}

		if err := s.invoiceRepo.SaveInvoiceInTx(ctx, tx, invoice); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				// Lost the race to a concurrent run; same outcome as the
				// guard above.
				result.Skipped = append(result.Skipped, dto.SkippedInvoiceDetail{
					LeaseAccountID: account.LeaseAccountID,
					UnitID:         account.UnitID,
					Reason:         "invoice already exists for this period",
				})
				continue
			}
			return s.failResult(ctx, result, err)
		}

		// Creation and allocation are one logical unit of work: lock the
		// account and apply any advance balance before moving on.
		locked, err := s.leaseRepo.FindLeaseAccountByIDForUpdate(ctx, tx, account.LeaseAccountID)
		if err != nil {
			return s.failResult(ctx, result, err)
		}
		if _, err := s.applier.ApplyToInvoiceInTx(ctx, tx, &invoice, locked, "system"); err != nil {
			return s.failResult(ctx, result, err)
		}

		result.Created = append(result.Created, dto.CreatedInvoiceDetail{
			InvoiceID:          invoice.InvoiceID,
			InvoiceNumber:      invoice.InvoiceNumber,
			LeaseAccountID:     account.LeaseAccountID,
			UnitID:             account.UnitID,
			InvoiceDate:        invoice.InvoiceDate,
			DueDate:            invoice.DueDate,
			RentAmount:         invoice.RentAmount,
			AdvanceRentApplied: invoice.AdvanceRentApplied,
			Status:             string(invoice.Status),
		})
	}

	if err := s.invoiceRepo.Commit(ctx, tx); err != nil {
		return s.failResult(ctx, result, err)
	}

	result.CreatedCount = len(result.Created)
	result.SkippedCount = len(result.Skipped)
	result.FailedCount = len(result.Failed)
	result.Message = fmt.Sprintf("Generated %d invoice(s), skipped %d, failed %d for landlord %s",
		result.CreatedCount, result.SkippedCount, result.FailedCount, landlordID)

	s.LogInfo(ctx, "Invoice generation completed",
		slog.String("landlord_id", landlordID),
		slog.Int("created", result.CreatedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("failed", result.FailedCount),
	)
	return result, nil
}

// failResult converts a store failure that escaped per-account isolation into
// a failure return carrying best-effort counts. The deferred rollback undoes
// the whole landlord's batch.
func (s *invoiceService) failResult(ctx context.Context, result *dto.GenerationResult, err error) (*dto.GenerationResult, error) {
	result.CreatedCount = len(result.Created)
	result.SkippedCount = len(result.Skipped)
	result.FailedCount = len(result.Failed)
	result.Message = fmt.Sprintf("Invoice generation aborted: %v", err)
	s.LogError(ctx, err, "Invoice generation aborted", slog.String("landlord_id", result.LandlordID))
	return result, err
}

// GetInvoiceByID retrieves a single invoice.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToInvoiceResponse(invoice)
	return &resp, nil
}

// ListInvoicesByLeaseAccount retrieves a page of invoices for a lease account.
func (s *invoiceService) ListInvoicesByLeaseAccount(ctx context.Context, leaseAccountID string, limit int, nextToken *string) ([]dto.InvoiceResponse, *string, error) {
	invoices, token, err := s.invoiceRepo.ListInvoicesByLeaseAccount(ctx, leaseAccountID, limit, nextToken)
	if err != nil {
		return nil, nil, err
	}
	return dto.ToListInvoiceResponse(invoices), token, nil
}

// MarkInvoicePaid records an external payment against an invoice. An invoice
// already paid through any mechanism (including advance-rent coverage) is
// left untouched.
func (s *invoiceService) MarkInvoicePaid(ctx context.Context, invoiceID string, req dto.MarkInvoicePaidRequest) (*dto.InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoicePaid {
		return nil, ErrInvoiceAlreadyPaid
	}

	if err := s.invoiceRepo.MarkInvoicePaid(ctx, invoiceID, req.PaidDate, domain.PaymentMethod(req.PaymentMethod), req.UserID, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToInvoiceResponse(updated)
	return &resp, nil
}
