package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/leasepay/lease_management_app/internal/core/domain"
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/core/services"
	"github.com/leasepay/lease_management_app/internal/dto"
)

// --- Mock LeaseAccountRepository ---
type MockLeaseAccountRepository struct {
	mock.Mock
}

// Ensure MockLeaseAccountRepository implements portsrepo.LeaseAccountRepositoryWithTx
var _ portsrepo.LeaseAccountRepositoryWithTx = (*MockLeaseAccountRepository)(nil)

func (m *MockLeaseAccountRepository) FindLeaseAccountByID(ctx context.Context, leaseAccountID string) (*domain.LeaseAccount, error) {
	args := m.Called(ctx, leaseAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaseAccount), args.Error(1)
}

func (m *MockLeaseAccountRepository) FindLeaseAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, leaseAccountID string) (*domain.LeaseAccount, error) {
	args := m.Called(ctx, tx, leaseAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaseAccount), args.Error(1)
}

func (m *MockLeaseAccountRepository) ListLeaseAccountsByLandlord(ctx context.Context, landlordID string, status *domain.LeaseStatus) ([]domain.LeaseAccount, error) {
	args := m.Called(ctx, landlordID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaseAccount), args.Error(1)
}

func (m *MockLeaseAccountRepository) SaveLeaseAccount(ctx context.Context, account domain.LeaseAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLeaseAccountRepository) UpdateAdvanceRentInTx(ctx context.Context, tx pgx.Tx, account domain.LeaseAccount) error {
	args := m.Called(ctx, tx, account)
	return args.Error(0)
}

func (m *MockLeaseAccountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockLeaseAccountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLeaseAccountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

// Ensure MockInvoiceRepository implements portsrepo.InvoiceRepositoryWithTx
var _ portsrepo.InvoiceRepositoryWithTx = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, tx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceForPeriodInTx(ctx context.Context, tx pgx.Tx, leaseAccountID string, invoiceDate time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, tx, leaseAccountID, invoiceDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoicesInPeriodForUpdate(ctx context.Context, tx pgx.Tx, leaseAccountID string, start, end time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, tx, leaseAccountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesByLeaseAccount(ctx context.Context, leaseAccountID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, leaseAccountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Invoice), returnedNextToken, args.Error(2)
}

func (m *MockInvoiceRepository) SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	args := m.Called(ctx, tx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateAllocationInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	args := m.Called(ctx, tx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkInvoicePaid(ctx context.Context, invoiceID string, paidDate time.Time, method domain.PaymentMethod, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, invoiceID, paidDate, method, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockInvoiceRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

// Ensure MockLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) SaveLedgerEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListLedgerEntriesByLandlord(ctx context.Context, landlordID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, landlordID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

// --- Test Suite Setup ---
type AdvanceRentServiceTestSuite struct {
	suite.Suite
	mockLeaseRepo   *MockLeaseAccountRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockLedgerRepo  *MockLedgerRepository
	service         portssvc.AdvanceRentSvcFacade
	leaseAccountID  string
	landlordID      string
	userID          string
	fixedNow        time.Time
}

func (suite *AdvanceRentServiceTestSuite) SetupTest() {
	suite.mockLeaseRepo = new(MockLeaseAccountRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.fixedNow = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewAdvanceRentService(
		suite.mockLeaseRepo,
		suite.mockInvoiceRepo,
		suite.mockLedgerRepo,
		services.WithAdvanceRentNowFunc(func() time.Time { return suite.fixedNow }),
	)

	suite.leaseAccountID = uuid.NewString()
	suite.landlordID = uuid.NewString()
	suite.userID = uuid.NewString()
}

// account returns a lease account with an advance balance collected on the
// given date for the given number of months.
func (suite *AdvanceRentServiceTestSuite) account(collected time.Time, months int, amount, used decimal.Decimal) *domain.LeaseAccount {
	return &domain.LeaseAccount{
		LeaseAccountID:           suite.leaseAccountID,
		LandlordID:               suite.landlordID,
		TenantID:                 uuid.NewString(),
		UnitID:                   "unit-1201",
		MonthlyRent:              decimal.NewFromInt(100),
		CurrencyCode:             "USD",
		Status:                   domain.LeaseActive,
		AdvanceRentMonths:        months,
		AdvanceRentAmount:        amount,
		AdvanceRentUsed:          used,
		AdvanceRentCollectedDate: &collected,
	}
}

func (suite *AdvanceRentServiceTestSuite) invoice(invoiceDate time.Time, rent, applied decimal.Decimal, status domain.InvoiceStatus) domain.Invoice {
	return domain.Invoice{
		InvoiceID:          uuid.NewString(),
		LeaseAccountID:     suite.leaseAccountID,
		LandlordID:         suite.landlordID,
		InvoiceNumber:      "INV-unit-120-" + invoiceDate.Format("200601"),
		InvoiceDate:        invoiceDate,
		DueDate:            invoiceDate.AddDate(0, 0, 30),
		RentAmount:         rent,
		LateFee:            decimal.Zero,
		CurrencyCode:       "USD",
		Status:             status,
		AdvanceRentApplied: applied,
		IsAdvanceCovered:   false,
	}
}

func (suite *AdvanceRentServiceTestSuite) expectTx() {
	suite.mockLeaseRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockLeaseRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// --- Retroactive allocation ---

func (suite *AdvanceRentServiceTestSuite) TestRetroactivelyApply_ChronologicalGreedyAllocation() {
	ctx := context.Background()
	collected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	account := suite.account(collected, 3, decimal.NewFromInt(250), decimal.Zero)

	rent := decimal.NewFromInt(100)
	invoices := []domain.Invoice{
		suite.invoice(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), rent, decimal.Zero, domain.InvoiceGenerated),
		suite.invoice(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), rent, decimal.Zero, domain.InvoiceGenerated),
		suite.invoice(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), rent, decimal.Zero, domain.InvoiceGenerated),
	}

	suite.expectTx()
	suite.mockLeaseRepo.On("FindLeaseAccountByIDForUpdate", mock.Anything, mock.Anything, suite.leaseAccountID).Return(account, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoicesInPeriodForUpdate", mock.Anything, mock.Anything, suite.leaseAccountID, collected, collected.AddDate(0, 3, 0)).Return(invoices, nil).Once()

	var persistedInvoices []domain.Invoice
	suite.mockInvoiceRepo.On("UpdateAllocationInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Invoice")).Run(func(args mock.Arguments) {
		persistedInvoices = append(persistedInvoices, args.Get(2).(domain.Invoice))
	}).Return(nil).Times(3)

	var lastAccount domain.LeaseAccount
	suite.mockLeaseRepo.On("UpdateAdvanceRentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.LeaseAccount")).Run(func(args mock.Arguments) {
		lastAccount = args.Get(2).(domain.LeaseAccount)
	}).Return(nil).Times(3)

	suite.mockLeaseRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.RetroactivelyApply(ctx, suite.leaseAccountID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(3, result.ProcessedCount)
	suite.True(decimal.NewFromInt(250).Equal(result.TotalApplied))

	// January and February covered in full, March gets the 50 left over.
	suite.Require().Len(result.Details, 3)
	suite.True(decimal.NewFromInt(100).Equal(result.Details[0].Applied))
	suite.True(result.Details[0].FullyCovered)
	suite.True(decimal.NewFromInt(100).Equal(result.Details[1].Applied))
	suite.True(result.Details[1].FullyCovered)
	suite.True(decimal.NewFromInt(50).Equal(result.Details[2].Applied))
	suite.False(result.Details[2].FullyCovered)

	// Covered invoices go PAID via advance rent; the partial one stays open.
	suite.Equal(domain.InvoicePaid, persistedInvoices[0].Status)
	suite.Require().NotNil(persistedInvoices[0].PaymentMethod)
	suite.Equal(domain.PaymentAdvanceRent, *persistedInvoices[0].PaymentMethod)
	suite.Equal(domain.InvoiceGenerated, persistedInvoices[2].Status)

	// Usage never exceeds the collected amount.
	suite.True(decimal.NewFromInt(250).Equal(lastAccount.AdvanceRentUsed))

	suite.mockLeaseRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *AdvanceRentServiceTestSuite) TestRetroactivelyApply_RerunIsNoOp() {
	ctx := context.Background()
	collected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	// 100 of 300 still unused, but both invoices already fully applied.
	account := suite.account(collected, 3, decimal.NewFromInt(300), decimal.NewFromInt(200))

	rent := decimal.NewFromInt(100)
	inv1 := suite.invoice(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), rent, rent, domain.InvoicePaid)
	inv2 := suite.invoice(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), rent, rent, domain.InvoicePaid)

	suite.expectTx()
	suite.mockLeaseRepo.On("FindLeaseAccountByIDForUpdate", mock.Anything, mock.Anything, suite.leaseAccountID).Return(account, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoicesInPeriodForUpdate", mock.Anything, mock.Anything, suite.leaseAccountID, mock.Anything, mock.Anything).Return([]domain.Invoice{inv1, inv2}, nil).Once()
	suite.mockLeaseRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.RetroactivelyApply(ctx, suite.leaseAccountID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, result.ProcessedCount)
	suite.True(result.TotalApplied.IsZero())
	suite.Empty(result.Details)

	// Nothing was written: covered invoices consume no balance on re-runs.
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateAllocationInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockLeaseRepo.AssertNotCalled(suite.T(), "UpdateAdvanceRentInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AdvanceRentServiceTestSuite) TestRetroactivelyApply_StopsWhenBalanceExhausted() {
	ctx := context.Background()
	collected := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	account := suite.account(collected, 3, decimal.NewFromInt(100), decimal.Zero)

	rent := decimal.NewFromInt(100)
	invoices := []domain.Invoice{
		suite.invoice(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), rent, decimal.Zero, domain.InvoiceGenerated),
		suite.invoice(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), rent, decimal.Zero, domain.InvoiceGenerated),
	}

	suite.expectTx()
	suite.mockLeaseRepo.On("FindLeaseAccountByIDForUpdate", mock.Anything, mock.Anything, suite.leaseAccountID).Return(account, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoicesInPeriodForUpdate", mock.Anything, mock.Anything, suite.leaseAccountID, mock.Anything, mock.Anything).Return(invoices, nil).Once()
	suite.mockInvoiceRepo.On("UpdateAllocationInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()
	suite.mockLeaseRepo.On("UpdateAdvanceRentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.LeaseAccount")).Return(nil).Once()
	suite.mockLeaseRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.RetroactivelyApply(ctx, suite.leaseAccountID, suite.userID)

	suite.Require().NoError(err)
	// The first invoice drains the balance; the second gets nothing.
	suite.Equal(1, result.ProcessedCount)
	suite.True(decimal.NewFromInt(100).Equal(result.TotalApplied))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *AdvanceRentServiceTestSuite) TestRetroactivelyApply_NoCollectionRecorded() {
	ctx := context.Background()
	account := &domain.LeaseAccount{
		LeaseAccountID: suite.leaseAccountID,
		LandlordID:     suite.landlordID,
		MonthlyRent:    decimal.NewFromInt(100),
		CurrencyCode:   "USD",
		Status:         domain.LeaseActive,
	}

	suite.expectTx()
	suite.mockLeaseRepo.On("FindLeaseAccountByIDForUpdate", mock.Anything, mock.Anything, suite.leaseAccountID).Return(account, nil).Once()

	result, err := suite.service.RetroactivelyApply(ctx, suite.leaseAccountID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, result.ProcessedCount)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "FindInvoicesInPeriodForUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Single invoice application ---

func (suite *AdvanceRentServiceTestSuite) TestApplyToInvoiceInTx_FullCoverage() {
	ctx := context.Background()
	collected := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	account := suite.account(collected, 3, decimal.NewFromInt(300), decimal.Zero)
	invoice := suite.invoice(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(100), decimal.Zero, domain.InvoiceGenerated)

	suite.mockInvoiceRepo.On("UpdateAllocationInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()
	suite.mockLeaseRepo.On("UpdateAdvanceRentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.LeaseAccount")).Return(nil).Once()

	result, err := suite.service.ApplyToInvoiceInTx(ctx, nil, &invoice, account, suite.userID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(100).Equal(result.Applied))
	suite.True(result.FullyCovered)
	suite.Equal(domain.InvoicePaid, invoice.Status)
	suite.Require().NotNil(invoice.PaidDate)
	suite.True(invoice.PaidDate.Equal(invoice.InvoiceDate))
	suite.True(decimal.NewFromInt(100).Equal(account.AdvanceRentUsed))
}

func (suite *AdvanceRentServiceTestSuite) TestApplyToInvoiceInTx_PartialCoverage() {
	ctx := context.Background()
	collected := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	account := suite.account(collected, 3, decimal.NewFromInt(300), decimal.NewFromInt(250))
	invoice := suite.invoice(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(100), decimal.Zero, domain.InvoiceGenerated)

	suite.mockInvoiceRepo.On("UpdateAllocationInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()
	suite.mockLeaseRepo.On("UpdateAdvanceRentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.LeaseAccount")).Return(nil).Once()

	result, err := suite.service.ApplyToInvoiceInTx(ctx, nil, &invoice, account, suite.userID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(50).Equal(result.Applied))
	suite.False(result.FullyCovered)
	// Partially covered invoices stay open for the remainder.
	suite.Equal(domain.InvoiceGenerated, invoice.Status)
	suite.Nil(invoice.PaidDate)
	suite.True(decimal.NewFromInt(300).Equal(account.AdvanceRentUsed))
}

func (suite *AdvanceRentServiceTestSuite) TestApplyToInvoiceInTx_OutsideCoveragePeriodIsNoOp() {
	ctx := context.Background()
	collected := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	account := suite.account(collected, 2, decimal.NewFromInt(200), decimal.Zero)
	// Dated exactly at the period end: not covered (half-open range).
	invoice := suite.invoice(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(100), decimal.Zero, domain.InvoiceGenerated)

	result, err := suite.service.ApplyToInvoiceInTx(ctx, nil, &invoice, account, suite.userID)

	suite.Require().NoError(err)
	suite.True(result.Applied.IsZero())
	suite.False(result.FullyCovered)
	suite.Equal(domain.InvoiceGenerated, invoice.Status)
	suite.True(account.AdvanceRentUsed.IsZero())
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateAllocationInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AdvanceRentServiceTestSuite) TestApplyToInvoiceInTx_CancelledInvoice() {
	ctx := context.Background()
	collected := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	account := suite.account(collected, 3, decimal.NewFromInt(300), decimal.Zero)
	invoice := suite.invoice(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(100), decimal.Zero, domain.InvoiceCancelled)

	_, err := suite.service.ApplyToInvoiceInTx(ctx, nil, &invoice, account, suite.userID)

	suite.Require().ErrorIs(err, services.ErrInvoiceCancelled)
}

// --- Collection ---

func (suite *AdvanceRentServiceTestSuite) TestCollect_ResetsEpochAndAppendsLedger() {
	ctx := context.Background()
	collected := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	// Half the previous epoch already consumed.
	account := suite.account(collected, 3, decimal.NewFromInt(300), decimal.NewFromInt(150))

	req := dto.CollectAdvanceRentRequest{
		Months:          6,
		Amount:          decimal.NewFromInt(600),
		TransactionDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod:   "BANK_TRANSFER",
		ReferenceNumber: "TXN-889",
		UserID:          suite.userID,
	}

	suite.expectTx()
	suite.mockLeaseRepo.On("FindLeaseAccountByIDForUpdate", mock.Anything, mock.Anything, suite.leaseAccountID).Return(account, nil).Once()

	var persisted domain.LeaseAccount
	suite.mockLeaseRepo.On("UpdateAdvanceRentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.LeaseAccount")).Run(func(args mock.Arguments) {
		persisted = args.Get(2).(domain.LeaseAccount)
	}).Return(nil).Once()

	var savedEntry domain.LedgerEntry
	suite.mockLedgerRepo.On("SaveLedgerEntryInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.LedgerEntry")).Run(func(args mock.Arguments) {
		savedEntry = args.Get(2).(domain.LedgerEntry)
	}).Return(nil).Once()

	suite.mockLeaseRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	updated, entry, err := suite.service.Collect(ctx, suite.leaseAccountID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Require().NotNil(entry)

	// New epoch: usage resets, terms overwritten, prior usage is sunk.
	suite.Equal(6, persisted.AdvanceRentMonths)
	suite.True(decimal.NewFromInt(600).Equal(persisted.AdvanceRentAmount))
	suite.True(persisted.AdvanceRentUsed.IsZero())
	suite.Require().NotNil(persisted.AdvanceRentCollectedDate)
	suite.True(persisted.AdvanceRentCollectedDate.Equal(req.TransactionDate))

	suite.Equal(domain.LedgerRent, savedEntry.Type)
	suite.Equal(domain.CategoryMonthlyRent, savedEntry.Category)
	suite.Equal(domain.LedgerCompleted, savedEntry.Status)
	suite.Equal(domain.PaymentBankTransfer, savedEntry.PaymentMethod)
	suite.True(decimal.NewFromInt(600).Equal(savedEntry.Amount))
	suite.Equal("USD", savedEntry.CurrencyCode)
	suite.Contains(savedEntry.Description, "6 month(s)")
	suite.Contains(savedEntry.Description, "600.00 USD")

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *AdvanceRentServiceTestSuite) TestCollect_RejectsNonPositiveMonths() {
	ctx := context.Background()
	req := dto.CollectAdvanceRentRequest{
		Months:          0,
		Amount:          decimal.NewFromInt(600),
		TransactionDate: suite.fixedNow,
	}

	_, _, err := suite.service.Collect(ctx, suite.leaseAccountID, req)

	suite.Require().ErrorIs(err, services.ErrInvalidCollection)
	suite.mockLeaseRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *AdvanceRentServiceTestSuite) TestCollect_RejectsEndedLease() {
	ctx := context.Background()
	collected := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	account := suite.account(collected, 3, decimal.NewFromInt(300), decimal.Zero)
	account.Status = domain.LeaseEnded

	req := dto.CollectAdvanceRentRequest{
		Months:          3,
		Amount:          decimal.NewFromInt(300),
		TransactionDate: suite.fixedNow,
		UserID:          suite.userID,
	}

	suite.expectTx()
	suite.mockLeaseRepo.On("FindLeaseAccountByIDForUpdate", mock.Anything, mock.Anything, suite.leaseAccountID).Return(account, nil).Once()

	_, _, err := suite.service.Collect(ctx, suite.leaseAccountID, req)

	suite.Require().ErrorIs(err, services.ErrLeaseNotActive)
	suite.mockLeaseRepo.AssertNotCalled(suite.T(), "UpdateAdvanceRentInTx", mock.Anything, mock.Anything, mock.Anything)
}

// --- Coverage query ---

func (suite *AdvanceRentServiceTestSuite) TestCheckCoverage_InsidePeriod() {
	ctx := context.Background()
	collected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	account := suite.account(collected, 3, decimal.NewFromInt(300), decimal.NewFromInt(100))

	suite.mockLeaseRepo.On("FindLeaseAccountByID", mock.Anything, suite.leaseAccountID).Return(account, nil).Once()

	resp, err := suite.service.CheckCoverage(ctx, suite.leaseAccountID, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC))

	suite.Require().NoError(err)
	suite.True(resp.Covered)
	suite.True(decimal.NewFromInt(200).Equal(resp.Remaining))
	suite.Equal(2, resp.MonthsRemaining)
	suite.True(resp.CanFullyCover)
	suite.Require().NotNil(resp.PeriodStart)
	suite.True(resp.PeriodStart.Equal(collected))
}

func TestAdvanceRentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdvanceRentServiceTestSuite))
}
