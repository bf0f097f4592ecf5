package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/leasepay/lease_management_app/internal/apperrors"
	"github.com/leasepay/lease_management_app/internal/core/domain"
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/core/services"
	"github.com/leasepay/lease_management_app/internal/dto"
)

// --- Mock LandlordRepository ---
type MockLandlordRepository struct {
	mock.Mock
}

// Ensure MockLandlordRepository implements portsrepo.LandlordRepositoryFacade
var _ portsrepo.LandlordRepositoryFacade = (*MockLandlordRepository)(nil)

func (m *MockLandlordRepository) FindLandlordByID(ctx context.Context, landlordID string) (*domain.Landlord, error) {
	args := m.Called(ctx, landlordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Landlord), args.Error(1)
}

func (m *MockLandlordRepository) ListLandlords(ctx context.Context) ([]domain.Landlord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Landlord), args.Error(1)
}

func (m *MockLandlordRepository) UpdateLastRunStatus(ctx context.Context, landlordID string, runAt time.Time, status domain.RunStatus, message string) error {
	args := m.Called(ctx, landlordID, runAt, status, message)
	return args.Error(0)
}

// --- Mock AdvanceRentApplier ---
type MockAdvanceRentApplier struct {
	mock.Mock
}

// Ensure MockAdvanceRentApplier implements portssvc.AdvanceRentApplierSvc
var _ portssvc.AdvanceRentApplierSvc = (*MockAdvanceRentApplier)(nil)

func (m *MockAdvanceRentApplier) ApplyToInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice, account *domain.LeaseAccount, userID string) (dto.ApplicationResult, error) {
	args := m.Called(ctx, tx, invoice, account, userID)
	return args.Get(0).(dto.ApplicationResult), args.Error(1)
}

// --- Test Suite Setup ---
type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo  *MockInvoiceRepository
	mockLeaseRepo    *MockLeaseAccountRepository
	mockLandlordRepo *MockLandlordRepository
	mockApplier      *MockAdvanceRentApplier
	service          portssvc.InvoiceSvcFacade
	landlordID       string
	fixedNow         time.Time
	invoiceDate      time.Time
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockLeaseRepo = new(MockLeaseAccountRepository)
	suite.mockLandlordRepo = new(MockLandlordRepository)
	suite.mockApplier = new(MockAdvanceRentApplier)
	suite.fixedNow = time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
	suite.invoiceDate = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	suite.service = services.NewInvoiceService(
		suite.mockInvoiceRepo,
		suite.mockLeaseRepo,
		suite.mockLandlordRepo,
		suite.mockApplier,
		services.WithInvoiceNowFunc(func() time.Time { return suite.fixedNow }),
	)

	suite.landlordID = uuid.NewString()
}

func (suite *InvoiceServiceTestSuite) landlord(dueDays int) *domain.Landlord {
	return &domain.Landlord{
		LandlordID: suite.landlordID,
		Name:       "Hillside Properties",
		AutoInvoice: domain.AutoInvoiceSettings{
			Enabled:        true,
			DayOfMonth:     1,
			DefaultDueDays: dueDays,
		},
	}
}

func (suite *InvoiceServiceTestSuite) activeAccount(unitID string, rent decimal.Decimal) domain.LeaseAccount {
	return domain.LeaseAccount{
		LeaseAccountID:    uuid.NewString(),
		LandlordID:        suite.landlordID,
		TenantID:          uuid.NewString(),
		UnitID:            unitID,
		MonthlyRent:       rent,
		CurrencyCode:      "USD",
		Status:            domain.LeaseActive,
		AdvanceRentAmount: decimal.Zero,
		AdvanceRentUsed:   decimal.Zero,
	}
}

func (suite *InvoiceServiceTestSuite) expectGenerationTx() {
	suite.mockInvoiceRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockInvoiceRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *InvoiceServiceTestSuite) TestGenerateForLandlord_CreatesInvoicesWithLandlordTerms() {
	ctx := context.Background()
	rent := decimal.NewFromInt(1200)
	accounts := []domain.LeaseAccount{
		suite.activeAccount("A-101", rent),
		suite.activeAccount("A-102", rent),
	}

	suite.mockLandlordRepo.On("FindLandlordByID", mock.Anything, suite.landlordID).Return(suite.landlord(15), nil).Once()
	active := domain.LeaseActive
	suite.mockLeaseRepo.On("ListLeaseAccountsByLandlord", mock.Anything, suite.landlordID, &active).Return(accounts, nil).Once()

	suite.expectGenerationTx()
	suite.mockInvoiceRepo.On("FindInvoiceForPeriodInTx", mock.Anything, mock.Anything, mock.AnythingOfType("string"), suite.invoiceDate).Return(nil, nil).Twice()

	var savedInvoices []domain.Invoice
	suite.mockInvoiceRepo.On("SaveInvoiceInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Invoice")).Run(func(args mock.Arguments) {
		savedInvoices = append(savedInvoices, args.Get(2).(domain.Invoice))
	}).Return(nil).Twice()

	for i := range accounts {
		suite.mockLeaseRepo.On("FindLeaseAccountByIDForUpdate", mock.Anything, mock.Anything, accounts[i].LeaseAccountID).Return(&accounts[i], nil).Once()
	}
	suite.mockApplier.On("ApplyToInvoiceInTx", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.Invoice"), mock.AnythingOfType("*domain.LeaseAccount"), "system").Return(dto.ApplicationResult{Applied: decimal.Zero}, nil).Twice()

	suite.mockInvoiceRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.GenerateForLandlord(ctx, suite.landlordID, &suite.invoiceDate)

	suite.Require().NoError(err)
	suite.Equal(2, result.CreatedCount)
	suite.Equal(0, result.SkippedCount)
	suite.Equal(0, result.FailedCount)
	suite.Require().Len(savedInvoices, 2)

	first := savedInvoices[0]
	suite.Equal("INV-A-101-202504", first.InvoiceNumber)
	suite.True(first.InvoiceDate.Equal(suite.invoiceDate))
	// Due date honors the landlord's configured payment terms.
	suite.True(first.DueDate.Equal(suite.invoiceDate.AddDate(0, 0, 15)))
	suite.True(rent.Equal(first.RentAmount))
	suite.Equal(domain.InvoiceGenerated, first.Status)
	suite.Equal("system", first.CreatedBy)

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockApplier.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestGenerateForLandlord_MissingSettingsFallBackToDefaults() {
	ctx := context.Background()
	account := suite.activeAccount("B-201", decimal.NewFromInt(800))

	suite.mockLandlordRepo.On("FindLandlordByID", mock.Anything, suite.landlordID).Return(nil, apperrors.ErrNotFound).Once()
	active := domain.LeaseActive
	suite.mockLeaseRepo.On("ListLeaseAccountsByLandlord", mock.Anything, suite.landlordID, &active).Return([]domain.LeaseAccount{account}, nil).Once()

	suite.expectGenerationTx()
	suite.mockInvoiceRepo.On("FindInvoiceForPeriodInTx", mock.Anything, mock.Anything, account.LeaseAccountID, suite.invoiceDate).Return(nil, nil).Once()

	var saved domain.Invoice
	suite.mockInvoiceRepo.On("SaveInvoiceInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Invoice")).Run(func(args mock.Arguments) {
		saved = args.Get(2).(domain.Invoice)
	}).Return(nil).Once()
	suite.mockLeaseRepo.On("FindLeaseAccountByIDForUpdate", mock.Anything, mock.Anything, account.LeaseAccountID).Return(&account, nil).Once()
	suite.mockApplier.On("ApplyToInvoiceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "system").Return(dto.ApplicationResult{Applied: decimal.Zero}, nil).Once()
	suite.mockInvoiceRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.GenerateForLandlord(ctx, suite.landlordID, &suite.invoiceDate)

	suite.Require().NoError(err)
	suite.Equal(1, result.CreatedCount)
	suite.True(saved.DueDate.Equal(suite.invoiceDate.AddDate(0, 0, domain.DefaultDueDays)))
}

func (suite *InvoiceServiceTestSuite) TestGenerateForLandlord_ExistingInvoiceIsSkipped() {
	ctx := context.Background()
	account := suite.activeAccount("C-301", decimal.NewFromInt(900))
	existing := &domain.Invoice{
		InvoiceID:      uuid.NewString(),
		LeaseAccountID: account.LeaseAccountID,
		InvoiceDate:    suite.invoiceDate,
		Status:         domain.InvoiceGenerated,
	}

	suite.mockLandlordRepo.On("FindLandlordByID", mock.Anything, suite.landlordID).Return(suite.landlord(30), nil).Once()
	active := domain.LeaseActive
	suite.mockLeaseRepo.On("ListLeaseAccountsByLandlord", mock.Anything, suite.landlordID, &active).Return([]domain.LeaseAccount{account}, nil).Once()

	suite.expectGenerationTx()
	suite.mockInvoiceRepo.On("FindInvoiceForPeriodInTx", mock.Anything, mock.Anything, account.LeaseAccountID, suite.invoiceDate).Return(existing, nil).Once()
	suite.mockInvoiceRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.GenerateForLandlord(ctx, suite.landlordID, &suite.invoiceDate)

	suite.Require().NoError(err)
	suite.Equal(0, result.CreatedCount)
	suite.Equal(1, result.SkippedCount)
	suite.Equal(account.LeaseAccountID, result.Skipped[0].LeaseAccountID)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestGenerateForLandlord_UnsetRentRecordedAsFailure() {
	ctx := context.Background()
	good := suite.activeAccount("D-401", decimal.NewFromInt(700))
	bad := suite.activeAccount("D-402", decimal.Zero)

	suite.mockLandlordRepo.On("FindLandlordByID", mock.Anything, suite.landlordID).Return(suite.landlord(30), nil).Once()
	active := domain.LeaseActive
	suite.mockLeaseRepo.On("ListLeaseAccountsByLandlord", mock.Anything, suite.landlordID, &active).Return([]domain.LeaseAccount{good, bad}, nil).Once()

	suite.expectGenerationTx()
	suite.mockInvoiceRepo.On("FindInvoiceForPeriodInTx", mock.Anything, mock.Anything, mock.AnythingOfType("string"), suite.invoiceDate).Return(nil, nil).Twice()
	suite.mockInvoiceRepo.On("SaveInvoiceInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()
	suite.mockLeaseRepo.On("FindLeaseAccountByIDForUpdate", mock.Anything, mock.Anything, good.LeaseAccountID).Return(&good, nil).Once()
	suite.mockApplier.On("ApplyToInvoiceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "system").Return(dto.ApplicationResult{Applied: decimal.Zero}, nil).Once()
	suite.mockInvoiceRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.GenerateForLandlord(ctx, suite.landlordID, &suite.invoiceDate)

	// One bad account does not abort the batch.
	suite.Require().NoError(err)
	suite.Equal(1, result.CreatedCount)
	suite.Equal(1, result.FailedCount)
	suite.Equal(bad.LeaseAccountID, result.Failed[0].LeaseAccountID)
	suite.Equal("monthly rent not set", result.Failed[0].Reason)
}

func (suite *InvoiceServiceTestSuite) TestGenerateForLandlord_DuplicateOnSaveIsSkipped() {
	ctx := context.Background()
	account := suite.activeAccount("E-501", decimal.NewFromInt(650))

	suite.mockLandlordRepo.On("FindLandlordByID", mock.Anything, suite.landlordID).Return(suite.landlord(30), nil).Once()
	active := domain.LeaseActive
	suite.mockLeaseRepo.On("ListLeaseAccountsByLandlord", mock.Anything, suite.landlordID, &active).Return([]domain.LeaseAccount{account}, nil).Once()

	suite.expectGenerationTx()
	suite.mockInvoiceRepo.On("FindInvoiceForPeriodInTx", mock.Anything, mock.Anything, account.LeaseAccountID, suite.invoiceDate).Return(nil, nil).Once()
	// A concurrent run won the insert race after the guard passed.
	dupErr := fmt.Errorf("%w: invoice for lease account %s already exists", apperrors.ErrDuplicate, account.LeaseAccountID)
	suite.mockInvoiceRepo.On("SaveInvoiceInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Invoice")).Return(dupErr).Once()
	suite.mockInvoiceRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.GenerateForLandlord(ctx, suite.landlordID, &suite.invoiceDate)

	suite.Require().NoError(err)
	suite.Equal(0, result.CreatedCount)
	suite.Equal(1, result.SkippedCount)
	suite.mockApplier.AssertNotCalled(suite.T(), "ApplyToInvoiceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestGenerateForLandlord_StoreErrorAbortsRun() {
	ctx := context.Background()
	account := suite.activeAccount("F-601", decimal.NewFromInt(1000))
	storeErr := errors.New("connection reset")

	suite.mockLandlordRepo.On("FindLandlordByID", mock.Anything, suite.landlordID).Return(suite.landlord(30), nil).Once()
	active := domain.LeaseActive
	suite.mockLeaseRepo.On("ListLeaseAccountsByLandlord", mock.Anything, suite.landlordID, &active).Return([]domain.LeaseAccount{account}, nil).Once()

	suite.expectGenerationTx()
	suite.mockInvoiceRepo.On("FindInvoiceForPeriodInTx", mock.Anything, mock.Anything, account.LeaseAccountID, suite.invoiceDate).Return(nil, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Invoice")).Return(storeErr).Once()

	result, err := suite.service.GenerateForLandlord(ctx, suite.landlordID, &suite.invoiceDate)

	// The caller gets the partial result plus the error; nothing commits.
	suite.Require().ErrorIs(err, storeErr)
	suite.Require().NotNil(result)
	suite.Contains(result.Message, "aborted")
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestGenerateForLandlord_NoActiveAccounts() {
	ctx := context.Background()

	suite.mockLandlordRepo.On("FindLandlordByID", mock.Anything, suite.landlordID).Return(suite.landlord(30), nil).Once()
	active := domain.LeaseActive
	suite.mockLeaseRepo.On("ListLeaseAccountsByLandlord", mock.Anything, suite.landlordID, &active).Return([]domain.LeaseAccount{}, nil).Once()

	result, err := suite.service.GenerateForLandlord(ctx, suite.landlordID, &suite.invoiceDate)

	suite.Require().NoError(err)
	suite.Equal(0, result.CreatedCount)
	suite.Contains(result.Message, "No active lease accounts")
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestMarkInvoicePaid_AlreadyPaid() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	paid := &domain.Invoice{
		InvoiceID: invoiceID,
		Status:    domain.InvoicePaid,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, invoiceID).Return(paid, nil).Once()

	_, err := suite.service.MarkInvoicePaid(ctx, invoiceID, dto.MarkInvoicePaidRequest{
		PaidDate:      suite.fixedNow,
		PaymentMethod: "CASH",
	})

	suite.Require().ErrorIs(err, services.ErrInvoiceAlreadyPaid)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "MarkInvoicePaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestMarkInvoicePaid_RecordsPayment() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	userID := uuid.NewString()
	paidDate := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	open := &domain.Invoice{
		InvoiceID:  invoiceID,
		RentAmount: decimal.NewFromInt(500),
		Status:     domain.InvoiceGenerated,
	}
	method := domain.PaymentBankTransfer
	updated := &domain.Invoice{
		InvoiceID:     invoiceID,
		RentAmount:    decimal.NewFromInt(500),
		Status:        domain.InvoicePaid,
		PaidDate:      &paidDate,
		PaymentMethod: &method,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, invoiceID).Return(open, nil).Once()
	suite.mockInvoiceRepo.On("MarkInvoicePaid", mock.Anything, invoiceID, paidDate, domain.PaymentBankTransfer, userID, suite.fixedNow).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, invoiceID).Return(updated, nil).Once()

	resp, err := suite.service.MarkInvoicePaid(ctx, invoiceID, dto.MarkInvoicePaidRequest{
		PaidDate:      paidDate,
		PaymentMethod: "BANK_TRANSFER",
		UserID:        userID,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, resp.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
