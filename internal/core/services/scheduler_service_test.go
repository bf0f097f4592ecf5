package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/leasepay/lease_management_app/internal/core/domain"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/core/services"
	"github.com/leasepay/lease_management_app/internal/dto"
)

// --- Mock InvoiceGenerator ---
type MockInvoiceGenerator struct {
	mock.Mock
}

// Ensure MockInvoiceGenerator implements portssvc.InvoiceGeneratorSvc
var _ portssvc.InvoiceGeneratorSvc = (*MockInvoiceGenerator)(nil)

func (m *MockInvoiceGenerator) GenerateForLandlord(ctx context.Context, landlordID string, invoiceDate *time.Time) (*dto.GenerationResult, error) {
	args := m.Called(ctx, landlordID, invoiceDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenerationResult), args.Error(1)
}

// --- Test Suite Setup ---
type SchedulerServiceTestSuite struct {
	suite.Suite
	mockLandlordRepo *MockLandlordRepository
	mockGenerator    *MockInvoiceGenerator
	service          portssvc.SchedulerSvcFacade
	fixedNow         time.Time
}

func (suite *SchedulerServiceTestSuite) SetupTest() {
	suite.mockLandlordRepo = new(MockLandlordRepository)
	suite.mockGenerator = new(MockInvoiceGenerator)
	// April 30th: the last day of a 30-day month.
	suite.fixedNow = time.Date(2025, 4, 30, 2, 0, 0, 0, time.UTC)
	suite.service = services.NewSchedulerService(
		suite.mockLandlordRepo,
		suite.mockGenerator,
		services.WithSchedulerNowFunc(func() time.Time { return suite.fixedNow }),
	)
}

func (suite *SchedulerServiceTestSuite) landlord(enabled bool, dayOfMonth int) domain.Landlord {
	return domain.Landlord{
		LandlordID: uuid.NewString(),
		Name:       "Landlord " + uuid.NewString()[:8],
		AutoInvoice: domain.AutoInvoiceSettings{
			Enabled:        enabled,
			DayOfMonth:     dayOfMonth,
			DefaultDueDays: 30,
		},
	}
}

func (suite *SchedulerServiceTestSuite) generationResult(landlordID string, created int) *dto.GenerationResult {
	details := make([]dto.CreatedInvoiceDetail, created)
	for i := range details {
		details[i] = dto.CreatedInvoiceDetail{
			InvoiceID:  uuid.NewString(),
			RentAmount: decimal.NewFromInt(1000),
		}
	}
	return &dto.GenerationResult{
		LandlordID:   landlordID,
		CreatedCount: created,
		Created:      details,
		Message:      "ok",
	}
}

func (suite *SchedulerServiceTestSuite) TestGenerateForAllEnabled_DayOfMonthClampedToMonthLength() {
	ctx := context.Background()
	// Configured for the 31st; April has 30 days, so it fires today (the 30th).
	clamped := suite.landlord(true, 31)

	suite.mockLandlordRepo.On("ListLandlords", mock.Anything).Return([]domain.Landlord{clamped}, nil).Once()
	suite.mockGenerator.On("GenerateForLandlord", mock.Anything, clamped.LandlordID, mock.AnythingOfType("*time.Time")).Return(suite.generationResult(clamped.LandlordID, 2), nil).Once()
	suite.mockLandlordRepo.On("UpdateLastRunStatus", mock.Anything, clamped.LandlordID, suite.fixedNow, domain.RunSuccess, "ok").Return(nil).Once()

	result, err := suite.service.GenerateForAllEnabled(ctx, nil)

	suite.Require().NoError(err)
	suite.Equal(1, result.TotalLandlords)
	suite.Equal(1, result.Processed)
	suite.Equal(1, result.Succeeded)
	suite.Equal(0, result.Failed)
	// Default invoice date is the first of the current month.
	suite.True(result.InvoiceDate.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	suite.mockGenerator.AssertExpectations(suite.T())
	suite.mockLandlordRepo.AssertExpectations(suite.T())
}

func (suite *SchedulerServiceTestSuite) TestGenerateForAllEnabled_SkipsDisabledAndNotDue() {
	ctx := context.Background()
	disabled := suite.landlord(false, 30)
	notDue := suite.landlord(true, 15)

	suite.mockLandlordRepo.On("ListLandlords", mock.Anything).Return([]domain.Landlord{disabled, notDue}, nil).Once()

	result, err := suite.service.GenerateForAllEnabled(ctx, nil)

	suite.Require().NoError(err)
	suite.Equal(2, result.TotalLandlords)
	suite.Equal(0, result.Processed)
	suite.Empty(result.Results)
	suite.mockGenerator.AssertNotCalled(suite.T(), "GenerateForLandlord", mock.Anything, mock.Anything, mock.Anything)
	suite.mockLandlordRepo.AssertNotCalled(suite.T(), "UpdateLastRunStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SchedulerServiceTestSuite) TestGenerateForAllEnabled_OneFailureDoesNotBlockOthers() {
	ctx := context.Background()
	failing := suite.landlord(true, 30)
	healthy := suite.landlord(true, 30)
	genErr := errors.New("connection reset")

	suite.mockLandlordRepo.On("ListLandlords", mock.Anything).Return([]domain.Landlord{failing, healthy}, nil).Once()
	suite.mockGenerator.On("GenerateForLandlord", mock.Anything, failing.LandlordID, mock.Anything).Return(nil, genErr).Once()
	suite.mockGenerator.On("GenerateForLandlord", mock.Anything, healthy.LandlordID, mock.Anything).Return(suite.generationResult(healthy.LandlordID, 1), nil).Once()
	suite.mockLandlordRepo.On("UpdateLastRunStatus", mock.Anything, failing.LandlordID, suite.fixedNow, domain.RunFailed, mock.AnythingOfType("string")).Return(nil).Once()
	suite.mockLandlordRepo.On("UpdateLastRunStatus", mock.Anything, healthy.LandlordID, suite.fixedNow, domain.RunSuccess, "ok").Return(nil).Once()

	result, err := suite.service.GenerateForAllEnabled(ctx, nil)

	suite.Require().NoError(err)
	suite.Equal(2, result.Processed)
	suite.Equal(1, result.Succeeded)
	suite.Equal(1, result.Failed)

	suite.Require().Len(result.Results, 2)
	suite.Equal(domain.RunFailed, result.Results[0].Status)
	suite.Contains(result.Results[0].Message, "generation failed")
	suite.Equal(domain.RunSuccess, result.Results[1].Status)
	suite.mockGenerator.AssertExpectations(suite.T())
	suite.mockLandlordRepo.AssertExpectations(suite.T())
}

func (suite *SchedulerServiceTestSuite) TestGenerateForAllEnabled_RunStatusWriteFailureIsNonFatal() {
	ctx := context.Background()
	landlord := suite.landlord(true, 30)

	suite.mockLandlordRepo.On("ListLandlords", mock.Anything).Return([]domain.Landlord{landlord}, nil).Once()
	suite.mockGenerator.On("GenerateForLandlord", mock.Anything, landlord.LandlordID, mock.Anything).Return(suite.generationResult(landlord.LandlordID, 1), nil).Once()
	suite.mockLandlordRepo.On("UpdateLastRunStatus", mock.Anything, landlord.LandlordID, suite.fixedNow, domain.RunSuccess, "ok").Return(errors.New("write timeout")).Once()

	result, err := suite.service.GenerateForAllEnabled(ctx, nil)

	// The write-back is best effort: the run still counts as a success.
	suite.Require().NoError(err)
	suite.Equal(1, result.Succeeded)
	suite.Equal(domain.RunSuccess, result.Results[0].Status)
}

func (suite *SchedulerServiceTestSuite) TestGenerateForAllEnabled_ExplicitInvoiceDatePassedThrough() {
	ctx := context.Background()
	landlord := suite.landlord(true, 30)
	backfill := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	suite.mockLandlordRepo.On("ListLandlords", mock.Anything).Return([]domain.Landlord{landlord}, nil).Once()
	suite.mockGenerator.On("GenerateForLandlord", mock.Anything, landlord.LandlordID, &backfill).Return(suite.generationResult(landlord.LandlordID, 1), nil).Once()
	suite.mockLandlordRepo.On("UpdateLastRunStatus", mock.Anything, landlord.LandlordID, suite.fixedNow, domain.RunSuccess, "ok").Return(nil).Once()

	result, err := suite.service.GenerateForAllEnabled(ctx, &backfill)

	suite.Require().NoError(err)
	suite.True(result.InvoiceDate.Equal(backfill))
	suite.mockGenerator.AssertExpectations(suite.T())
}

func TestSchedulerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerServiceTestSuite))
}
