package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leasepay/lease_management_app/internal/core/domain"
	portsrepo "github.com/leasepay/lease_management_app/internal/core/ports/repositories"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/dto"
)

// schedulerService fans invoice generation out across all landlords whose
// configuration enables it for the current day. Landlords are processed
// independently: one landlord's failure never blocks another's run.
type schedulerService struct {
	BaseService
	landlordRepo portsrepo.LandlordRepositoryFacade
	generator    portssvc.InvoiceGeneratorSvc

	now func() time.Time
}

// SchedulerServiceOption configures optional service behavior.
type SchedulerServiceOption func(*schedulerService)

// WithSchedulerNowFunc overrides the clock, for tests.
func WithSchedulerNowFunc(now func() time.Time) SchedulerServiceOption {
	return func(s *schedulerService) {
		s.now = now
	}
}

// NewSchedulerService creates a new SchedulerService.
func NewSchedulerService(
	landlordRepo portsrepo.LandlordRepositoryFacade,
	generator portssvc.InvoiceGeneratorSvc,
	opts ...SchedulerServiceOption,
) portssvc.SchedulerSvcFacade {
	s := &schedulerService{
		landlordRepo: landlordRepo,
		generator:    generator,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.SchedulerSvcFacade = (*schedulerService)(nil)

// daysInMonth returns the number of days in t's month.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// effectiveRunDay clamps a configured day of month to the current month's
// length, so a landlord configured for day 31 still fires on Feb 28/29 and
// the 30-day months.
func effectiveRunDay(configured int, today time.Time) int {
	if last := daysInMonth(today); configured > last {
		return last
	}
	return configured
}

// GenerateForAllEnabled runs invoice generation for every landlord whose
// auto-invoice settings are enabled and due today, recording each landlord's
// run status on its settings as a best-effort side effect.
func (s *schedulerService) GenerateForAllEnabled(ctx context.Context, invoiceDate *time.Time) (*dto.BatchGenerationResult, error) {
	today := s.now()
	date := firstOfMonth(today)
	if invoiceDate != nil {
		date = *invoiceDate
	}

	result := &dto.BatchGenerationResult{
		InvoiceDate: date,
		Results:     []dto.LandlordRunResult{},
	}

	landlords, err := s.landlordRepo.ListLandlords(ctx)
	if err != nil {
		return nil, err
	}
	result.TotalLandlords = len(landlords)

	var due []domain.Landlord
	for _, landlord := range landlords {
		cfg := landlord.AutoInvoice
		if !cfg.Enabled {
			continue
		}
		if effectiveRunDay(cfg.DayOfMonth, today) != today.Day() {
			continue
		}
		due = append(due, landlord)
	}
	if len(due) == 0 {
		s.LogInfo(ctx, "No landlords due for automated invoice generation", slog.Int("total", result.TotalLandlords))
		return result, nil
	}

	for _, landlord := range due {
		runResult := dto.LandlordRunResult{LandlordID: landlord.LandlordID}

		genResult, genErr := s.generator.GenerateForLandlord(ctx, landlord.LandlordID, &date)
		if genErr != nil {
			runResult.Status = domain.RunFailed
			runResult.Message = fmt.Sprintf("generation failed: %v", genErr)
			runResult.Result = genResult
			result.Failed++
		} else {
			runResult.Status = domain.RunSuccess
			runResult.Message = genResult.Message
			runResult.Result = genResult
			result.Succeeded++
		}
		result.Processed++

		// Best effort: a failure to record the run status must not fail the
		// run or change the landlord's generation outcome.
		if err := s.landlordRepo.UpdateLastRunStatus(ctx, landlord.LandlordID, s.now(), runResult.Status, runResult.Message); err != nil {
			s.LogWarn(ctx, "Failed to persist landlord run status",
				slog.String("landlord_id", landlord.LandlordID),
				slog.String("error", err.Error()),
			)
		}

		result.Results = append(result.Results, runResult)
	}

	s.LogInfo(ctx, "Automated invoice generation completed",
		slog.Int("total_landlords", result.TotalLandlords),
		slog.Int("processed", result.Processed),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}
