package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/middleware"
)

const generationRunTimeout = 10 * time.Minute

// Runner owns the cron schedule that triggers the daily invoice generation
// sweep.
type Runner struct {
	cron      *cron.Cron
	scheduler portssvc.SchedulerSvcFacade
	logger    *slog.Logger
}

// NewRunner creates a cron runner for the generation sweep. Schedules use the
// standard five-field cron format, interpreted in UTC.
func NewRunner(schedulerService portssvc.SchedulerSvcFacade, logger *slog.Logger) *Runner {
	return &Runner{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		scheduler: schedulerService,
		logger:    logger,
	}
}

// Start registers the sweep under the given cron spec and starts the
// scheduler in its own goroutine.
func (r *Runner) Start(spec string) error {
	_, err := r.cron.AddFunc(spec, r.runSweep)
	if err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("Invoice generation cron scheduled", slog.String("spec", spec))
	return nil
}

// Stop stops the cron scheduler and waits for a running sweep to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Runner) runSweep() {
	runID := time.Now().UTC().Format("20060102T150405Z")
	logger := r.logger.With(slog.String("generation_run_id", runID))

	ctx, cancel := context.WithTimeout(context.Background(), generationRunTimeout)
	defer cancel()
	ctx = middleware.ContextWithLogger(ctx, logger)

	logger.Info("Starting scheduled invoice generation sweep")
	result, err := r.scheduler.GenerateForAllEnabled(ctx, nil)
	if err != nil {
		logger.Error("Scheduled invoice generation sweep failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("Scheduled invoice generation sweep completed",
		slog.Int("total_landlords", result.TotalLandlords),
		slog.Int("processed", result.Processed),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed))
}
