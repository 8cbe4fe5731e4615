package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Background jobs: hourly game reminders and a periodic refresh of the cached
// winning-chance aggregate. Both are best-effort; a failed run is logged and
// the next tick tries again.
const (
	reminderSpec = "0 * * * *"
	statsSpec    = "@every 10m"
)

type reminderService interface {
	SendReminders(ctx context.Context) error
}

type statsService interface {
	RefreshWinningChance(ctx context.Context) error
}

type Scheduler struct {
	logger *slog.Logger
	cron   *cron.Cron

	reminderService reminderService
	statsService    statsService
}

func New(logger *slog.Logger, reminderService reminderService, statsService statsService) *Scheduler {
	return &Scheduler{
		logger: logger.With("component", "scheduler"),
		cron:   cron.New(),

		reminderService: reminderService,
		statsService:    statsService,
	}
}

func (that *Scheduler) Start() error {
	if _, err := that.cron.AddFunc(reminderSpec, func() {
		if err := that.reminderService.SendReminders(context.Background()); err != nil {
			that.logger.Error("reminder job failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}

	if _, err := that.cron.AddFunc(statsSpec, func() {
		if err := that.statsService.RefreshWinningChance(context.Background()); err != nil {
			that.logger.Error("winning chance refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule stats job: %w", err)
	}

	that.cron.Start()
	that.logger.Info("scheduler started")

	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (that *Scheduler) Stop() {
	ctx := that.cron.Stop()
	<-ctx.Done()
	that.logger.Info("scheduler stopped")
}
