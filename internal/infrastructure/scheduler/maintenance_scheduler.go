package scheduler

import (
	"context"
	"fmt"
	"time"

	billingapp "github.com/facturo/backend/internal/application/billing"
	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// defaultJobTimeout bounds a maintenance pass when no timeout is configured
const defaultJobTimeout = 10 * time.Minute

// MaintenanceScheduler runs the nightly billing maintenance pass on a cron
// schedule: expiring stale quotations and flagging overdue invoices.
type MaintenanceScheduler struct {
	cron        *cron.Cron
	config      config.SchedulerConfig
	maintenance *billingapp.MaintenanceService
	logger      *zap.Logger
}

// NewMaintenanceScheduler creates the scheduler and registers the nightly
// job. Returns an error if the configured cron expression is invalid.
func NewMaintenanceScheduler(
	cfg config.SchedulerConfig,
	maintenance *billingapp.MaintenanceService,
	logger *zap.Logger,
) (*MaintenanceScheduler, error) {
	s := &MaintenanceScheduler{
		cron:        cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		config:      cfg,
		maintenance: maintenance,
		logger:      logger,
	}

	if _, err := s.cron.AddFunc(cfg.OverdueCronSchedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", cfg.OverdueCronSchedule, err)
	}

	return s, nil
}

// Start begins executing the schedule. No-op when the scheduler is disabled.
func (s *MaintenanceScheduler) Start() {
	if !s.config.Enabled {
		s.logger.Info("Maintenance scheduler disabled")
		return
	}

	s.cron.Start()
	s.logger.Info("Maintenance scheduler started",
		zap.String("schedule", s.config.OverdueCronSchedule))
}

// Stop halts the schedule and waits for a running job to finish
func (s *MaintenanceScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Maintenance scheduler stopped")
}

// runOnce executes a single maintenance pass with the configured timeout
func (s *MaintenanceScheduler) runOnce() {
	timeout := s.config.JobTimeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	result, err := s.maintenance.RunNightly(ctx, start)
	if err != nil {
		s.logger.Error("Maintenance pass failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}

	s.logger.Info("Maintenance pass completed",
		zap.Int("quotations_expired", result.QuotationsExpired),
		zap.Int("overdue_invoices", result.OverdueInvoices),
		zap.Duration("elapsed", time.Since(start)))
}
