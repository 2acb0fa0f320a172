package scheduler

import (
	"context"
	"time"

	"go-helpdesk/internal/config"
	"go-helpdesk/internal/features/backup"
	"go-helpdesk/internal/features/escalation"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic background jobs: the escalation sweep and the
// nightly backup. Schedules come from config as standard cron expressions.
type Scheduler struct {
	cron       *cron.Cron
	cfg        *config.Config
	escalation escalation.EscalationService
	backup     backup.BackupService
	logger     *zap.Logger
}

func NewScheduler(
	cfg *config.Config,
	escalationService escalation.EscalationService,
	backupService backup.BackupService,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		cfg:        cfg,
		escalation: escalationService,
		backup:     backupService,
		logger:     logger,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.SweepSchedule, s.runSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.BackupSchedule, s.runBackup); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("sweep_schedule", s.cfg.SweepSchedule),
		zap.String("backup_schedule", s.cfg.BackupSchedule))
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.escalation.RunSweep(ctx)
	if err != nil {
		s.logger.Error("scheduled escalation sweep failed", zap.Error(err))
		return
	}
	if len(result.Errors) > 0 {
		s.logger.Warn("escalation sweep finished with errors",
			zap.Int("fired", result.Fired),
			zap.Strings("errors", result.Errors))
	}
}

func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if _, err := s.backup.RunBackup(ctx, backup.TriggerScheduled); err != nil {
		s.logger.Error("scheduled backup failed", zap.Error(err))
	}
}
