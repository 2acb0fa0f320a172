package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go-helpdesk/internal/common/models"
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/internal/features/settings"
	"go-helpdesk/internal/features/ticket"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type BackupService interface {
	// RunBackup dumps the configured collections to timestamped JSON files
	// and, when enabled, archives resolved tickets to Postgres.
	RunBackup(ctx context.Context, trigger RunTrigger) (*Run, error)
	ListRuns(ctx context.Context, limit int64) ([]Run, error)
	ListBackups() ([]string, error)
}

type BackupServiceImpl struct {
	runs         RunRepository
	dumps        DumpReader
	settings     settings.SettingsService
	archiver     TicketArchiver
	tickets      ticket.TicketRepository
	auditService audit.AuditService
	cfg          *config.Config
	logger       *zap.Logger
}

func NewBackupService(
	runs RunRepository,
	dumps DumpReader,
	settingsService settings.SettingsService,
	archiver TicketArchiver,
	tickets ticket.TicketRepository,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) BackupService {
	return &BackupServiceImpl{
		runs:         runs,
		dumps:        dumps,
		settings:     settingsService,
		archiver:     archiver,
		tickets:      tickets,
		auditService: auditService,
		cfg:          cfg,
		logger:       logger,
	}
}

func (s *BackupServiceImpl) RunBackup(ctx context.Context, trigger RunTrigger) (*Run, error) {
	backupCfg, err := s.settings.GetBackupConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load backup config: %w", err)
	}

	dir := filepath.Join(s.cfg.BackupDir, time.Now().Format("20060102_150405"))
	run := &Run{
		Status:      RunStatusRunning,
		Trigger:     trigger,
		Directory:   dir,
		Collections: backupCfg.Collections,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	docs, archived, runErr := s.execute(ctx, backupCfg, dir)
	run.Documents = docs
	run.Archived = archived

	now := time.Now()
	update := bson.M{
		"documents":   docs,
		"archived":    archived,
		"finished_at": now,
	}
	if runErr != nil {
		run.Status = RunStatusFailed
		run.Error = runErr.Error()
		update["status"] = RunStatusFailed
		update["error"] = runErr.Error()
		s.logger.Error("backup failed", zap.String("dir", dir), zap.Error(runErr))
	} else {
		run.Status = RunStatusCompleted
		update["status"] = RunStatusCompleted
		s.logger.Info("backup completed",
			zap.String("dir", dir),
			zap.Int64("documents", docs),
			zap.Int64("archived", archived))
	}
	run.FinishedAt = &now
	_ = s.runs.Update(ctx, run.ID, update)

	_ = s.auditService.LogChange(ctx, models.AuditActionBackup, "backups", run.ID.Hex(), map[string]models.Change{
		"backup": {New: run.Status},
	})

	if runErr != nil {
		return run, runErr
	}

	s.prune(backupCfg.KeepLast)
	return run, nil
}

func (s *BackupServiceImpl) execute(ctx context.Context, backupCfg *settings.BackupConfig, dir string) (int64, int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("failed to create backup directory: %w", err)
	}

	var total int64
	for _, collection := range backupCfg.Collections {
		docs, err := s.dumps.ReadAll(ctx, collection)
		if err != nil {
			return total, 0, fmt.Errorf("failed to read collection %s: %w", collection, err)
		}

		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return total, 0, fmt.Errorf("failed to serialize collection %s: %w", collection, err)
		}

		path := filepath.Join(dir, collection+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return total, 0, fmt.Errorf("failed to write %s: %w", path, err)
		}
		total += int64(len(docs))
	}

	var archived int64
	if backupCfg.ArchiveResolved && s.cfg.ArchiveDSN != "" {
		resolved, _, err := s.tickets.FindAll(ctx, bson.M{
			"status": bson.M{"$in": []ticket.TicketStatus{
				ticket.TicketStatusResolved, ticket.TicketStatusClosed,
			}},
		}, 1, 100000, "resolved_at", -1)
		if err != nil {
			return total, 0, fmt.Errorf("failed to load resolved tickets: %w", err)
		}
		archived, err = s.archiver.ArchiveResolved(ctx, resolved)
		if err != nil {
			return total, archived, err
		}
	}

	return total, archived, nil
}

// prune removes the oldest backup directories beyond keepLast.
func (s *BackupServiceImpl) prune(keepLast int) {
	if keepLast < 1 {
		return
	}
	dirs, err := s.ListBackups()
	if err != nil || len(dirs) <= keepLast {
		return
	}
	// ListBackups returns newest first
	for _, dir := range dirs[keepLast:] {
		if err := os.RemoveAll(filepath.Join(s.cfg.BackupDir, dir)); err != nil {
			s.logger.Warn("failed to prune backup", zap.String("dir", dir), zap.Error(err))
		}
	}
}

func (s *BackupServiceImpl) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	return s.runs.List(ctx, limit)
}

func (s *BackupServiceImpl) ListBackups() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	return dirs, nil
}
