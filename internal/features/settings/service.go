package settings

import (
	"context"

	common_models "go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/audit"
)

type SettingsService interface {
	GetEmailConfig(ctx context.Context) (*EmailConfig, error)
	UpdateEmailConfig(ctx context.Context, config EmailConfig) error
	GetGeneralConfig(ctx context.Context) (*GeneralConfig, error)
	UpdateGeneralConfig(ctx context.Context, config GeneralConfig) error
	GetBackupConfig(ctx context.Context) (*BackupConfig, error)
	UpdateBackupConfig(ctx context.Context, config BackupConfig) error
}

type SettingsServiceImpl struct {
	Repo         SettingsRepository
	AuditService audit.AuditService
}

func NewSettingsService(repo SettingsRepository, auditService audit.AuditService) SettingsService {
	return &SettingsServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

// GetEmailConfig returns nil when SMTP has never been configured; callers
// treat nil as "email delivery off".
func (s *SettingsServiceImpl) GetEmailConfig(ctx context.Context) (*EmailConfig, error) {
	var config EmailConfig
	found, err := s.Repo.Load(ctx, SettingsKeyEmail, &config)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &config, nil
}

func (s *SettingsServiceImpl) UpdateEmailConfig(ctx context.Context, config EmailConfig) error {
	oldConfig, _ := s.GetEmailConfig(ctx)

	err := s.Repo.Save(ctx, SettingsKeyEmail, config)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettings, "settings", "email_config", map[string]common_models.Change{
			"email_config": {Old: oldConfig, New: config},
		})
	}
	return err
}

func (s *SettingsServiceImpl) GetGeneralConfig(ctx context.Context) (*GeneralConfig, error) {
	var config GeneralConfig
	found, err := s.Repo.Load(ctx, SettingsKeyGeneral, &config)
	if err != nil {
		return nil, err
	}
	if !found {
		return &GeneralConfig{AppName: "Go Helpdesk"}, nil
	}
	return &config, nil
}

func (s *SettingsServiceImpl) UpdateGeneralConfig(ctx context.Context, config GeneralConfig) error {
	oldConfig, _ := s.GetGeneralConfig(ctx)

	err := s.Repo.Save(ctx, SettingsKeyGeneral, config)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettings, "settings", "general_config", map[string]common_models.Change{
			"general_config": {Old: oldConfig, New: config},
		})
	}
	return err
}

func (s *SettingsServiceImpl) GetBackupConfig(ctx context.Context) (*BackupConfig, error) {
	var config BackupConfig
	found, err := s.Repo.Load(ctx, SettingsKeyBackup, &config)
	if err != nil {
		return nil, err
	}
	if !found {
		return &BackupConfig{
			Collections: []string{"tickets", "ticket_comments", "escalation_rules", "kb_articles", "time_entries", "users"},
			KeepLast:    14,
		}, nil
	}
	return &config, nil
}

func (s *SettingsServiceImpl) UpdateBackupConfig(ctx context.Context, config BackupConfig) error {
	oldConfig, _ := s.GetBackupConfig(ctx)

	err := s.Repo.Save(ctx, SettingsKeyBackup, config)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionSettings, "settings", "backup_config", map[string]common_models.Change{
			"backup_config": {Old: oldConfig, New: config},
		})
	}
	return err
}
