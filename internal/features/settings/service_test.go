package settings

import (
	"context"
	"testing"

	"go-helpdesk/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
)

type fakeSettingsRepo struct {
	docs map[SettingsKey][]byte
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{docs: map[SettingsKey][]byte{}}
}

func (f *fakeSettingsRepo) Load(ctx context.Context, key SettingsKey, out interface{}) (bool, error) {
	raw, ok := f.docs[key]
	if !ok {
		return false, nil
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeSettingsRepo) Save(ctx context.Context, key SettingsKey, config interface{}) error {
	raw, err := bson.Marshal(config)
	if err != nil {
		return err
	}
	f.docs[key] = raw
	return nil
}

type fakeAudit struct{}

func (fakeAudit) LogChange(ctx context.Context, action models.AuditAction, module string, recordID string, changes map[string]models.Change) error {
	return nil
}

func (fakeAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]models.AuditLog, error) {
	return nil, nil
}

func TestEmailConfigNilUntilConfigured(t *testing.T) {
	service := NewSettingsService(newFakeSettingsRepo(), fakeAudit{})

	config, err := service.GetEmailConfig(context.Background())
	if err != nil {
		t.Fatalf("GetEmailConfig() error = %v", err)
	}
	if config != nil {
		t.Errorf("GetEmailConfig() = %+v, want nil before any save", config)
	}
}

func TestEmailConfigRoundTrip(t *testing.T) {
	service := NewSettingsService(newFakeSettingsRepo(), fakeAudit{})

	want := EmailConfig{
		SMTPHost:  "smtp.helpdesk.local",
		SMTPPort:  587,
		FromEmail: "noreply@helpdesk.local",
		FromName:  "Helpdesk",
	}
	if err := service.UpdateEmailConfig(context.Background(), want); err != nil {
		t.Fatalf("UpdateEmailConfig() error = %v", err)
	}

	got, err := service.GetEmailConfig(context.Background())
	if err != nil {
		t.Fatalf("GetEmailConfig() error = %v", err)
	}
	if got == nil || *got != want {
		t.Errorf("GetEmailConfig() = %+v, want %+v", got, want)
	}
}

func TestGeneralConfigDefault(t *testing.T) {
	service := NewSettingsService(newFakeSettingsRepo(), fakeAudit{})

	config, err := service.GetGeneralConfig(context.Background())
	if err != nil {
		t.Fatalf("GetGeneralConfig() error = %v", err)
	}
	if config.AppName != "Go Helpdesk" {
		t.Errorf("default AppName = %q, want %q", config.AppName, "Go Helpdesk")
	}
}

func TestBackupConfigDefaultThenOverride(t *testing.T) {
	service := NewSettingsService(newFakeSettingsRepo(), fakeAudit{})

	config, err := service.GetBackupConfig(context.Background())
	if err != nil {
		t.Fatalf("GetBackupConfig() error = %v", err)
	}
	if config.KeepLast != 14 || len(config.Collections) == 0 {
		t.Errorf("default backup config = %+v", config)
	}

	want := BackupConfig{Collections: []string{"tickets"}, KeepLast: 3, ArchiveResolved: true}
	if err := service.UpdateBackupConfig(context.Background(), want); err != nil {
		t.Fatalf("UpdateBackupConfig() error = %v", err)
	}

	config, err = service.GetBackupConfig(context.Background())
	if err != nil {
		t.Fatalf("GetBackupConfig() error = %v", err)
	}
	if config.KeepLast != 3 || !config.ArchiveResolved || len(config.Collections) != 1 {
		t.Errorf("GetBackupConfig() after update = %+v, want %+v", config, want)
	}
}
