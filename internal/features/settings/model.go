package settings

// SettingsKey identifies one typed config document.
type SettingsKey string

const (
	SettingsKeyEmail   SettingsKey = "email"
	SettingsKeyGeneral SettingsKey = "general"
	SettingsKeyBackup  SettingsKey = "backup"
)

type EmailConfig struct {
	SMTPHost     string `json:"smtp_host" bson:"smtp_host"`
	SMTPPort     int    `json:"smtp_port" bson:"smtp_port"`
	SMTPUser     string `json:"smtp_user" bson:"smtp_user"`
	SMTPPassword string `json:"smtp_password" bson:"smtp_password"`
	FromEmail    string `json:"from_email" bson:"from_email"`
	FromName     string `json:"from_name" bson:"from_name"`
}

type GeneralConfig struct {
	AppName string `json:"app_name" bson:"app_name"`
	BaseURL string `json:"base_url" bson:"base_url"`
}

type BackupConfig struct {
	Collections     []string `json:"collections" bson:"collections"`
	KeepLast        int      `json:"keep_last" bson:"keep_last"`
	ArchiveResolved bool     `json:"archive_resolved" bson:"archive_resolved"`
}
