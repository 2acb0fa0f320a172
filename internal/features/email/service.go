package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go-helpdesk/internal/features/settings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmailService interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
}

type EmailServiceImpl struct {
	SettingsService settings.SettingsService
	Repo            *EmailRepository
}

func NewEmailService(settingsService settings.SettingsService, repo *EmailRepository) EmailService {
	return &EmailServiceImpl{
		SettingsService: settingsService,
		Repo:            repo,
	}
}

func (s *EmailServiceImpl) SendEmail(ctx context.Context, to []string, subject, body string) error {
	config, err := s.SettingsService.GetEmailConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch email config: %w", err)
	}
	if config == nil {
		return errors.New("email configuration not found")
	}
	if config.SMTPHost == "" || config.SMTPPort == 0 {
		return errors.New("invalid email configuration: missing host or port")
	}

	auth := smtp.PlainAuth("", config.SMTPUser, config.SMTPPassword, config.SMTPHost)
	addr := fmt.Sprintf("%s:%d", config.SMTPHost, config.SMTPPort)
	from := config.FromEmail
	if from == "" {
		from = config.SMTPUser
	}

	emailRecord := &Email{
		ID:       primitive.NewObjectID(),
		From:     from,
		To:       to,
		Subject:  subject,
		HtmlBody: body,
		Status:   EmailQueued,
	}
	if s.Repo != nil {
		_ = s.Repo.Create(ctx, emailRecord)
	}

	msg := buildMessage(from, to, subject, body)

	if err := smtp.SendMail(addr, auth, from, to, msg); err != nil {
		if s.Repo != nil {
			_ = s.Repo.UpdateStatus(ctx, emailRecord.ID, EmailFailed, err.Error())
		}
		return fmt.Errorf("failed to send email: %w", err)
	}

	if s.Repo != nil {
		_ = s.Repo.UpdateStatus(ctx, emailRecord.ID, EmailSent, "")
	}
	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}
