package notification

import (
	"context"
	"fmt"

	common_models "go-helpdesk/internal/common/models"
	"go-helpdesk/internal/features/email"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserFinder resolves recipient addresses for email delivery.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*common_models.User, error)
}

type NotificationService interface {
	// CreateNotification stores an in-app notification without consulting
	// channel preferences. Used for direct product events.
	CreateNotification(ctx context.Context, userID primitive.ObjectID, title, message string, notifType NotificationType, link string) error

	// Send fans a notification out over the requested channels, filtered by
	// the recipient's saved preferences.
	Send(ctx context.Context, userID primitive.ObjectID, channels []Channel, title, message string, notifType NotificationType, link string) error

	GetUserNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, id string, userID primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error

	GetSettings(ctx context.Context, userID primitive.ObjectID) (*UserNotificationSettings, error)
	UpdateSettings(ctx context.Context, settings *UserNotificationSettings) error
}

type NotificationServiceImpl struct {
	repo         NotificationRepository
	emailService email.EmailService
	userFinder   UserFinder
	hub          *Hub
	logger       *zap.Logger
}

func NewNotificationService(repo NotificationRepository, emailService email.EmailService, userFinder UserFinder, hub *Hub, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		repo:         repo,
		emailService: emailService,
		userFinder:   userFinder,
		hub:          hub,
		logger:       logger,
	}
}

func (s *NotificationServiceImpl) CreateNotification(ctx context.Context, userID primitive.ObjectID, title, message string, notifType NotificationType, link string) error {
	notification := &Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Link:    link,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	s.hub.Push(notification)
	return nil
}

func (s *NotificationServiceImpl) Send(ctx context.Context, userID primitive.ObjectID, channels []Channel, title, message string, notifType NotificationType, link string) error {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return err
	}
	if settings == nil {
		settings = DefaultSettings(userID)
	}
	prefs := settings.PrefsFor(notifType)

	var firstErr error
	for _, channel := range channels {
		switch channel {
		case ChannelInApp:
			if !prefs.InApp {
				continue
			}
			if err := s.CreateNotification(ctx, userID, title, message, notifType, link); err != nil {
				s.logger.Error("in-app notification failed",
					zap.String("user_id", userID.Hex()),
					zap.Error(err))
				if firstErr == nil {
					firstErr = err
				}
			}
		case ChannelEmail:
			if !prefs.Email {
				continue
			}
			if err := s.sendEmail(ctx, userID, title, message); err != nil {
				s.logger.Error("email notification failed",
					zap.String("user_id", userID.Hex()),
					zap.Error(err))
				if firstErr == nil {
					firstErr = err
				}
			}
		default:
			if firstErr == nil {
				firstErr = fmt.Errorf("unknown notification channel: %s", channel)
			}
		}
	}
	return firstErr
}

func (s *NotificationServiceImpl) sendEmail(ctx context.Context, userID primitive.ObjectID, title, message string) error {
	usr, err := s.userFinder.FindByID(ctx, userID.Hex())
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}
	if usr.Email == "" {
		return fmt.Errorf("user %s has no email address", userID.Hex())
	}
	body := fmt.Sprintf("<p>%s</p>", message)
	return s.emailService.SendEmail(ctx, []string{usr.Email}, title, body)
}

func (s *NotificationServiceImpl) GetUserNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]Notification, int64, error) {
	return s.repo.GetByUserID(ctx, userID, page, limit)
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string, userID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, objID, userID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationServiceImpl) GetSettings(ctx context.Context, userID primitive.ObjectID) (*UserNotificationSettings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return DefaultSettings(userID), nil
	}
	return settings, nil
}

func (s *NotificationServiceImpl) UpdateSettings(ctx context.Context, settings *UserNotificationSettings) error {
	return s.repo.UpsertSettings(ctx, settings)
}
