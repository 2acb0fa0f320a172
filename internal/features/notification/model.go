package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeInfo       NotificationType = "info"
	NotificationTypeWarning    NotificationType = "warning"
	NotificationTypeError      NotificationType = "error"
	NotificationTypeTicket     NotificationType = "ticket"
	NotificationTypeEscalation NotificationType = "escalation"
	NotificationTypeSLA        NotificationType = "sla"
)

// Channel identifies a delivery channel for a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelInApp Channel = "in_app"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      NotificationType   `bson:"type" json:"type"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	ReadAt    *time.Time         `bson:"read_at,omitempty" json:"read_at,omitempty"`
}

// ChannelPrefs toggles delivery channels for one event class.
type ChannelPrefs struct {
	Email bool `bson:"email" json:"email"`
	InApp bool `bson:"in_app" json:"in_app"`
}

// UserNotificationSettings holds a user's per-event-class channel preferences.
type UserNotificationSettings struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	TicketActivity ChannelPrefs       `bson:"ticket_activity" json:"ticket_activity"`
	Escalations    ChannelPrefs       `bson:"escalations" json:"escalations"`
	System         ChannelPrefs       `bson:"system" json:"system"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// DefaultSettings is what a user gets before saving preferences:
// every channel on for every event class.
func DefaultSettings(userID primitive.ObjectID) *UserNotificationSettings {
	all := ChannelPrefs{Email: true, InApp: true}
	return &UserNotificationSettings{
		UserID:         userID,
		TicketActivity: all,
		Escalations:    all,
		System:         all,
	}
}

// PrefsFor maps a notification type to the matching event-class prefs.
func (s *UserNotificationSettings) PrefsFor(t NotificationType) ChannelPrefs {
	switch t {
	case NotificationTypeEscalation, NotificationTypeSLA:
		return s.Escalations
	case NotificationTypeTicket:
		return s.TicketActivity
	default:
		return s.System
	}
}
