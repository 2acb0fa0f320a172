package email

import (
	"context"
	"time"

	"go-helpdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type EmailStatus string

const (
	EmailQueued EmailStatus = "queued"
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// Email is a persisted record of an outbound message
type Email struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	From     string             `json:"from" bson:"from"`
	To       []string           `json:"to" bson:"to"`
	Subject  string             `json:"subject" bson:"subject"`
	HtmlBody string             `json:"html_body" bson:"html_body"`
	Status   EmailStatus        `json:"status" bson:"status"`
	Error    string             `json:"error,omitempty" bson:"error,omitempty"`
	SentAt   *time.Time         `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	QueuedAt time.Time          `json:"queued_at" bson:"queued_at"`
}

type EmailRepository struct {
	Collection *mongo.Collection
}

func NewEmailRepository(mongodb *database.MongodbDB) *EmailRepository {
	return &EmailRepository{
		Collection: mongodb.DB.Collection("emails"),
	}
}

func (r *EmailRepository) Create(ctx context.Context, email *Email) error {
	email.QueuedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, email)
	return err
}

func (r *EmailRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status EmailStatus, sendErr string) error {
	updates := bson.M{"status": status, "error": sendErr}
	if status == EmailSent {
		now := time.Now()
		updates["sent_at"] = now
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	return err
}
