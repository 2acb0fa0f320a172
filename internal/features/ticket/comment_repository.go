package ticket

import (
	"context"
	"time"

	"go-helpdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *TicketComment) error
	FindByTicket(ctx context.Context, ticketID primitive.ObjectID, includeInternal bool) ([]TicketComment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoCommentRepository struct {
	collection *mongo.Collection
}

func NewCommentRepository(db *database.MongodbDB) CommentRepository {
	return &MongoCommentRepository{
		collection: db.DB.Collection("ticket_comments"),
	}
}

func (r *MongoCommentRepository) Create(ctx context.Context, comment *TicketComment) error {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.AuthorType == "" {
		comment.AuthorType = CommentAuthorUser
	}

	result, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		return err
	}
	comment.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoCommentRepository) FindByTicket(ctx context.Context, ticketID primitive.ObjectID, includeInternal bool) ([]TicketComment, error) {
	filter := bson.M{"ticket_id": ticketID}
	if !includeInternal {
		filter["is_internal"] = false
	}

	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []TicketComment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *MongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
