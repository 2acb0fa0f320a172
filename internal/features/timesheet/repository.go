package timesheet

import (
	"context"
	"fmt"
	"time"

	"go-helpdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TimeEntryRepository interface {
	Create(ctx context.Context, entry *TimeEntry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*TimeEntry, error)
	FindRange(ctx context.Context, agentID *primitive.ObjectID, from, to time.Time) ([]TimeEntry, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoTimeEntryRepository struct {
	collection *mongo.Collection
}

func NewTimeEntryRepository(db *database.MongodbDB) TimeEntryRepository {
	return &MongoTimeEntryRepository{
		collection: db.DB.Collection("time_entries"),
	}
}

func (r *MongoTimeEntryRepository) Create(ctx context.Context, entry *TimeEntry) error {
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	entry.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoTimeEntryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*TimeEntry, error) {
	var entry TimeEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("time entry not found")
		}
		return nil, err
	}
	return &entry, nil
}

func (r *MongoTimeEntryRepository) FindRange(ctx context.Context, agentID *primitive.ObjectID, from, to time.Time) ([]TimeEntry, error) {
	filter := bson.M{"started_at": bson.M{"$gte": from, "$lt": to}}
	if agentID != nil {
		filter["agent_id"] = *agentID
	}

	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "started_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []TimeEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *MongoTimeEntryRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("time entry not found")
	}
	return nil
}

func (r *MongoTimeEntryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("time entry not found")
	}
	return nil
}
