package ticket

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

type SLAPolicyRepository interface {
	Create(ctx context.Context, policy *SLAPolicy) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*SLAPolicy, error)
	FindAll(ctx context.Context) ([]SLAPolicy, error)
	FindByPriority(ctx context.Context, priority TicketPriority) (*SLAPolicy, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoSLAPolicyRepository struct {
	collection *mongo.Collection
}

func NewSLAPolicyRepository(db *database.MongodbDB) SLAPolicyRepository {
	return &MongoSLAPolicyRepository{
		collection: db.DB.Collection("sla_policies"),
	}
}

func (r *MongoSLAPolicyRepository) Create(ctx context.Context, policy *SLAPolicy) error {
	now := time.Now()
	policy.CreatedAt = now
	policy.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, policy)
	if err != nil {
		return err
	}
	policy.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoSLAPolicyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*SLAPolicy, error) {
	var policy SLAPolicy
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&policy)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("SLA policy not found")
		}
		return nil, err
	}
	return &policy, nil
}

func (r *MongoSLAPolicyRepository) FindAll(ctx context.Context) ([]SLAPolicy, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var policies []SLAPolicy
	if err := cursor.All(ctx, &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

// FindByPriority returns the active policy mapped to a priority, or nil when
// none is configured.
func (r *MongoSLAPolicyRepository) FindByPriority(ctx context.Context, priority TicketPriority) (*SLAPolicy, error) {
	var policy SLAPolicy
	err := r.collection.FindOne(ctx, bson.M{
		"priority":  priority,
		"is_active": true,
	}).Decode(&policy)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &policy, nil
}

func (r *MongoSLAPolicyRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("SLA policy not found")
	}
	return nil
}

func (r *MongoSLAPolicyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("SLA policy not found")
	}
	return nil
}
