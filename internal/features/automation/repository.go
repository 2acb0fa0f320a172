package automation

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

type AutomationRepository interface {
	Create(ctx context.Context, rule *AutomationRule) error
	GetByID(ctx context.Context, id string) (*AutomationRule, error)
	List(ctx context.Context) ([]AutomationRule, error)
	ListByTrigger(ctx context.Context, trigger TriggerType) ([]AutomationRule, error)
	Update(ctx context.Context, rule *AutomationRule) error
	Delete(ctx context.Context, id string) error
}

type MongoAutomationRepository struct {
	collection *mongo.Collection
}

func NewAutomationRepository(db *database.MongodbDB) AutomationRepository {
	return &MongoAutomationRepository{
		collection: db.DB.Collection("automation_rules"),
	}
}

func (r *MongoAutomationRepository) Create(ctx context.Context, rule *AutomationRule) error {
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, rule)
	if err != nil {
		return err
	}
	rule.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoAutomationRepository) GetByID(ctx context.Context, id string) (*AutomationRule, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid rule ID")
	}

	var rule AutomationRule
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&rule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("automation rule not found")
		}
		return nil, err
	}
	return &rule, nil
}

func (r *MongoAutomationRepository) List(ctx context.Context) ([]AutomationRule, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoAutomationRepository) ListByTrigger(ctx context.Context, trigger TriggerType) ([]AutomationRule, error) {
	return r.find(ctx, bson.M{"trigger_type": trigger, "active": true})
}

func (r *MongoAutomationRepository) find(ctx context.Context, filter bson.M) ([]AutomationRule, error) {
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []AutomationRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *MongoAutomationRepository) Update(ctx context.Context, rule *AutomationRule) error {
	rule.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": rule.ID}, rule)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("automation rule not found")
	}
	return nil
}

func (r *MongoAutomationRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid rule ID")
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("automation rule not found")
	}
	return nil
}
