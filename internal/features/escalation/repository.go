package escalation

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

type RuleRepository interface {
	Create(ctx context.Context, rule *Rule) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Rule, error)
	FindAll(ctx context.Context) ([]Rule, error)
	FindActive(ctx context.Context) ([]Rule, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoRuleRepository struct {
	collection *mongo.Collection
}

func NewRuleRepository(db *database.MongodbDB) RuleRepository {
	return &MongoRuleRepository{
		collection: db.DB.Collection("escalation_rules"),
	}
}

func (r *MongoRuleRepository) Create(ctx context.Context, rule *Rule) error {
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

func (r *MongoRuleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Rule, error) {
	var rule Rule
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("escalation rule not found")
		}
		return nil, err
	}
	return &rule, nil
}

func (r *MongoRuleRepository) FindAll(ctx context.Context) ([]Rule, error) {
	return r.find(ctx, bson.M{})
}

// FindActive returns enabled rules in evaluation order, lowest priority
// value first.
func (r *MongoRuleRepository) FindActive(ctx context.Context) ([]Rule, error) {
	return r.find(ctx, bson.M{"is_active": true})
}

func (r *MongoRuleRepository) find(ctx context.Context, filter bson.M) ([]Rule, error) {
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "priority", Value: 1}, {Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []Rule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *MongoRuleRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("escalation rule not found")
	}
	return nil
}

func (r *MongoRuleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("escalation rule not found")
	}
	return nil
}

type FireLogRepository interface {
	Find(ctx context.Context, ruleID, ticketID primitive.ObjectID) (*FireLog, error)

	// TryRecordFire claims the next fire for a (rule, ticket) pair. The
	// prior times-fired count acts as a compare-and-set token: a concurrent
	// sweep that already advanced the entry makes this return false, and
	// the caller must not dispatch.
	TryRecordFire(ctx context.Context, ruleID, ticketID primitive.ObjectID, priorTimesFired int, now time.Time) (bool, error)

	EnsureIndexes(ctx context.Context) error
}

type MongoFireLogRepository struct {
	collection *mongo.Collection
}

func NewFireLogRepository(db *database.MongodbDB) FireLogRepository {
	return &MongoFireLogRepository{
		collection: db.DB.Collection("escalation_fire_log"),
	}
}

func (r *MongoFireLogRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "rule_id", Value: 1},
			{Key: "ticket_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoFireLogRepository) Find(ctx context.Context, ruleID, ticketID primitive.ObjectID) (*FireLog, error) {
	var fire FireLog
	err := r.collection.FindOne(ctx, bson.M{"rule_id": ruleID, "ticket_id": ticketID}).Decode(&fire)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &fire, nil
}

func (r *MongoFireLogRepository) TryRecordFire(ctx context.Context, ruleID, ticketID primitive.ObjectID, priorTimesFired int, now time.Time) (bool, error) {
	if priorTimesFired == 0 {
		_, err := r.collection.InsertOne(ctx, FireLog{
			RuleID:     ruleID,
			TicketID:   ticketID,
			FiredAt:    now,
			TimesFired: 1,
			CreatedAt:  now,
		})
		if mongo.IsDuplicateKeyError(err) {
			// another sweep claimed the first fire
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"rule_id":     ruleID,
			"ticket_id":   ticketID,
			"times_fired": priorTimesFired,
		},
		bson.M{
			"$set": bson.M{"fired_at": now},
			"$inc": bson.M{"times_fired": 1},
		})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}
