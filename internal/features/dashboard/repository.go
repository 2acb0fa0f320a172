package dashboard

import (
	"context"
	"time"

	"go-helpdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type StatsRepository interface {
	Count(ctx context.Context, filter bson.M) (int64, error)
	GroupCount(ctx context.Context, field string, filter bson.M) ([]StatusCount, error)
	DailyCounts(ctx context.Context, dateField string, from time.Time) (map[string]int64, error)
	SLAOutcomes(ctx context.Context, from time.Time) (inSLA, total int64, err error)
	OpenByAgent(ctx context.Context) ([]StatusCount, error)
}

type MongoStatsRepository struct {
	tickets *mongo.Collection
}

func NewStatsRepository(db *database.MongodbDB) StatsRepository {
	return &MongoStatsRepository{
		tickets: db.DB.Collection("tickets"),
	}
}

func (r *MongoStatsRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.tickets.CountDocuments(ctx, filter)
}

func (r *MongoStatsRepository) GroupCount(ctx context.Context, field string, filter bson.M) ([]StatusCount, error) {
	pipeline := mongo.Pipeline{}
	if len(filter) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: filter}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	)

	cursor, err := r.tickets.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raw []struct {
		ID    interface{} `bson:"_id"`
		Count int64       `bson:"count"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}

	counts := make([]StatusCount, 0, len(raw))
	for _, row := range raw {
		name := "unknown"
		if s, ok := row.ID.(string); ok {
			name = s
		}
		counts = append(counts, StatusCount{Name: name, Count: row.Count})
	}
	return counts, nil
}

func (r *MongoStatsRepository) DailyCounts(ctx context.Context, dateField string, from time.Time) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{dateField: bson.M{"$gte": from}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.M{
				"$dateToString": bson.M{
					"format": "%Y-%m-%d",
					"date":   "$" + dateField,
				},
			}},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
	}

	cursor, err := r.tickets.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raw []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(raw))
	for _, row := range raw {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

// SLAOutcomes counts tickets resolved since from, and how many of those were
// resolved before their due date (tickets without a due date count as in
// SLA).
func (r *MongoStatsRepository) SLAOutcomes(ctx context.Context, from time.Time) (int64, int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"resolved_at": bson.M{"$gte": from}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.M{"$sum": 1}},
			{Key: "in_sla", Value: bson.M{"$sum": bson.M{
				"$cond": bson.A{
					bson.M{"$or": bson.A{
						bson.M{"$eq": bson.A{"$due_date", nil}},
						bson.M{"$lte": bson.A{"$resolved_at", "$due_date"}},
					}},
					1,
					0,
				},
			}}},
		}}},
	}

	cursor, err := r.tickets.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var raw []struct {
		Total int64 `bson:"total"`
		InSLA int64 `bson:"in_sla"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return 0, 0, err
	}
	if len(raw) == 0 {
		return 0, 0, nil
	}
	return raw[0].InSLA, raw[0].Total, nil
}

func (r *MongoStatsRepository) OpenByAgent(ctx context.Context) ([]StatusCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status":      bson.M{"$in": []string{"new", "open", "pending"}},
			"assigned_to": bson.M{"$exists": true},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$assigned_to"},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cursor, err := r.tickets.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raw []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}

	counts := make([]StatusCount, 0, len(raw))
	for _, row := range raw {
		counts = append(counts, StatusCount{Name: row.ID.Hex(), Count: row.Count})
	}
	return counts, nil
}
