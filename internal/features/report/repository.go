package report

import (
	"context"
	"time"

	"go-helpdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type agentStats struct {
	ID                primitive.ObjectID `bson:"_id"`
	Resolved          int64              `bson:"resolved"`
	InSLA             int64              `bson:"in_sla"`
	AvgResolutionMins float64            `bson:"avg_resolution_mins"`
}

type ReportRepository interface {
	DailyCounts(ctx context.Context, dateField string, from, to time.Time) (map[string]int64, error)
	ResolvedByAgent(ctx context.Context, from, to time.Time) ([]agentStats, error)
	OpenCountByAgent(ctx context.Context) (map[string]int64, error)
}

type MongoReportRepository struct {
	tickets *mongo.Collection
}

func NewReportRepository(db *database.MongodbDB) ReportRepository {
	return &MongoReportRepository{
		tickets: db.DB.Collection("tickets"),
	}
}

func (r *MongoReportRepository) DailyCounts(ctx context.Context, dateField string, from, to time.Time) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{dateField: bson.M{"$gte": from, "$lt": to}}}},
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

// ResolvedByAgent aggregates per-agent resolution stats over tickets resolved
// in [from, to). Tickets without a due date count as in SLA.
func (r *MongoReportRepository) ResolvedByAgent(ctx context.Context, from, to time.Time) ([]agentStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"resolved_at": bson.M{"$gte": from, "$lt": to},
			"assigned_to": bson.M{"$exists": true},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$assigned_to"},
			{Key: "resolved", Value: bson.M{"$sum": 1}},
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
			{Key: "avg_resolution_mins", Value: bson.M{"$avg": bson.M{
				"$divide": bson.A{
					bson.M{"$subtract": bson.A{"$resolved_at", "$created_at"}},
					60000,
				},
			}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "resolved", Value: -1}}}},
	}

	cursor, err := r.tickets.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []agentStats
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MongoReportRepository) OpenCountByAgent(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status":      bson.M{"$in": []string{"new", "open", "pending"}},
			"assigned_to": bson.M{"$exists": true},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$assigned_to"},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
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

	counts := make(map[string]int64, len(raw))
	for _, row := range raw {
		counts[row.ID.Hex()] = row.Count
	}
	return counts, nil
}
