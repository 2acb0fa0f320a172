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

type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Ticket, error)
	FindAll(ctx context.Context, filter bson.M, page, limit int64, sortBy string, sortOrder int) ([]Ticket, int64, error)
	FindOpen(ctx context.Context) ([]Ticket, error)
	FindByAssignee(ctx context.Context, assigneeID primitive.ObjectID) ([]Ticket, error)
	FindOverdueSLA(ctx context.Context, now time.Time) ([]Ticket, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status TicketStatus, changedBy primitive.ObjectID, comment string) error
	Assign(ctx context.Context, id primitive.ObjectID, assigneeID *primitive.ObjectID) error
	PushEscalation(ctx context.Context, id primitive.ObjectID, entry EscalationHistoryEntry) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetNextTicketNumber(ctx context.Context) (string, error)
}

type MongoTicketRepository struct {
	collection *mongo.Collection
}

func NewTicketRepository(db *database.MongodbDB) TicketRepository {
	return &MongoTicketRepository{
		collection: db.DB.Collection("tickets"),
	}
}

func (r *MongoTicketRepository) Create(ctx context.Context, t *Ticket) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = TicketStatusNew
	}
	t.StatusHistory = append(t.StatusHistory, StatusHistoryEntry{
		Status:    t.Status,
		ChangedAt: now,
	})

	result, err := r.collection.InsertOne(ctx, t)
	if err != nil {
		return err
	}
	t.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoTicketRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Ticket, error) {
	var t Ticket
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("ticket not found")
		}
		return nil, err
	}
	return &t, nil
}

func (r *MongoTicketRepository) FindAll(ctx context.Context, filter bson.M, page, limit int64, sortBy string, sortOrder int) ([]Ticket, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	if sortBy == "" {
		sortBy = "created_at"
		sortOrder = -1
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var tickets []Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// FindOpen returns every ticket still in an unresolved status. This is the
// working set for escalation sweeps.
func (r *MongoTicketRepository) FindOpen(ctx context.Context) ([]Ticket, error) {
	filter := bson.M{"status": bson.M{"$in": []TicketStatus{
		TicketStatusNew, TicketStatusOpen, TicketStatusPending,
	}}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *MongoTicketRepository) FindByAssignee(ctx context.Context, assigneeID primitive.ObjectID) ([]Ticket, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"assigned_to": assigneeID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *MongoTicketRepository) FindOverdueSLA(ctx context.Context, now time.Time) ([]Ticket, error) {
	filter := bson.M{
		"due_date": bson.M{"$lt": now},
		"status": bson.M{"$in": []TicketStatus{
			TicketStatusNew, TicketStatusOpen, TicketStatusPending,
		}},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *MongoTicketRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ticket not found")
	}
	return nil
}

func (r *MongoTicketRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status TicketStatus, changedBy primitive.ObjectID, comment string) error {
	now := time.Now()
	set := bson.M{
		"status":     status,
		"updated_at": now,
	}
	switch status {
	case TicketStatusResolved:
		set["resolved_at"] = now
	case TicketStatusClosed:
		set["closed_at"] = now
	}

	update := bson.M{
		"$set": set,
		"$push": bson.M{"status_history": StatusHistoryEntry{
			Status:    status,
			ChangedBy: changedBy,
			ChangedAt: now,
			Comment:   comment,
		}},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ticket not found")
	}
	return nil
}

// Assign sets or clears the assignee. Clearing records unassigned_at so the
// unassigned duration can be measured from that point.
func (r *MongoTicketRepository) Assign(ctx context.Context, id primitive.ObjectID, assigneeID *primitive.ObjectID) error {
	now := time.Now()
	var update bson.M
	if assigneeID != nil {
		update = bson.M{
			"$set": bson.M{
				"assigned_to": *assigneeID,
				"assigned_at": now,
				"updated_at":  now,
			},
			"$unset": bson.M{"unassigned_at": ""},
		}
	} else {
		update = bson.M{
			"$set": bson.M{
				"unassigned_at": now,
				"updated_at":    now,
			},
			"$unset": bson.M{"assigned_to": "", "assigned_at": ""},
		}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ticket not found")
	}
	return nil
}

func (r *MongoTicketRepository) PushEscalation(ctx context.Context, id primitive.ObjectID, entry EscalationHistoryEntry) error {
	update := bson.M{
		"$set":  bson.M{"escalation_level": entry.Level, "updated_at": time.Now()},
		"$push": bson.M{"escalation_history": entry},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ticket not found")
	}
	return nil
}

func (r *MongoTicketRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("ticket not found")
	}
	return nil
}

func (r *MongoTicketRepository) GetNextTicketNumber(ctx context.Context) (string, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TKT-%06d", count+1), nil
}
