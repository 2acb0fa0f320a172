package backup

import (
	"context"
	"time"

	"go-helpdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RunRepository interface {
	Create(ctx context.Context, run *Run) error
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	List(ctx context.Context, limit int64) ([]Run, error)
}

// DumpReader streams raw documents out of collections for the dump files.
type DumpReader interface {
	ReadAll(ctx context.Context, collection string) ([]bson.M, error)
}

type MongoBackupRepository struct {
	db   *database.MongodbDB
	runs *mongo.Collection
}

func NewRunRepository(db *database.MongodbDB) *MongoBackupRepository {
	return &MongoBackupRepository{
		db:   db,
		runs: db.DB.Collection("backup_runs"),
	}
}

func (r *MongoBackupRepository) Create(ctx context.Context, run *Run) error {
	run.StartedAt = time.Now()
	result, err := r.runs.InsertOne(ctx, run)
	if err != nil {
		return err
	}
	run.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoBackupRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	_, err := r.runs.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *MongoBackupRepository) List(ctx context.Context, limit int64) ([]Run, error) {
	if limit < 1 {
		limit = 20
	}
	cursor, err := r.runs.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []Run
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *MongoBackupRepository) ReadAll(ctx context.Context, collection string) ([]bson.M, error) {
	cursor, err := r.db.DB.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
