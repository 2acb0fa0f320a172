package settings

import (
	"context"
	"time"

	"go-helpdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SettingsRepository stores one document per config key with the typed
// config embedded as a subdocument.
type SettingsRepository interface {
	// Load decodes the stored config for key into out. The bool reports
	// whether a document existed.
	Load(ctx context.Context, key SettingsKey, out interface{}) (bool, error)
	Save(ctx context.Context, key SettingsKey, config interface{}) error
}

type settingsDoc struct {
	Key       SettingsKey `bson:"_id"`
	Config    bson.Raw    `bson:"config"`
	UpdatedAt time.Time   `bson:"updated_at"`
}

type SettingsRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSettingsRepository(mongodb *database.MongodbDB) SettingsRepository {
	return &SettingsRepositoryImpl{
		Collection: mongodb.DB.Collection("settings"),
	}
}

func (r *SettingsRepositoryImpl) Load(ctx context.Context, key SettingsKey, out interface{}) (bool, error) {
	var doc settingsDoc
	err := r.Collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	if err := bson.Unmarshal(doc.Config, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *SettingsRepositoryImpl) Save(ctx context.Context, key SettingsKey, config interface{}) error {
	update := bson.M{"$set": bson.M{"config": config, "updated_at": time.Now()}}
	opts := options.Update().SetUpsert(true)
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": key}, update, opts)
	return err
}
