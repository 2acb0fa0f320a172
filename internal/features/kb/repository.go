package kb

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

type ArticleRepository interface {
	Create(ctx context.Context, article *Article) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Article, error)
	FindBySlug(ctx context.Context, slug string) (*Article, error)
	FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]Article, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	Categories(ctx context.Context) ([]string, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type MongoArticleRepository struct {
	collection *mongo.Collection
}

func NewArticleRepository(db *database.MongodbDB) ArticleRepository {
	return &MongoArticleRepository{
		collection: db.DB.Collection("kb_articles"),
	}
}

func (r *MongoArticleRepository) Create(ctx context.Context, article *Article) error {
	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, article)
	if err != nil {
		return err
	}
	article.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoArticleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Article, error) {
	var article Article
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&article)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("article not found")
		}
		return nil, err
	}
	return &article, nil
}

func (r *MongoArticleRepository) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	var article Article
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&article)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("article not found")
		}
		return nil, err
	}
	return &article, nil
}

func (r *MongoArticleRepository) FindAll(ctx context.Context, filter bson.M, page, limit int64) ([]Article, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var articles []Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *MongoArticleRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("article not found")
	}
	return nil
}

func (r *MongoArticleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("article not found")
	}
	return nil
}

func (r *MongoArticleRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (r *MongoArticleRepository) Categories(ctx context.Context) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

func (r *MongoArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
