package kb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article is a knowledge base article.
type Article struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title    string             `json:"title" bson:"title"`
	Slug     string             `json:"slug" bson:"slug"`
	Body     string             `json:"body" bson:"body"`
	Category string             `json:"category,omitempty" bson:"category,omitempty"`
	Tags     []string           `json:"tags,omitempty" bson:"tags,omitempty"`

	Published bool  `json:"published" bson:"published"`
	Views     int64 `json:"views" bson:"views"`

	CreatedBy primitive.ObjectID `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
