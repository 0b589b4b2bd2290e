package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is an append-only note on an issue. Internal comments are
// only visible to municipal staff.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Issue     primitive.ObjectID `bson:"issue" json:"issue"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Text      string             `bson:"text" json:"text"`
	Internal  bool               `bson:"internal" json:"internal"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
