package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department is a municipal unit an issue can be routed to.
type Department struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Contact     string             `bson:"contact,omitempty" json:"contact,omitempty"`
	Active      bool               `bson:"active" json:"active"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
