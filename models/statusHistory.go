package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusHistoryEntry is an append-only record of a status transition.
// Entries are never updated or deleted and are listed in ascending
// creation order.
type StatusHistoryEntry struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Issue     primitive.ObjectID  `bson:"issue" json:"issue"`
	Status    IssueStatus         `bson:"status" json:"status"`
	Notes     string              `bson:"notes,omitempty" json:"notes,omitempty"`
	ChangedBy *primitive.ObjectID `bson:"changedBy,omitempty" json:"changedBy,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
