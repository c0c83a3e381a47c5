// internal/domain/history.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryEvent is one append-only audit entry on a user's timeline.
// Events are never mutated or deleted after creation.
type HistoryEvent struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Event  string             `bson:"event" json:"event"`
	Date   time.Time          `bson:"date" json:"date"`
}
