// internal/domain/weight.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeightRecord is one body measurement of a user. Records are created by
// the owner or an assigned professional and never modified afterwards,
// except for linking an uploaded progress photo.
type WeightRecord struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Weight float64            `bson:"weight" json:"weight"`
	BF     *float64           `bson:"bf,omitempty" json:"bf,omitempty"` // Body fat percentage
	Date   time.Time          `bson:"date" json:"date"`

	// PhotoObjectKey is the storage key of the optional progress photo.
	PhotoObjectKey string    `bson:"photoObjectKey,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
