// internal/domain/relationship.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipStatus tracks the lifecycle of a professional/student edge.
type RelationshipStatus string

const (
	RelationshipActive RelationshipStatus = "active"
	RelationshipEnded  RelationshipStatus = "ended"
)

// Relationship is a directed edge assigning a professional (trainer or
// nutritionist) to a student. Only an active relationship grants the
// professional access to the student's resources.
type Relationship struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfessionalID primitive.ObjectID `bson:"professionalId" json:"professionalId"`
	StudentID      primitive.ObjectID `bson:"studentId" json:"studentId"`
	Status         RelationshipStatus `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (r *Relationship) IsActive() bool {
	return r.Status == RelationshipActive
}
