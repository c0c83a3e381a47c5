// internal/domain/training.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingWeek is the aggregate root for a training plan. The whole
// day/exercise/series subtree is stored inside the week document, so a
// single replace of the root is an atomic update of the entire plan.
type TrainingWeek struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"` // Plan owner, fixed at creation
	WeekNumber int                `bson:"weekNumber" json:"weekNumber"`
	Days       []TrainingDay      `bson:"days" json:"trainingDays"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TrainingDay groups the exercises of one day, e.g. "Legs" on Monday.
type TrainingDay struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Group     string             `bson:"group" json:"group"` // Muscle group, e.g. "Legs", "Chest"
	DayOfWeek string             `bson:"dayOfWeek" json:"dayOfWeek"`
	Exercises []Exercise         `bson:"exercises" json:"exercises"`
}

// Exercise is one prescribed exercise inside a training day.
// Optional numerics are pointers: nil on a resubmission means
// "leave unchanged", nil on a brand new exercise means "unset".
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Repetitions *int               `bson:"repetitions,omitempty" json:"repetitions,omitempty"`
	Sets        *int               `bson:"sets,omitempty" json:"sets,omitempty"`
	Weight      *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Done        bool               `bson:"done" json:"done"`
	Series      []Series           `bson:"series" json:"series"`
}

// Series is a single set prescription within an exercise.
type Series struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Number      *int               `bson:"number,omitempty" json:"number,omitempty"`
	Repetitions *int               `bson:"repetitions,omitempty" json:"repetitions,omitempty"`
	Weight      *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
}
