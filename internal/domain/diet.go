// internal/domain/diet.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Diet is the aggregate root for a nutrition plan, mirroring the
// TrainingWeek -> TrainingDay -> Exercise nesting with
// Diet -> Meal -> MealItem.
type Diet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"` // Plan owner, fixed at creation
	Name      string             `bson:"name" json:"name"`     // e.g. "Cutting phase"
	Meals     []Meal             `bson:"meals" json:"meals"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Meal is one meal of the diet, e.g. "Breakfast".
type Meal struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	MealTime string             `bson:"mealTime,omitempty" json:"mealTime,omitempty"` // e.g. "07:30"
	Done     bool               `bson:"done" json:"done"`
	Items    []MealItem         `bson:"items" json:"items"`
}

// MealItem is a single food item within a meal.
type MealItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Quantity *float64           `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Unit     string             `bson:"unit,omitempty" json:"unit,omitempty"` // e.g. "g", "ml", "unit"
	Calories *int               `bson:"calories,omitempty" json:"calories,omitempty"`
}
