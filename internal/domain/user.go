package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleStudent      Role = "student"
	RoleTrainer      Role = "trainer"
	RoleNutritionist Role = "nutritionist"
	RoleAdmin        Role = "admin"
)

// IsProfessional reports whether the role may be assigned students.
func (r Role) IsProfessional() bool {
	return r == RoleTrainer || r == RoleNutritionist
}

// User represents any actor in the system: a student who owns plans,
// a professional (trainer/nutritionist) assigned to students, or an admin.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`

	// Profile scalars. These are exactly the fields tracked by the audit
	// diff recorder; BirthDate is kept as a date string so audit events
	// render the same value the client submitted.
	Street    string `bson:"street,omitempty" json:"street,omitempty"`
	Number    string `bson:"number,omitempty" json:"number,omitempty"`
	ZipCode   string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	City      string `bson:"city,omitempty" json:"city,omitempty"`
	State     string `bson:"state,omitempty" json:"state,omitempty"`
	Sex       string `bson:"sex,omitempty" json:"sex,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	BirthDate string `bson:"birthDate,omitempty" json:"birthDate,omitempty"`

	// CurrentWeight is derived from the latest WeightRecord and is never
	// persisted on the user document itself.
	CurrentWeight *float64 `bson:"-" json:"currentWeight,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
