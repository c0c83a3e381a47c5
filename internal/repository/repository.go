package repository

import (
	"context"
	"fitcollab/fitness-app/internal/domain" // Import our defined domain models

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// UpdateProfile persists only the tracked profile scalars of user.
	UpdateProfile(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RelationshipRepository defines the interface for professional/student edges.
type RelationshipRepository interface {
	Create(ctx context.Context, rel *domain.Relationship) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Relationship, error)
	// Find returns the edge for the (professional, student) pair regardless
	// of status; callers check Status themselves.
	Find(ctx context.Context, professionalID, studentID primitive.ObjectID) (*domain.Relationship, error)
	ListByProfessionalID(ctx context.Context, professionalID primitive.ObjectID) ([]domain.Relationship, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.RelationshipStatus) error
}

// TrainingWeekRepository stores training plan aggregates. The entire week
// document, days/exercises/series included, is written in one atomic
// operation on Insert and Replace (full subtree upsert).
type TrainingWeekRepository interface {
	Insert(ctx context.Context, week *domain.TrainingWeek) (primitive.ObjectID, error)
	Replace(ctx context.Context, week *domain.TrainingWeek) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingWeek, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingWeek, error)
	// FindByExerciseID locates the aggregate containing the given nested exercise.
	FindByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.TrainingWeek, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// DietRepository stores diet aggregates, mirroring TrainingWeekRepository.
type DietRepository interface {
	Insert(ctx context.Context, diet *domain.Diet) (primitive.ObjectID, error)
	Replace(ctx context.Context, diet *domain.Diet) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Diet, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Diet, error)
	// FindByMealID locates the aggregate containing the given nested meal.
	FindByMealID(ctx context.Context, mealID primitive.ObjectID) (*domain.Diet, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WeightRecordRepository stores body measurements.
type WeightRecordRepository interface {
	Create(ctx context.Context, record *domain.WeightRecord) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeightRecord, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightRecord, error)
	LatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.WeightRecord, error)
	SetPhotoObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error
}

// HistoryRepository is the append-only audit log. There is deliberately no
// update or delete method.
type HistoryRepository interface {
	Append(ctx context.Context, event *domain.HistoryEvent) (primitive.ObjectID, error)
	ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.HistoryEvent, error)
}

// TxRunner executes fn inside one store transaction. Writes that span two
// collections (profile update + audit events, meal completion + history)
// go through it so either everything commits or nothing does.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
