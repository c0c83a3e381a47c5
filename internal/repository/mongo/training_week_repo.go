// internal/repository/mongo/training_week_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"fitcollab/fitness-app/internal/domain"
	"fitcollab/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trainingWeekCollectionName = "training_weeks"

// mongoTrainingWeekRepository implements repository.TrainingWeekRepository.
// The whole day/exercise/series subtree lives inside the week document, so
// Insert and Replace are single-document (and therefore atomic) operations.
type mongoTrainingWeekRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingWeekRepository creates a new TrainingWeek repository.
func NewMongoTrainingWeekRepository(db *mongo.Database) repository.TrainingWeekRepository {
	return &mongoTrainingWeekRepository{
		collection: db.Collection(trainingWeekCollectionName),
	}
}

// Insert stores a brand new training week aggregate.
func (r *mongoTrainingWeekRepository) Insert(ctx context.Context, week *domain.TrainingWeek) (primitive.ObjectID, error) {
	if week.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("training week requires userId")
	}
	if week.ID == primitive.NilObjectID {
		week.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	week.CreatedAt = now
	week.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, week)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted training week ID")
	}
	return insertedID, nil
}

// Replace overwrites the entire persisted aggregate with week.
func (r *mongoTrainingWeekRepository) Replace(ctx context.Context, week *domain.TrainingWeek) error {
	if week.ID == primitive.NilObjectID {
		return errors.New("training week ID is required for replace")
	}
	week.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": week.ID}, week)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetByID retrieves a single training week by its ID.
func (r *mongoTrainingWeekRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingWeek, error) {
	var week domain.TrainingWeek
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&week)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &week, nil
}

// GetByUserID retrieves all training weeks of one plan owner, ordered by week number.
func (r *mongoTrainingWeekRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingWeek, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var weeks []domain.TrainingWeek
	if err = cursor.All(ctx, &weeks); err != nil {
		return nil, err
	}
	return weeks, nil
}

// FindByExerciseID locates the week whose nested subtree contains the exercise.
func (r *mongoTrainingWeekRepository) FindByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.TrainingWeek, error) {
	var week domain.TrainingWeek
	filter := bson.M{"days.exercises._id": exerciseID}
	err := r.collection.FindOne(ctx, filter).Decode(&week)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &week, nil
}

// Delete removes a training week and, being a single document, its whole subtree.
func (r *mongoTrainingWeekRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTrainingWeekIndexes creates necessary indexes. Call during startup.
func EnsureTrainingWeekIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "weekNumber", Value: 1}},
			Options: options.Index(),
		},
		{
			// Completion lookups walk from a nested exercise id to its root.
			Keys:    bson.D{{Key: "days.exercises._id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
