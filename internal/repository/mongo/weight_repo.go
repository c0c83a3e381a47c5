// internal/repository/mongo/weight_repo.go
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

const weightRecordCollectionName = "weight_records"

// mongoWeightRecordRepository implements repository.WeightRecordRepository
type mongoWeightRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoWeightRecordRepository creates a new WeightRecord repository.
func NewMongoWeightRecordRepository(db *mongo.Database) repository.WeightRecordRepository {
	return &mongoWeightRecordRepository{
		collection: db.Collection(weightRecordCollectionName),
	}
}

// Create inserts a new weight record.
func (r *mongoWeightRecordRepository) Create(ctx context.Context, record *domain.WeightRecord) (primitive.ObjectID, error) {
	if record.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("weight record requires userId")
	}
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now().UTC()
	if record.Date.IsZero() {
		record.Date = record.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted weight record ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single weight record by its ID.
func (r *mongoWeightRecordRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeightRecord, error) {
	var record domain.WeightRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetByUserID retrieves all records of one user, newest measurement first.
func (r *mongoWeightRecordRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.WeightRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LatestByUserID retrieves the most recent measurement, used to derive the
// user's current weight.
func (r *mongoWeightRecordRepository) LatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.WeightRecord, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	var record domain.WeightRecord
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, findOptions).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// SetPhotoObjectKey links an uploaded progress photo to the record. This is
// the only mutation allowed on a weight record after creation.
func (r *mongoWeightRecordRepository) SetPhotoObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	update := bson.M{"$set": bson.M{"photoObjectKey": objectKey}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWeightRecordIndexes creates necessary indexes. Call during startup.
func EnsureWeightRecordIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
