// internal/repository/mongo/history_repo.go
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

const historyCollectionName = "history_events"

// mongoHistoryRepository implements repository.HistoryRepository. Append-only:
// no update or delete is ever issued against this collection.
type mongoHistoryRepository struct {
	collection *mongo.Collection
}

// NewMongoHistoryRepository creates a new History repository.
func NewMongoHistoryRepository(db *mongo.Database) repository.HistoryRepository {
	return &mongoHistoryRepository{
		collection: db.Collection(historyCollectionName),
	}
}

// Append inserts a new history event.
func (r *mongoHistoryRepository) Append(ctx context.Context, event *domain.HistoryEvent) (primitive.ObjectID, error) {
	if event.UserID == primitive.NilObjectID || event.Event == "" {
		return primitive.NilObjectID, errors.New("history event requires userId and event text")
	}
	event.ID = primitive.NewObjectID()
	if event.Date.IsZero() {
		event.Date = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted history event ID")
	}
	return insertedID, nil
}

// ListByUserID retrieves all events of one user, newest first.
func (r *mongoHistoryRepository) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.HistoryEvent, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []domain.HistoryEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EnsureHistoryIndexes creates necessary indexes. Call during startup.
func EnsureHistoryIndexes(ctx context.Context, collection *mongo.Collection) {
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
