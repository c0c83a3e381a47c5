// internal/repository/mongo/diet_repo.go
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

const dietCollectionName = "diets"

// mongoDietRepository implements repository.DietRepository. Like training
// weeks, a diet is one document holding its full meal/item subtree.
type mongoDietRepository struct {
	collection *mongo.Collection
}

// NewMongoDietRepository creates a new Diet repository.
func NewMongoDietRepository(db *mongo.Database) repository.DietRepository {
	return &mongoDietRepository{
		collection: db.Collection(dietCollectionName),
	}
}

// Insert stores a brand new diet aggregate.
func (r *mongoDietRepository) Insert(ctx context.Context, diet *domain.Diet) (primitive.ObjectID, error) {
	if diet.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("diet requires userId")
	}
	if diet.ID == primitive.NilObjectID {
		diet.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	diet.CreatedAt = now
	diet.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, diet)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted diet ID")
	}
	return insertedID, nil
}

// Replace overwrites the entire persisted aggregate with diet.
func (r *mongoDietRepository) Replace(ctx context.Context, diet *domain.Diet) error {
	if diet.ID == primitive.NilObjectID {
		return errors.New("diet ID is required for replace")
	}
	diet.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": diet.ID}, diet)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetByID retrieves a single diet by its ID.
func (r *mongoDietRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Diet, error) {
	var diet domain.Diet
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&diet)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &diet, nil
}

// GetByUserID retrieves all diets of one plan owner, newest first.
func (r *mongoDietRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Diet, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var diets []domain.Diet
	if err = cursor.All(ctx, &diets); err != nil {
		return nil, err
	}
	return diets, nil
}

// FindByMealID locates the diet whose nested subtree contains the meal.
func (r *mongoDietRepository) FindByMealID(ctx context.Context, mealID primitive.ObjectID) (*domain.Diet, error) {
	var diet domain.Diet
	filter := bson.M{"meals._id": mealID}
	err := r.collection.FindOne(ctx, filter).Decode(&diet)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &diet, nil
}

// Delete removes a diet and its whole subtree.
func (r *mongoDietRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDietIndexes creates necessary indexes. Call during startup.
func EnsureDietIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "meals._id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
